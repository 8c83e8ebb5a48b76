package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// options holds everything parsed from the command line
type options struct {
	sceneID    string
	configPath string
	modelPath  string
	modelsDir  string
	outputPath string
	list       bool
	help       bool
	quiet      bool
	pinhole    bool
	render     renderer.RenderConfig
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, renders the selected scene, and writes the PNG
func run(args []string, stdout io.Writer) error {
	opts, flags, err := parseOptions(args, stdout)
	if err != nil {
		return err
	}

	if opts.help {
		printHelp(stdout, flags)
		return nil
	}
	if opts.list {
		return listScenes(stdout, opts.modelsDir)
	}

	var logger core.Logger = writerLogger{stdout}
	if opts.quiet {
		logger = renderer.NewDiscardLogger()
	}

	logger.Printf("Starting path tracer...\n")

	s, err := scene.Create(opts.sceneID, scene.Options{
		ModelPath:   opts.modelPath,
		ModelsDir:   opts.modelsDir,
		AspectRatio: opts.render.AspectRatio,
		Seed:        opts.render.Seed,
		Pinhole:     opts.pinhole,
	})
	if err != nil {
		return err
	}

	buildStart := time.Now()
	if err := s.Preprocess(); err != nil {
		return err
	}
	stats := s.BVH.Stats()
	logger.Printf("Built BVH over %d primitives in %v (%d nodes, depth %d)\n",
		s.GetPrimitiveCount(), time.Since(buildStart), stats.TotalNodes, stats.MaxDepth)

	r := renderer.NewRenderer(s, opts.render, logger)
	img, renderStats := r.Render()
	logger.Printf("Rendered %d samples over %d pixels\n", renderStats.TotalSamples, renderStats.TotalPixels)

	outputPath := opts.outputPath
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = filepath.Join("output", sanitizeSceneID(opts.sceneID), fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := loaders.SavePNG(outputPath, img); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", outputPath)
	return nil
}

// parseOptions layers defaults, then the JSON config file, then explicitly set flags
func parseOptions(args []string, output io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	defaults := renderer.DefaultRenderConfig()

	flags := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.StringVar(&opts.sceneID, "scene", "default", "Scene ID (see -list)")
	flags.StringVar(&opts.configPath, "config", "", "JSON render configuration file")
	flags.StringVar(&opts.modelPath, "model", "", "OBJ file for the 'model' scene")
	flags.StringVar(&opts.modelsDir, "models", "models", "Directory searched for model:<name> scenes")
	flags.StringVar(&opts.outputPath, "output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	flags.BoolVar(&opts.list, "list", false, "List available scenes")
	flags.BoolVar(&opts.help, "help", false, "Show help information")
	flags.BoolVar(&opts.quiet, "quiet", false, "Suppress progress output")
	flags.BoolVar(&opts.pinhole, "pinhole", false, "Disable depth of field")

	width := flags.Int("width", defaults.Width, "Image width in pixels")
	aspect := flags.Float64("aspect", defaults.AspectRatio, "Image aspect ratio (width / height)")
	spp := flags.Int("spp", defaults.SamplesPerPixel, "Samples per pixel")
	depth := flags.Int("depth", defaults.MaxDepth, "Maximum ray bounce depth")
	workers := flags.Int("workers", defaults.NumWorkers, "Number of parallel workers (0 = CPU count)")
	tile := flags.Int("tile", defaults.TileSize, "Tile size in pixels")
	seed := flags.Int64("seed", defaults.Seed, "Random seed; equal seeds give identical images")
	progress := flags.Duration("progress", defaults.ProgressInterval, "Progress report interval (0 disables)")

	if err := flags.Parse(args); err != nil {
		return opts, flags, err
	}

	opts.render = defaults
	if opts.configPath != "" {
		config, err := loaders.LoadRenderConfig(opts.configPath, defaults)
		if err != nil {
			return opts, flags, err
		}
		opts.render = config
	}

	// Flags given on the command line win over the config file
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			opts.render.Width = *width
		case "aspect":
			opts.render.AspectRatio = *aspect
		case "spp":
			opts.render.SamplesPerPixel = *spp
		case "depth":
			opts.render.MaxDepth = *depth
		case "workers":
			opts.render.NumWorkers = *workers
		case "tile":
			opts.render.TileSize = *tile
		case "seed":
			opts.render.Seed = *seed
		case "progress":
			opts.render.ProgressInterval = *progress
		}
	})

	return opts, flags, nil
}

func printHelp(w io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(w, "Monte Carlo Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flags.SetOutput(w)
	flags.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to output/<scene>/render_<timestamp>.png unless -output is given")
}

func listScenes(w io.Writer, modelsDir string) error {
	scenes, err := scene.ListScenes(modelsDir)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scenes {
		if info.Description != "" {
			fmt.Fprintf(w, "  %-16s %s - %s\n", info.ID, info.Name, info.Description)
		} else {
			fmt.Fprintf(w, "  %-16s %s\n", info.ID, info.Name)
		}
	}
	return nil
}

// sanitizeSceneID makes a scene ID usable as a directory name
func sanitizeSceneID(id string) string {
	return strings.NewReplacer(":", "-", "/", "-", "\\", "-").Replace(id)
}

// writerLogger implements core.Logger on top of an io.Writer
type writerLogger struct {
	w io.Writer
}

func (l writerLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(l.w, format, args...)
}
