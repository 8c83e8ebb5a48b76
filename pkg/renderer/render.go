package renderer

import (
	"image"
	"sync/atomic"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Renderer splits the image into tiles, renders them on a worker pool, and
// assembles the result. A render always runs to completion.
type Renderer struct {
	raytracer  *Raytracer
	config     RenderConfig
	width      int
	height     int
	logger     core.Logger
	pixelsDone atomic.Int64 // Only state shared by the workers
}

// NewRenderer creates a renderer for the scene. Zero-valued config fields
// fall back to safe defaults.
func NewRenderer(scene Scene, config RenderConfig, logger core.Logger) *Renderer {
	config = config.withDefaults()
	width, height := config.Width, config.Height()
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &Renderer{
		raytracer: NewRaytracer(scene, width, height, config),
		config:    config,
		width:     width,
		height:    height,
		logger:    logger,
	}
}

// Render renders the full image. Workers only hand back finished tiles;
// this goroutine is the sole writer of the output image.
func (r *Renderer) Render() (*image.RGBA, RenderStats) {
	startTime := time.Now()
	r.pixelsDone.Store(0)

	// Fresh tiles reset every tile generator, so repeated renders match
	tiles := NewTileGrid(r.width, r.height, r.config.TileSize, r.config.Seed)
	pool := NewWorkerPool(r.raytracer, len(tiles), r.config.NumWorkers, &r.pixelsDone)
	progress := NewProgressReporter(&r.pixelsDone, int64(r.width*r.height), r.config.ProgressInterval, r.logger)

	r.logger.Printf("Rendering %dx%d at %d samples per pixel (%d tiles, %d workers)...\n",
		r.width, r.height, r.config.SamplesPerPixel, len(tiles), pool.GetNumWorkers())

	progress.Start()
	pool.Start()

	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: taskID})
	}

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		writeTile(img, result)
	}

	pool.Stop()
	progress.Stop()

	stats := RenderStats{
		Width:        r.width,
		Height:       r.height,
		TotalPixels:  r.width * r.height,
		TotalSamples: r.width * r.height * r.config.SamplesPerPixel,
		NumTiles:     len(tiles),
		NumWorkers:   pool.GetNumWorkers(),
		Duration:     time.Since(startTime),
	}

	r.logger.Printf("Render completed in %v (%.0f samples/sec)\n", stats.Duration, stats.SamplesPerSecond())

	return img, stats
}

// PixelsDone returns how many pixels the current or last render has finished
func (r *Renderer) PixelsDone() int64 {
	return r.pixelsDone.Load()
}

// Size returns the output image dimensions
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

func writeTile(img *image.RGBA, result TileResult) {
	i := 0
	for y := result.Bounds.Min.Y; y < result.Bounds.Max.Y; y++ {
		for x := result.Bounds.Min.X; x < result.Bounds.Max.X; x++ {
			img.SetRGBA(x, y, result.Pixels[i])
			i++
		}
	}
}
