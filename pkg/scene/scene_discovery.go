package scene

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// ErrUnknownScene is returned by Create for a scene ID it cannot resolve
var ErrUnknownScene = errors.New("unknown scene")

const modelPrefix = "model:"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Unique identifier
	Name        string // Scene name
	Description string // Optional description
	Type        string // "builtin" or "model"
	FilePath    string // Path to OBJ file (model type only)
}

// Options configures scene creation
type Options struct {
	ModelPath   string  // OBJ file for the "model" scene
	ModelsDir   string  // Directory searched for "model:<name>" scenes
	AspectRatio float64 // Camera aspect ratio override (0 = scene default)
	Seed        int64   // Seed for randomly generated scenes
	Pinhole     bool    // Disable depth of field
}

var builtInScenes = []SceneInfo{
	{ID: "default", Name: "Default Scene", Description: "Metal, diffuse, and glass spheres on a ground sphere", Type: "builtin"},
	{ID: "random", Name: "Random Spheres", Description: "Hundreds of small random spheres around three large ones", Type: "builtin"},
	{ID: "single", Name: "Single Sphere", Description: "One diffuse sphere in front of the camera", Type: "builtin"},
	{ID: "model", Name: "OBJ Model", Description: "Triangulated OBJ mesh given by path", Type: "builtin"},
}

// ListScenes returns the built-in scenes followed by OBJ models found in modelsDir
func ListScenes(modelsDir string) ([]SceneInfo, error) {
	scenes := append([]SceneInfo(nil), builtInScenes...)
	if modelsDir == "" {
		return scenes, nil
	}

	models, err := ListModelScenes(modelsDir)
	if err != nil {
		return nil, err
	}
	return append(scenes, models...), nil
}

// ListModelScenes scans dir for .obj files; a missing directory yields no scenes
func ListModelScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.obj"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan models directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ParseOBJMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes, nil
}

// ParseOBJMetadata extracts metadata from the leading comment block of an OBJ file
func ParseOBJMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	// Fallback values come from the filename
	info := SceneInfo{
		ID:       modelPrefix + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Type:     "model",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, fmt.Errorf("failed to read model metadata: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if name, ok := strings.CutPrefix(content, "Scene:"); ok {
			info.Name = strings.TrimSpace(name)
		} else if description, ok := strings.CutPrefix(content, "Description:"); ok {
			info.Description = strings.TrimSpace(description)
		}
	}

	return info, scanner.Err()
}

// Create builds the scene with the given ID. The returned scene still needs Preprocess.
func Create(id string, options Options) (*Scene, error) {
	var override renderer.CameraConfig
	if options.AspectRatio > 0 {
		override.AspectRatio = options.AspectRatio
	}
	if options.Pinhole {
		override.Aperture = PinholeAperture
	}
	overrides := []renderer.CameraConfig{override}

	switch {
	case id == "default":
		return NewDefaultScene(overrides...), nil
	case id == "random":
		return NewRandomSpheresScene(options.Seed, overrides...), nil
	case id == "single":
		return NewSingleSphereScene(overrides...), nil
	case id == "model":
		if options.ModelPath == "" {
			return nil, fmt.Errorf("scene %q requires a model path", id)
		}
		return NewModelScene(options.ModelPath, ModelOptions{}, overrides...)
	case strings.HasPrefix(id, modelPrefix):
		name := strings.TrimPrefix(id, modelPrefix)
		if name == "" || options.ModelsDir == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScene, id)
		}
		return NewModelScene(filepath.Join(options.ModelsDir, name+".obj"), ModelOptions{}, overrides...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, id)
	}
}

// titleCase converts a filename-style string to title case
// e.g., "stanford-bunny" -> "Stanford Bunny"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
