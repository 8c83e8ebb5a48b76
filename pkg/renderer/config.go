package renderer

import "time"

// RenderConfig contains the parameters of a single render
type RenderConfig struct {
	Width            int           `json:"width"`             // Image width in pixels
	AspectRatio      float64       `json:"aspect_ratio"`      // Width / height; height is derived
	SamplesPerPixel  int           `json:"samples_per_pixel"` // Number of rays per pixel
	MaxDepth         int           `json:"max_depth"`         // Maximum ray bounce depth
	NumWorkers       int           `json:"num_workers"`       // Number of parallel workers (0 = use CPU count)
	TileSize         int           `json:"tile_size"`         // Size of each square tile in pixels
	Seed             int64         `json:"seed"`              // Base seed for per-tile random generators
	ProgressInterval time.Duration `json:"-"`                 // How often progress is logged (0 disables)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:            400,
		AspectRatio:      16.0 / 9.0,
		SamplesPerPixel:  100,
		MaxDepth:         50,
		NumWorkers:       0,
		TileSize:         32,
		Seed:             42,
		ProgressInterval: time.Second,
	}
}

// Height derives the image height from the width and aspect ratio, never less than 1
func (c RenderConfig) Height() int {
	if c.AspectRatio <= 0 {
		return max(1, c.Width)
	}
	return max(1, int(float64(c.Width)/c.AspectRatio))
}

// withDefaults fills zero values that would otherwise stall or break a render
func (c RenderConfig) withDefaults() RenderConfig {
	defaults := DefaultRenderConfig()
	if c.Width <= 0 {
		c.Width = defaults.Width
	}
	if c.AspectRatio <= 0 {
		c.AspectRatio = defaults.AspectRatio
	}
	if c.SamplesPerPixel <= 0 {
		c.SamplesPerPixel = 1
	}
	if c.TileSize <= 0 {
		c.TileSize = defaults.TileSize
	}
	return c
}
