package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// renderConfigFile mirrors renderer.RenderConfig with a human-readable interval
type renderConfigFile struct {
	*renderer.RenderConfig
	ProgressInterval *string `json:"progress_interval"` // e.g. "1s", "500ms"; "0" disables
}

// LoadRenderConfig reads a JSON render configuration. Fields missing from the
// file keep their values from base.
func LoadRenderConfig(filename string, base renderer.RenderConfig) (renderer.RenderConfig, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return base, fmt.Errorf("failed to read config file: %w", err)
	}

	config := base
	file := renderConfigFile{RenderConfig: &config}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return base, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return base, fmt.Errorf("failed to parse config file %s: unexpected content after the JSON object", filename)
	}

	if file.ProgressInterval != nil {
		interval, err := time.ParseDuration(*file.ProgressInterval)
		if err != nil {
			return base, fmt.Errorf("invalid progress_interval in %s: %w", filename, err)
		}
		config.ProgressInterval = interval
	}

	return config, nil
}
