// Package config resolves CLI flags and an optional JSON config file into a
// single effective configuration, the same two-layer pattern
// mu-bmd-renderer/internal/config uses: flags loaded on top of a config
// file, falling back to built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the settings img2worksheet's CLI needs to run the pipeline
// and write its outputs.
type Config struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`

	MaxColors        int    `json:"max_colors"`
	QuantizeStrategy string `json:"quantize_strategy"`

	Workers int `json:"workers"`

	PreviewPath string `json:"preview_path"`

	ArtistName string `json:"artist_name"`
}

// Flags holds the subset of Config that may be overridden from the command
// line. Zero values mean "not set" and do not override the config file.
type Flags struct {
	InputPath        string
	OutputPath       string
	MaxColors        int
	QuantizeStrategy string
	Workers          int
	PreviewPath      string
	ArtistName       string
}

// Load reads a JSON config file. Fields absent from the file keep their
// zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve overlays non-zero flags onto c, then fills any field still zero
// with the built-in default.
func (c *Config) Resolve(flags Flags) {
	if flags.InputPath != "" {
		c.InputPath = flags.InputPath
	}
	if flags.OutputPath != "" {
		c.OutputPath = flags.OutputPath
	}
	if flags.MaxColors > 0 {
		c.MaxColors = flags.MaxColors
	}
	if flags.QuantizeStrategy != "" {
		c.QuantizeStrategy = flags.QuantizeStrategy
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.PreviewPath != "" {
		c.PreviewPath = flags.PreviewPath
	}
	if flags.ArtistName != "" {
		c.ArtistName = flags.ArtistName
	}

	if c.MaxColors == 0 {
		c.MaxColors = 48
	}
	if c.QuantizeStrategy == "" {
		c.QuantizeStrategy = "kmeans"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.OutputPath == "" {
		c.OutputPath = "worksheet.json"
	}
}
