// Package config holds renderer configuration loaded from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RenderConfig represents configuration for the landscape renderer. All
// fields are pointers so a partial JSON file only overrides what it names;
// Get* methods provide the fallback defaults.
type RenderConfig struct {
	// Grid params
	Steps *int   `json:"steps,omitempty"`
	Seed  *int64 `json:"seed,omitempty"`

	// Chart params
	Theme       *string `json:"theme,omitempty"`
	ChartWidth  *string `json:"chart_width,omitempty"`
	ChartHeight *string `json:"chart_height,omitempty"`

	// Output params
	OutputDir *string `json:"output_dir,omitempty"`
	DBPath    *string `json:"db_path,omitempty"`
}

// Defaults.
const (
	defaultSteps     = 51
	defaultTheme     = "dark"
	defaultChartSize = "900px"
	defaultOutputDir = "plots"
	defaultDBPath    = "renders.db"
)

// EmptyRenderConfig returns a RenderConfig with all fields set to nil.
func EmptyRenderConfig() *RenderConfig {
	return &RenderConfig{}
}

// GetSteps returns the configured interpolation step count or its default.
func (c *RenderConfig) GetSteps() int {
	if c.Steps != nil {
		return *c.Steps
	}
	return defaultSteps
}

// GetSeed returns the configured random seed (0 by default).
func (c *RenderConfig) GetSeed() int64 {
	if c.Seed != nil {
		return *c.Seed
	}
	return 0
}

// GetTheme returns the configured chart theme or its default.
func (c *RenderConfig) GetTheme() string {
	if c.Theme != nil {
		return *c.Theme
	}
	return defaultTheme
}

// GetChartWidth returns the configured chart width or its default.
func (c *RenderConfig) GetChartWidth() string {
	if c.ChartWidth != nil {
		return *c.ChartWidth
	}
	return defaultChartSize
}

// GetChartHeight returns the configured chart height or its default.
func (c *RenderConfig) GetChartHeight() string {
	if c.ChartHeight != nil {
		return *c.ChartHeight
	}
	return defaultChartSize
}

// GetOutputDir returns the configured output directory or its default.
func (c *RenderConfig) GetOutputDir() string {
	if c.OutputDir != nil {
		return *c.OutputDir
	}
	return defaultOutputDir
}

// GetDBPath returns the configured render history path or its default.
func (c *RenderConfig) GetDBPath() string {
	if c.DBPath != nil {
		return *c.DBPath
	}
	return defaultDBPath
}

// Validate checks that the configuration values are valid.
func (c *RenderConfig) Validate() error {
	if c.Steps != nil && *c.Steps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", *c.Steps)
	}
	return nil
}

// LoadRenderConfig loads a RenderConfig from a JSON file. Fields omitted
// from the JSON retain their defaults, so partial configs are safe.
func LoadRenderConfig(path string) (*RenderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRenderConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
