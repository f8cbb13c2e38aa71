// Package config loads the surface configuration from a TOML file.
package config

import (
	"fmt"
	"log"

	"LocalCanvas/internal/state"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	Grid    GridConfig    `toml:"grid"`
	Tools   ToolsConfig   `toml:"tools"`
	History HistoryConfig `toml:"history"`
}

type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type GridConfig struct {
	CellSize float64 `toml:"cell_size"`
	Enabled  bool    `toml:"enabled"`
	Color    string  `toml:"color"`
}

type ToolsConfig struct {
	Tool        string  `toml:"tool"`
	Color       string  `toml:"color"`
	StrokeWidth float64 `toml:"stroke_width"`
}

// DefaultHistoryLimit caps the undo log. Each entry is a full copy of the
// canvas pixels.
const DefaultHistoryLimit = 100

// HistoryConfig bounds the undo log. Zero keeps every entry.
type HistoryConfig struct {
	Limit int `toml:"limit"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Canvas:  CanvasConfig{Width: 1200, Height: 800},
		Grid:    GridConfig{CellSize: 20, Enabled: true, Color: "#e0e0e0"},
		Tools:   ToolsConfig{Tool: "pen", Color: "#000000", StrokeWidth: 2},
		History: HistoryConfig{Limit: DefaultHistoryLimit},
	}
}

// Load reads path over the defaults. An empty path yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Printf("[CONFIG] Ignoring unknown key %q in %s", key.String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the surface cannot start with. Stroke width is
// not checked here; it is clamped like any other caller input.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Grid.CellSize <= 0 {
		return fmt.Errorf("grid cell_size %v must be positive", c.Grid.CellSize)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history limit %d must not be negative", c.History.Limit)
	}
	if _, err := state.ParseColor(c.Grid.Color); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if _, err := state.ParseColor(c.Tools.Color); err != nil {
		return fmt.Errorf("tools: %w", err)
	}
	if _, err := state.ParseTool(c.Tools.Tool); err != nil {
		return fmt.Errorf("tools: %w", err)
	}
	return nil
}

// ToolState builds the initial tool state. Call Validate first.
func (c Config) ToolState() state.ToolState {
	ts := state.DefaultToolState()
	if t, err := state.ParseTool(c.Tools.Tool); err == nil {
		ts.Tool = t
	}
	if col, err := state.ParseColor(c.Tools.Color); err == nil {
		ts.Color = col
	}
	ts.StrokeWidth = state.ClampStrokeWidth(c.Tools.StrokeWidth)
	return ts
}
