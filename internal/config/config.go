// Package config reads and writes the TOML configuration file and turns it
// into the immutable snapshot handed to the controller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"DrawOnScreen/internal/logging"

	"github.com/BurntSushi/toml"
)

const (
	appDir     = "drawonscreen"
	configFile = "config.toml"
)

type Palette struct {
	Name   string   `toml:"name"`
	Colors []string `toml:"colors"`
}

type Grid struct {
	Auto    bool    `toml:"auto"`
	Spacing float64 `toml:"spacing"`
	Width   float64 `toml:"width"`
	Color   string  `toml:"color"`
}

type SquareArea struct {
	Auto bool    `toml:"auto"`
	Size float64 `toml:"size"`
}

type Dash struct {
	Auto   bool    `toml:"auto"`
	On     float64 `toml:"on"`
	Off    float64 `toml:"off"`
	Offset float64 `toml:"offset"`
}

type Smooth struct {
	Self     float64 `toml:"self_weight"`
	Neighbor float64 `toml:"neighbor_weight"`
	Passes   int     `toml:"passes"`
}

type Snap struct {
	AngleStep float64 `toml:"angle_step_degrees"`
	SizeStep  float64 `toml:"size_step"`
}

type Timers struct {
	SampleMs int `toml:"sample_interval_ms"`
	GrabMs   int `toml:"grab_interval_ms"`
	CursorMs int `toml:"text_cursor_ms"`
}

// Config mirrors config.toml.
type Config struct {
	Palettes     []Palette  `toml:"palettes"`
	Background   string     `toml:"background_color"`
	Grid         Grid       `toml:"grid"`
	SquareArea   SquareArea `toml:"square_area"`
	Dash         Dash       `toml:"dash"`
	LineWidth    float64    `toml:"line_width"`
	Font         string     `toml:"font"`
	Smooth       Smooth     `toml:"smooth"`
	Snap         Snap       `toml:"snap"`
	Timers       Timers     `toml:"timers"`
	HitTolerance float64    `toml:"hit_tolerance"`
	Persistent   bool       `toml:"persistent_drawing"`
	DrawingsDir  string     `toml:"drawings_dir"`
	Images       []string   `toml:"images"`
	LogLevel     string     `toml:"log_level"`
}

// Default returns the configuration written on first run.
func Default() Config {
	return Config{
		Palettes: []Palette{
			{Name: "Palette", Colors: []string{"HotPink", "Cyan", "yellow", "Orangered", "Chartreuse", "DarkViolet", "White", "Gray", "Black"}},
			{Name: "GNOME HIG lighter", Colors: []string{"rgb(153,193,241)", "rgb(143,240,164)", "rgb(249,240,107)", "rgb(255,190,111)", "rgb(246,97,81)", "rgb(220,138,221)", "rgb(205,171,143)", "rgb(255,255,255)", "rgb(119,118,123)"}},
			{Name: "GNOME HIG darker", Colors: []string{"rgb(26,95,180)", "rgb(38,162,105)", "rgb(229,165,10)", "rgb(198,70,0)", "rgb(165,29,45)", "rgb(97,53,131)", "rgb(99,69,44)", "rgb(119,118,123)", "rgb(0,0,0)"}},
		},
		Background:   "#2e2e2e",
		Grid:         Grid{Auto: true, Spacing: 10, Width: 0.5, Color: "Gray"},
		SquareArea:   SquareArea{Auto: true, Size: 512},
		Dash:         Dash{Auto: true, On: 5, Off: 15},
		LineWidth:    5,
		Font:         "Sans",
		Smooth:       Smooth{Self: 2, Neighbor: 1, Passes: 1},
		Snap:         Snap{AngleStep: 15, SizeStep: 10},
		Timers:       Timers{SampleMs: 1, GrabMs: 80, CursorMs: 600},
		HitTolerance: 1,
		Persistent:   true,
		LogLevel:     "info",
	}
}

// Dir is the configuration directory, $XDG_CONFIG_HOME/drawonscreen or
// ~/.config/drawonscreen.
func Dir() string {
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(os.Getenv("HOME"), ".config")), appDir)
}

// DataDir is where drawings are stored unless drawings_dir is set.
func DataDir() string {
	return filepath.Join(xdgOrFallback("XDG_DATA_HOME", filepath.Join(os.Getenv("HOME"), ".local", "share")), appDir)
}

// Path is the default configuration file.
func Path() string {
	return filepath.Join(Dir(), configFile)
}

// Load reads path, creating it with the defaults when it does not exist.
// Keys missing from the file keep their default value.
func Load(path string) (Config, error) {
	conf := Default()
	ok, err := exists(path)
	if err != nil {
		return conf, fmt.Errorf("check config file: %w", err)
	}
	if !ok {
		logging.Logger().Info("initializing config", "path", path)
		if err := Save(path, conf); err != nil {
			return conf, err
		}
		return conf, nil
	}
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return Default(), fmt.Errorf("read config file: %w", err)
	}
	return conf, nil
}

// Save writes conf to path, creating the directory.
func Save(path string, conf Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(conf); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func xdgOrFallback(xdg string, fallback string) string {
	dir := os.Getenv(xdg)
	if dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			return dir
		}
	}
	return fallback
}
