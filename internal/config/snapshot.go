package config

import (
	"log/slog"
	"math"
	"time"

	"DrawOnScreen/internal/logging"
	"DrawOnScreen/internal/state"
)

// gridTiles is the number of major grid tiles across the surface when the
// grid spacing is automatic.
const gridTiles = 30

type ColorPalette struct {
	Name   string
	Colors []*state.Color
}

type GridSettings struct {
	Auto    bool
	Spacing float64
	Width   float64
	Color   *state.Color
}

// Snapshot is the resolved configuration. It is a value: the controller
// keeps the one it was given until it receives a new one.
type Snapshot struct {
	Palettes       []ColorPalette
	Background     *state.Color
	Grid           GridSettings
	SquareSize     float64 // zero for automatic
	DashArray      [2]float64
	DashOffset     float64
	LineWidth      float64
	Font           *state.Font
	Smooth         state.SmoothPolicy
	Snap           state.SnapPolicy
	SampleInterval time.Duration
	GrabInterval   time.Duration
	CursorBlink    time.Duration
	HitTolerance   float64
	Persistent     bool
	DrawingsDir    string
	Images         []string
	LogLevel       slog.Level
}

// DefaultSnapshot resolves Default.
func DefaultSnapshot() Snapshot {
	return Default().Snapshot()
}

// Snapshot resolves colors and fonts and converts units. Unusable values
// are logged and replaced by a fallback.
func (c Config) Snapshot() Snapshot {
	s := Snapshot{
		Background:   colorOr(c.Background, "Black"),
		Grid:         GridSettings{Auto: c.Grid.Auto, Spacing: c.Grid.Spacing, Width: round2(c.Grid.Width), Color: colorOr(c.Grid.Color, "Gray")},
		DashOffset:   round2(c.Dash.Offset),
		LineWidth:    math.Max(0, c.LineWidth),
		Font:         fontOr(c.Font),
		Smooth:       state.SmoothPolicy{Self: c.Smooth.Self, Neighbor: c.Smooth.Neighbor, Passes: c.Smooth.Passes},
		Snap:         state.SnapPolicy{AngleStep: c.Snap.AngleStep * math.Pi / 180, SizeStep: c.Snap.SizeStep},
		HitTolerance: c.HitTolerance,
		Persistent:   c.Persistent,
		DrawingsDir:  c.DrawingsDir,
		Images:       append([]string(nil), c.Images...),
		LogLevel:     logging.ParseLevel(c.LogLevel),
	}
	if !c.SquareArea.Auto {
		s.SquareSize = c.SquareArea.Size
	}
	if !c.Dash.Auto {
		s.DashArray = [2]float64{round2(c.Dash.On), round2(c.Dash.Off)}
	}
	if s.Smooth.Self+2*s.Smooth.Neighbor <= 0 || s.Smooth.Passes <= 0 {
		s.Smooth = state.DefaultSmooth
	}
	if s.Snap.AngleStep <= 0 || s.Snap.SizeStep <= 0 {
		s.Snap = state.DefaultSnap
	}
	if s.HitTolerance <= 0 {
		s.HitTolerance = 1
	}
	if s.DrawingsDir == "" {
		s.DrawingsDir = DataDir()
	}
	s.SampleInterval = millis(c.Timers.SampleMs, 1)
	s.GrabInterval = millis(c.Timers.GrabMs, 80)
	s.CursorBlink = millis(c.Timers.CursorMs, 600)

	for _, p := range c.Palettes {
		cp := ColorPalette{Name: p.Name}
		for _, src := range p.Colors {
			col, err := state.ParseColor(src)
			if err != nil {
				logging.Logger().Warn("palette color skipped", "palette", p.Name, "color", src, "error", err)
				continue
			}
			cp.Colors = append(cp.Colors, col)
		}
		if len(cp.Colors) == 0 {
			cp.Colors = append(cp.Colors, state.MustColor("White"))
		}
		s.Palettes = append(s.Palettes, cp)
	}
	if len(s.Palettes) == 0 {
		s.Palettes = []ColorPalette{{Name: "Palette", Colors: []*state.Color{state.MustColor("White")}}}
	}
	return s
}

// GridFor returns the grid spacing and line width for a surface of the
// given width.
func (s Snapshot) GridFor(width float64) (spacing, lineWidth float64) {
	if !s.Grid.Auto {
		return s.Grid.Spacing, s.Grid.Width
	}
	spacing = math.Max(1, math.Round(width/(5*gridTiles)))
	return spacing, spacing / 20
}

func colorOr(src, fallback string) *state.Color {
	c, err := state.ParseColor(src)
	if err != nil {
		logging.Logger().Warn("color falls back", "color", src, "fallback", fallback, "error", err)
		return state.MustColor(fallback)
	}
	return c
}

func fontOr(desc string) *state.Font {
	f, err := state.ParseFont(desc)
	if err != nil {
		logging.Logger().Warn("font falls back", "font", desc, "error", err)
		return &state.Font{Family: "Sans", Weight: state.WeightNormal, Style: state.StyleNormal}
	}
	return f
}

func millis(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Millisecond
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
