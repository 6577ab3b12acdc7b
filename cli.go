package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"DrawOnScreen/internal/config"
	"DrawOnScreen/internal/export"
	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/logging"
	"DrawOnScreen/internal/state"
	"DrawOnScreen/internal/storage"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"})
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#243141")).Padding(0, 1)
)

// runCLI handles the commands that work on a saved drawing without opening
// the window.
func runCLI(opt CLIOpts, snap config.Snapshot, files *storage.Files) error {
	d := files.Persistent()
	if opt.load != "" && opt.load != d.Name {
		var err error
		if d, err = files.Named(opt.load); err != nil {
			return err
		}
	}
	elements, err := files.Load(d, nil)
	if err != nil {
		if elements == nil {
			return err
		}
		logging.Logger().Warn("drawing loaded with errors", "name", d.Name, "err", err)
	}

	opts := export.Options{Width: opt.width, Height: opt.height}
	if opt.background {
		opts.Background = snap.Background
	}

	if opt.info {
		printInfo(os.Stdout, d, elements)
	}
	if opt.clipboard {
		if err := clipboard.WriteAll(string(export.SVG(elements, opts))); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		logging.Logger().Info("drawing copied to clipboard", "name", d.Name)
	}
	if opt.export != "" {
		f, err := export.ParseFormat(opt.export)
		if err != nil {
			return err
		}
		out := opt.output
		if out == "" {
			out = d.Name + f.Ext()
		}
		return export.WriteFile(out, f, elements, opts)
	}
	return nil
}

type drawingInfo struct {
	counts        map[state.Shape]int
	erasers       int
	transformed   int
	bounds        geom.Rect
	fonts, images map[string]bool
}

func summarize(elements []*state.Element) drawingInfo {
	info := drawingInfo{
		counts: map[state.Shape]int{},
		fonts:  map[string]bool{},
		images: map[string]bool{},
	}
	for _, e := range elements {
		info.counts[e.Shape]++
		if e.Eraser {
			info.erasers++
		}
		if len(e.ActiveTransformations()) > 0 {
			info.transformed++
		}
		info.bounds = info.bounds.Union(e.Bounds())
		if e.Text != nil && e.Text.Font != nil {
			info.fonts[e.Text.Font.String()] = true
		}
		if e.Image != nil && e.Image.Ref != nil {
			info.images[e.Image.Ref.Name] = true
		}
	}
	return info
}

func printInfo(w io.Writer, d storage.Drawing, elements []*state.Element) {
	info := summarize(elements)

	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Name))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(d.Path))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%d elements", len(elements))
	for _, s := range state.Shapes {
		if n := info.counts[s]; n > 0 {
			fmt.Fprintf(&b, "\n  %-10s %d", s, n)
		}
	}
	if info.erasers > 0 {
		fmt.Fprintf(&b, "\n%d erasing", info.erasers)
	}
	if info.transformed > 0 {
		fmt.Fprintf(&b, "\n%d transformed", info.transformed)
	}
	if !info.bounds.Empty() {
		fmt.Fprintf(&b, "\nextent %.0f×%.0f at (%.0f, %.0f)",
			info.bounds.Width(), info.bounds.Height(), info.bounds.Min.X, info.bounds.Min.Y)
	}
	if len(info.fonts) > 0 {
		fmt.Fprintf(&b, "\nfonts: %s", strings.Join(sortedKeys(info.fonts), ", "))
	}
	if len(info.images) > 0 {
		fmt.Fprintf(&b, "\nimages: %s", strings.Join(sortedKeys(info.images), ", "))
	}
	fmt.Fprintln(w, boxStyle.Render(b.String()))
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
