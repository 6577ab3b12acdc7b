package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"DrawOnScreen/internal/config"
	"DrawOnScreen/internal/logging"
	"DrawOnScreen/internal/storage"
	"DrawOnScreen/internal/ui"
)

type CLIOpts struct {
	configPath string
	logLevel   string
	load       string
	export     string
	output     string
	width      float64
	height     float64
	background bool
	info       bool
	clipboard  bool
}

func parseCLIOpts() CLIOpts {
	var opt CLIOpts
	flag.StringVar(&opt.configPath, "config", config.Path(), "Configuration file")
	flag.StringVar(&opt.logLevel, "log", "", "Log level: debug, info, warn or error (overrides the configuration)")
	flag.StringVar(&opt.load, "load", "", "Drawing to use without the window, by name (default: the persistent drawing)")
	flag.StringVar(&opt.export, "export", "", "Export the drawing without the window: svg, png or pdf")
	flag.StringVar(&opt.output, "o", "", "Export output file (default: the drawing name in the current directory)")
	flag.Float64Var(&opt.width, "width", 1920, "Exported page width")
	flag.Float64Var(&opt.height, "height", 1080, "Exported page height")
	flag.BoolVar(&opt.background, "background", false, "Paint the configured background in exports")
	flag.BoolVar(&opt.info, "info", false, "Print a summary of the drawing and exit")
	flag.BoolVar(&opt.clipboard, "clipboard", false, "Copy the drawing to the clipboard as SVG and exit")
	flag.Parse()
	return opt
}

func main() {
	opt := parseCLIOpts()

	conf, err := config.Load(opt.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
	}
	level := conf.LogLevel
	if opt.logLevel != "" {
		level = opt.logLevel
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logging.ParseLevel(level)})))

	snap := conf.Snapshot()
	dir := snap.DrawingsDir
	if dir == "" {
		dir = config.DataDir()
	}
	files := storage.New(dir)

	if opt.export != "" || opt.info || opt.clipboard {
		if err := runCLI(opt, snap, files); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ui.Run(snap, files)
}
