package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/teslashibe/go-obstacle/internal/config"
	"github.com/teslashibe/go-obstacle/pkg/obstacle"
	"github.com/teslashibe/go-obstacle/pkg/pipeline"
	"github.com/teslashibe/go-obstacle/pkg/web"
)

const (
	displayWindow = "window"
	displayWeb    = "web"
	displayNone   = "none"

	defaultSource  = "0"
	defaultDisplay = displayWindow
)

type flags struct {
	source       string
	display      string
	addr         string
	configPath   string
	zoneWidth    float64
	history      int
	varThreshold float64
	minArea      float64
	primary      string
	maxFrames    int64
	logLevel     string
	logFormat    string

	set map[string]bool
	err error
}

// settings is the resolved run configuration.
type settings struct {
	source    string
	displays  []string
	addr      string
	detector  pipeline.Config
	maxFrames int64
	logLevel  string
}

func parseFlags(args []string, output io.Writer) flags {
	def := pipeline.DefaultConfig()
	var f flags

	fs := flag.NewFlagSet("obstacle", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.source, "source", defaultSource, "Camera index, video file, stream URL, or \"synthetic\"")
	fs.StringVar(&f.display, "display", defaultDisplay, "Comma-separated displays: window, web, none")
	fs.StringVar(&f.addr, "addr", web.DefaultAddr, "Listen address for the web display")
	fs.StringVar(&f.configPath, "config", "", "JSON tuning file")
	fs.Float64Var(&f.zoneWidth, "zone-width", def.ZoneWidthPercent, "Detection zone width as a fraction of the frame width")
	fs.IntVar(&f.history, "history", def.Background.History, "Background model history in frames")
	fs.Float64Var(&f.varThreshold, "var-threshold", def.Background.VarThreshold, "Background model variance threshold")
	fs.Float64Var(&f.minArea, "min-area", def.MinContourArea, "Minimum contour area in pixels")
	fs.StringVar(&f.primary, "primary", string(def.Primary), "Annotated obstacle: last, largest, nearest")
	fs.Int64Var(&f.maxFrames, "max-frames", 0, "Stop after this many frames (0 = no limit)")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "Log format: text, json")

	if err := fs.Parse(args); err != nil {
		f.err = err
		return f
	}

	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f
}

// resolve layers defaults, the tuning file, the environment and explicit
// flags, in increasing priority.
func resolve(f flags, tuning *config.Tuning) (settings, error) {
	cfg := pipeline.DefaultConfig()
	if tuning != nil {
		if err := tuning.Apply(&cfg); err != nil {
			return settings{}, err
		}
	}

	s := settings{
		source:    config.Source(tuning.GetSource(defaultSource)),
		addr:      config.Addr(tuning.GetAddr(web.DefaultAddr)),
		maxFrames: tuning.GetMaxFrames(0),
		logLevel:  config.LogLevel("info"),
	}
	display := tuning.GetDisplay(defaultDisplay)

	if f.set["source"] {
		s.source = f.source
	}
	if f.set["addr"] {
		s.addr = f.addr
	}
	if f.set["display"] {
		display = f.display
	}
	if f.set["max-frames"] {
		s.maxFrames = f.maxFrames
	}
	if f.set["log-level"] {
		s.logLevel = f.logLevel
	}
	if f.set["zone-width"] {
		cfg.ZoneWidthPercent = f.zoneWidth
	}
	if f.set["history"] {
		cfg.Background.History = f.history
	}
	if f.set["var-threshold"] {
		cfg.Background.VarThreshold = f.varThreshold
	}
	if f.set["min-area"] {
		cfg.MinContourArea = f.minArea
	}
	if f.set["primary"] {
		sel, err := obstacle.ParseSelection(f.primary)
		if err != nil {
			return settings{}, err
		}
		cfg.Primary = sel
	}

	if err := cfg.Validate(); err != nil {
		return settings{}, err
	}
	if s.maxFrames < 0 {
		return settings{}, fmt.Errorf("max-frames must be non-negative, got %d", s.maxFrames)
	}
	s.detector = cfg

	displays, err := parseDisplays(display)
	if err != nil {
		return settings{}, err
	}
	s.displays = displays
	return s, nil
}

func parseDisplays(list string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, d := range strings.Split(list, ",") {
		d = strings.TrimSpace(strings.ToLower(d))
		switch d {
		case "":
			continue
		case displayWindow, displayWeb, displayNone:
		default:
			return nil, fmt.Errorf("unknown display %q (want window, web or none)", d)
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no display selected")
	}
	return out, nil
}
