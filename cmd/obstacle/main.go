// Obstacle - real-time visual obstacle detection in a central detection zone.
//
// Reads frames from a camera, video file, stream URL or the built-in
// synthetic scene, and shows the annotated frame and foreground mask in
// OpenCV windows and/or a browser.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-obstacle/internal/config"
	"github.com/teslashibe/go-obstacle/internal/log"
	"github.com/teslashibe/go-obstacle/pkg/display"
	"github.com/teslashibe/go-obstacle/pkg/frame"
	"github.com/teslashibe/go-obstacle/pkg/pipeline"
	"github.com/teslashibe/go-obstacle/pkg/runner"
	"github.com/teslashibe/go-obstacle/pkg/web"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "obstacle: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	f := parseFlags(os.Args[1:], os.Stderr)
	if f.err != nil {
		return f.err
	}

	var tuning *config.Tuning
	if f.configPath != "" {
		t, err := config.LoadTuning(f.configPath)
		if err != nil {
			return err
		}
		tuning = t
	}

	st, err := resolve(f, tuning)
	if err != nil {
		return err
	}

	if err := log.Init(st.logLevel, f.logFormat); err != nil {
		return err
	}
	logger := log.L()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, err := frame.Open(st.source, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	// The first frame only fixes the frame size.
	first := gocv.NewMat()
	defer first.Close()
	if err := src.Read(&first); err != nil {
		return fmt.Errorf("read first frame from %s: %w", src.Name(), err)
	}

	det, err := pipeline.New(st.detector, first.Cols(), first.Rows(), logger)
	if err != nil {
		return err
	}
	defer det.Close()

	disp, err := openDisplays(ctx, st, src, det)
	if err != nil {
		return err
	}
	defer disp.Close()

	out, err := runner.Run(ctx, src, det, disp, runner.Options{
		MaxFrames: st.maxFrames,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	logger.Info("done", "reason", out.Reason, "frames", out.Frames)
	return nil
}

// openDisplays builds every requested display. Displays opened before a
// failure are closed again.
func openDisplays(ctx context.Context, s settings, src frame.Source, det *pipeline.Detector) (display.Display, error) {
	var multi display.Multi
	fail := func(err error) (display.Display, error) {
		return nil, errors.Join(err, multi.Close())
	}

	for _, kind := range s.displays {
		switch kind {
		case displayWindow:
			multi = append(multi, display.NewWindowDisplay())
		case displayWeb:
			size := det.FrameSize()
			srv := web.NewServer(s.addr, web.Info{
				Source: src.Name(),
				Width:  size.X,
				Height: size.Y,
				Zone:   det.Zone(),
				Config: det.Config(),
			}, log.L())
			if err := srv.Start(ctx); err != nil {
				return fail(err)
			}
			multi = append(multi, srv)
		case displayNone:
			multi = append(multi, display.Headless{})
		}
	}
	return multi, nil
}
