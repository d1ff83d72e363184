// Package runner drives the capture, detect and display loop.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-obstacle/pkg/display"
	"github.com/teslashibe/go-obstacle/pkg/frame"
	"github.com/teslashibe/go-obstacle/pkg/pipeline"
)

// StopReason says why Run returned.
type StopReason string

const (
	StopEndOfStream StopReason = "end_of_stream"
	StopExit        StopReason = "exit_requested"
	StopCancelled   StopReason = "cancelled"
	StopFrameLimit  StopReason = "frame_limit"
	StopError       StopReason = "error"
)

// Options tune a run.
type Options struct {
	// MaxFrames stops the loop after this many processed frames. 0 = no limit.
	MaxFrames int64

	Logger *slog.Logger
}

// Outcome summarises a finished run.
type Outcome struct {
	Frames int64
	Reason StopReason
	Stats  pipeline.Stats
}

// Run reads frames from src, processes them with det and shows them on disp
// until the stream ends, disp requests exit, ctx is cancelled or the frame
// limit is reached. A disp implementing display.Resetter can ask for the
// background model to be relearned between frames. Only read and processing failures are returned as
// errors; display failures are logged and the loop continues.
func Run(ctx context.Context, src frame.Source, det *pipeline.Detector, disp display.Display, opts Options) (Outcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	img := gocv.NewMat()
	defer img.Close()

	var (
		out      Outcome
		detected bool
	)
	finish := func(reason StopReason, err error) (Outcome, error) {
		out.Reason = reason
		out.Stats = det.Stats()
		logger.Info("detection loop stopped",
			"reason", reason,
			"frames", out.Frames,
			"frames_with_obstacle", out.Stats.FramesWithObstacle,
			"latency_mean_ms", out.Stats.LatencyMeanMs,
		)
		return out, err
	}

	logger.Info("detection loop started", "source", src.Name(), "max_frames", opts.MaxFrames)

	for {
		select {
		case <-ctx.Done():
			return finish(StopCancelled, nil)
		default:
		}

		if err := src.Read(&img); err != nil {
			if errors.Is(err, frame.ErrEndOfStream) {
				return finish(StopEndOfStream, nil)
			}
			return finish(StopError, fmt.Errorf("runner: read frame: %w", err))
		}

		res, err := det.Process(img)
		if err != nil {
			return finish(StopError, fmt.Errorf("runner: process frame %d: %w", out.Frames+1, err))
		}
		out.Frames++

		if res.Detected() != detected {
			detected = res.Detected()
			if detected {
				attrs := []any{"frame", res.Seq, "obstacles", len(res.Reports)}
				if res.Primary != nil {
					attrs = append(attrs, "size", res.Primary.Size, "distance", res.Primary.DistanceLabel)
				}
				logger.Info("obstacle detected", attrs...)
			} else {
				logger.Info("path clear", "frame", res.Seq)
			}
		}
		logger.Debug("frame processed",
			"frame", res.Seq,
			"regions", len(res.Regions),
			"obstacles", len(res.Reports),
			"elapsed", res.Elapsed,
		)

		if err := disp.Show(display.NewView(det, res)); err != nil {
			logger.Warn("display failed", "frame", res.Seq, "error", err)
		}
		if err := res.Close(); err != nil {
			logger.Warn("release frame result", "frame", res.Seq, "error", err)
		}

		if r, ok := disp.(display.Resetter); ok && r.ResetRequested() {
			if err := det.ResetBackground(); err != nil {
				return finish(StopError, fmt.Errorf("runner: reset background: %w", err))
			}
			detected = false
		}

		if disp.ExitRequested() {
			return finish(StopExit, nil)
		}
		if opts.MaxFrames > 0 && out.Frames >= opts.MaxFrames {
			return finish(StopFrameLimit, nil)
		}
	}
}
