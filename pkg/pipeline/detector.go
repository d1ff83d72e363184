// Package pipeline runs the per-frame obstacle detection pipeline:
//
//	zone crop -> background model -> mask refiner -> region extractor
//	          -> obstacle classifier -> overlay plan -> rendered frame
//
// A Detector owns the background model state for the lifetime of one video
// stream. Frames must be processed one at a time, in arrival order.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-obstacle/pkg/background"
	"github.com/teslashibe/go-obstacle/pkg/mask"
	"github.com/teslashibe/go-obstacle/pkg/obstacle"
	"github.com/teslashibe/go-obstacle/pkg/overlay"
	"github.com/teslashibe/go-obstacle/pkg/region"
	"github.com/teslashibe/go-obstacle/pkg/zone"
)

// Sentinel errors.
var (
	// ErrEmptyFrame is returned when Process receives an empty Mat.
	ErrEmptyFrame = errors.New("pipeline: empty frame")

	// ErrFrameSize is returned when a frame does not match the startup size.
	ErrFrameSize = errors.New("pipeline: frame size changed")

	// ErrClosed is returned when the detector is used after Close.
	ErrClosed = errors.New("pipeline: detector closed")
)

// Result is the outcome of processing one frame. Mask and Overlay are owned
// by the Result and freed by Close.
type Result struct {
	Seq     int64
	Regions []region.Region
	Reports []obstacle.Report
	Primary *obstacle.Report
	Plan    overlay.Plan
	Mask    gocv.Mat // refined foreground mask, zone-sized
	Overlay gocv.Mat // annotated copy of the frame
	Elapsed time.Duration
}

// Detected reports whether any region qualified.
func (r *Result) Detected() bool {
	return len(r.Reports) > 0
}

// Close frees the result's Mats.
func (r *Result) Close() error {
	return errors.Join(r.Mask.Close(), r.Overlay.Close())
}

// Detector is the stateful per-stream pipeline.
type Detector struct {
	cfg    Config
	width  int
	height int
	zone   zone.Zone
	logger *slog.Logger

	model      *background.Model
	refiner    *mask.Refiner
	extractor  *region.Extractor
	classifier *obstacle.Classifier

	seq       int64
	detected  int64
	reports   int64
	latencies *latencies
	closed    bool
}

// New builds a detector for frames of width x height. The zone is computed
// once here and never changes.
func New(cfg Config, width, height int, logger *slog.Logger) (*Detector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: invalid config: %w", err)
	}

	z, err := zone.Compute(width, cfg.ZoneWidthPercent)
	if err != nil {
		return nil, err
	}

	classifier, err := obstacle.NewClassifier(width, height, z)
	if err != nil {
		return nil, err
	}

	model, err := background.New(cfg.Background)
	if err != nil {
		return nil, err
	}

	logger.Info("detector ready",
		"width", width,
		"height", height,
		"zone_left", z.Left,
		"zone_right", z.Right,
		"history", cfg.Background.History,
		"var_threshold", cfg.Background.VarThreshold,
		"min_area", cfg.MinContourArea,
		"primary", cfg.Primary,
	)

	return &Detector{
		cfg:        cfg,
		width:      width,
		height:     height,
		zone:       z,
		logger:     logger,
		model:      model,
		refiner:    mask.NewRefiner(),
		extractor:  region.NewExtractor(cfg.MinContourArea),
		classifier: classifier,
		latencies:  newLatencies(latencyWindow),
	}, nil
}

// Zone returns the detection zone.
func (d *Detector) Zone() zone.Zone {
	return d.zone
}

// FrameSize returns the frame dimensions the detector was built for.
func (d *Detector) FrameSize() image.Point {
	return image.Pt(d.width, d.height)
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Process runs the pipeline on one frame. The background model is updated
// whether or not any region qualifies.
func (d *Detector) Process(frame gocv.Mat) (*Result, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if frame.Empty() {
		return nil, ErrEmptyFrame
	}
	if frame.Cols() != d.width || frame.Rows() != d.height {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrFrameSize, frame.Cols(), frame.Rows(), d.width, d.height)
	}

	start := time.Now()

	roi := frame.Region(d.zone.Rect(d.height))
	defer roi.Close()

	fg := gocv.NewMat()
	if err := d.model.Apply(roi, &fg); err != nil {
		fg.Close()
		return nil, err
	}
	if err := d.refiner.Refine(fg, &fg); err != nil {
		fg.Close()
		return nil, err
	}

	regions := d.extractor.Extract(fg)
	reports := d.classifier.ClassifyAll(regions)
	primary := obstacle.Primary(reports, d.cfg.Primary)
	plan := overlay.BuildPlan(d.zone, d.height, reports, primary)
	rendered, err := overlay.Render(frame, plan)
	if err != nil {
		fg.Close()
		return nil, err
	}

	d.seq++
	res := &Result{
		Seq:     d.seq,
		Regions: regions,
		Reports: reports,
		Primary: primary,
		Plan:    plan,
		Mask:    fg,
		Overlay: rendered,
		Elapsed: time.Since(start),
	}

	if res.Detected() {
		d.detected++
		d.reports += int64(len(reports))
	}
	d.latencies.add(res.Elapsed)

	return res, nil
}

// Stats returns counters and latency statistics.
func (d *Detector) Stats() Stats {
	mean, std := d.latencies.meanStdDev()
	return Stats{
		Frames:             d.seq,
		FramesWithObstacle: d.detected,
		Reports:            d.reports,
		LatencyMeanMs:      mean,
		LatencyStdDevMs:    std,
	}
}

// ResetBackground discards the learned background.
func (d *Detector) ResetBackground() error {
	if d.closed {
		return ErrClosed
	}
	d.logger.Info("background model reset", "frames_learned", d.model.Frames())
	return d.model.Reset()
}

// Close releases the background model and kernel. Safe to call twice.
func (d *Detector) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return errors.Join(d.model.Close(), d.refiner.Close())
}
