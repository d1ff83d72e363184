// Package background maintains an adaptive per-pixel appearance model of the
// detection zone and classifies each new zone image into foreground and
// background.
//
// The model is a mixture of Gaussians per pixel (OpenCV MOG2). Statistics are
// updated on every Apply call, so frames must be fed strictly in arrival
// order and from a single goroutine.
package background

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Default model parameters.
const (
	DefaultHistory       = 100
	DefaultVarThreshold  = 40.0
	DefaultDetectShadows = true
)

// Mask values written by Apply.
const (
	ValueBackground = 0
	ValueShadow     = 127
	ValueForeground = 255
)

// Sentinel errors.
var (
	// ErrClosed is returned when the model is used after Close.
	ErrClosed = errors.New("background: model closed")

	// ErrEmptyInput is returned when Apply receives an empty image.
	ErrEmptyInput = errors.New("background: empty input image")
)

// Config holds the model parameters.
type Config struct {
	// History is the effective number of past frames contributing to the model.
	History int `json:"history"`

	// VarThreshold is the squared Mahalanobis distance above which a pixel is
	// foreground. Higher is less sensitive.
	VarThreshold float64 `json:"variance_threshold"`

	// DetectShadows marks shadow pixels with ValueShadow instead of foreground.
	DetectShadows bool `json:"detect_shadows"`
}

// DefaultConfig returns the model defaults.
func DefaultConfig() Config {
	return Config{
		History:       DefaultHistory,
		VarThreshold:  DefaultVarThreshold,
		DetectShadows: DefaultDetectShadows,
	}
}

// Validate checks the parameters.
func (c Config) Validate() error {
	var errs []error
	if c.History <= 0 {
		errs = append(errs, fmt.Errorf("history must be positive, got %d", c.History))
	}
	if c.VarThreshold <= 0 {
		errs = append(errs, fmt.Errorf("variance_threshold must be positive, got %v", c.VarThreshold))
	}
	return errors.Join(errs...)
}

// Model is the stateful background model.
type Model struct {
	cfg    Config
	mog    gocv.BackgroundSubtractorMOG2
	frames int64
	closed bool
}

// New creates a model with empty statistics.
func New(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("background: invalid config: %w", err)
	}
	return &Model{
		cfg: cfg,
		mog: newSubtractor(cfg),
	}, nil
}

func newSubtractor(cfg Config) gocv.BackgroundSubtractorMOG2 {
	return gocv.NewBackgroundSubtractorMOG2WithParams(cfg.History, cfg.VarThreshold, cfg.DetectShadows)
}

// Apply updates the model with img and writes its foreground mask to dst.
// dst has the same size as img and a single 8-bit channel.
func (m *Model) Apply(img gocv.Mat, dst *gocv.Mat) error {
	if m.closed {
		return ErrClosed
	}
	if img.Empty() {
		return ErrEmptyInput
	}
	if err := m.mog.Apply(img, dst); err != nil {
		return fmt.Errorf("background: apply: %w", err)
	}
	m.frames++
	return nil
}

// Frames returns how many frames the model has learned from since creation
// or the last Reset.
func (m *Model) Frames() int64 {
	return m.frames
}

// Config returns the model parameters.
func (m *Model) Config() Config {
	return m.cfg
}

// Reset discards all learned statistics.
func (m *Model) Reset() error {
	if m.closed {
		return ErrClosed
	}
	if err := m.mog.Close(); err != nil {
		return fmt.Errorf("background: reset: %w", err)
	}
	m.mog = newSubtractor(m.cfg)
	m.frames = 0
	return nil
}

// Close releases the native model. It is safe to call more than once.
func (m *Model) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return m.mog.Close()
}
