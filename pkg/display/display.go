// Package display presents annotated frames and polls for the exit request.
package display

import (
	"errors"
	"io"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-obstacle/pkg/obstacle"
	"github.com/teslashibe/go-obstacle/pkg/pipeline"
	"github.com/teslashibe/go-obstacle/pkg/zone"
)

// Summary is the serialisable outcome of one frame.
type Summary struct {
	Seq        int64             `json:"seq"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Zone       zone.Zone         `json:"zone"`
	Detected   bool              `json:"detected"`
	Reports    []obstacle.Report `json:"reports"`
	Primary    *obstacle.Report  `json:"primary,omitempty"`
	Annotation []string          `json:"annotation"`
	ElapsedMs  float64           `json:"elapsed_ms"`
	Stats      pipeline.Stats    `json:"stats"`
}

// View is what a display receives per frame. The Mats are only valid for
// the duration of Show.
type View struct {
	Overlay gocv.Mat
	Mask    gocv.Mat
	Summary Summary
}

// Display shows frames and reports when the user asked to stop.
type Display interface {
	// Show presents one frame. It must not retain the View's Mats.
	Show(v View) error

	// ExitRequested polls for the exit trigger. It must not block for more
	// than a few milliseconds.
	ExitRequested() bool

	io.Closer
}

// Resetter is implemented by displays that let the user discard the learned
// background, e.g. after the camera was moved.
type Resetter interface {
	// ResetRequested reports a pending reset and clears it.
	ResetRequested() bool
}

// Headless shows nothing and never requests exit.
type Headless struct{}

// Show implements Display.
func (Headless) Show(View) error { return nil }

// ExitRequested implements Display.
func (Headless) ExitRequested() bool { return false }

// Close implements Display.
func (Headless) Close() error { return nil }

// Multi fans frames out to several displays.
type Multi []Display

// Show implements Display. Every display is shown even if one fails.
func (m Multi) Show(v View) error {
	var errs []error
	for _, d := range m {
		if err := d.Show(v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExitRequested implements Display; any display can request exit.
func (m Multi) ExitRequested() bool {
	for _, d := range m {
		if d.ExitRequested() {
			return true
		}
	}
	return false
}

// ResetRequested implements Resetter. Every member is polled so that each
// pending request is consumed.
func (m Multi) ResetRequested() bool {
	reset := false
	for _, d := range m {
		if r, ok := d.(Resetter); ok && r.ResetRequested() {
			reset = true
		}
	}
	return reset
}

// Close implements Display and closes every display.
func (m Multi) Close() error {
	var errs []error
	for _, d := range m {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
