package display

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Window titles and keys.
const (
	OverlayWindow = "Obstacle Detection"
	MaskWindow    = "Detection Mask"
	ExitKey       = 'q'
	ResetKey      = 'r'
)

// WindowDisplay shows the overlay and the mask in two native windows.
type WindowDisplay struct {
	overlay *gocv.Window
	mask    *gocv.Window
	exit    bool
	reset   bool
}

// NewWindowDisplay opens both windows.
func NewWindowDisplay() *WindowDisplay {
	return &WindowDisplay{
		overlay: gocv.NewWindow(OverlayWindow),
		mask:    gocv.NewWindow(MaskWindow),
	}
}

// Show implements Display. It also pumps the window event loop, which is
// where the key press is collected.
func (w *WindowDisplay) Show(v View) error {
	err := errors.Join(
		w.overlay.IMShow(v.Overlay),
		w.mask.IMShow(v.Mask),
	)
	w.handleKey(w.overlay.WaitKey(1))
	if err != nil {
		return fmt.Errorf("display: show: %w", err)
	}
	return nil
}

func (w *WindowDisplay) handleKey(key int) {
	switch key {
	case ExitKey:
		w.exit = true
	case ResetKey:
		w.reset = true
	}
}

// ResetRequested implements Resetter.
func (w *WindowDisplay) ResetRequested() bool {
	r := w.reset
	w.reset = false
	return r
}

// ExitRequested implements Display.
func (w *WindowDisplay) ExitRequested() bool {
	return w.exit
}

// Close implements Display.
func (w *WindowDisplay) Close() error {
	return errors.Join(w.mask.Close(), w.overlay.Close())
}
