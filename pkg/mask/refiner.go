// Package mask cleans up raw foreground masks before contour extraction.
package mask

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// KernelSize is the side of the square structuring element.
const KernelSize = 5

// Sentinel errors.
var (
	// ErrClosed is returned when refining after Close.
	ErrClosed = errors.New("mask: refiner closed")

	// ErrEmptyInput is returned when the source mask is empty.
	ErrEmptyInput = errors.New("mask: empty input mask")
)

// Refiner applies a morphological opening followed by a closing with a fixed
// 5x5 rectangular kernel. Opening removes isolated speckles, closing fills
// small holes inside blobs.
type Refiner struct {
	kernel gocv.Mat
	closed bool
}

// NewRefiner allocates the structuring element. Call Close when done.
func NewRefiner() *Refiner {
	return &Refiner{
		kernel: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(KernelSize, KernelSize)),
	}
}

// Refine writes the opened-then-closed src into dst. src and dst may be the
// same Mat.
func (r *Refiner) Refine(src gocv.Mat, dst *gocv.Mat) error {
	if r.closed {
		return ErrClosed
	}
	if src.Empty() {
		return ErrEmptyInput
	}
	if err := gocv.MorphologyEx(src, dst, gocv.MorphOpen, r.kernel); err != nil {
		return fmt.Errorf("mask: open: %w", err)
	}
	if err := gocv.MorphologyEx(*dst, dst, gocv.MorphClose, r.kernel); err != nil {
		return fmt.Errorf("mask: close: %w", err)
	}
	return nil
}

// Close frees the kernel. Safe to call twice.
func (r *Refiner) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.kernel.Close()
}
