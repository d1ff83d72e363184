// Package zone computes the central detection strip of a frame.
package zone

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// DefaultWidthPercent is the share of the frame width covered by the zone.
const DefaultWidthPercent = 0.3

// Sentinel errors for zone computation.
var (
	// ErrInvalidWidth is returned when the frame width is not positive.
	ErrInvalidWidth = errors.New("zone: frame width must be positive")

	// ErrInvalidPercent is returned when the width fraction is outside (0,1).
	ErrInvalidPercent = errors.New("zone: width percent must be in (0, 1)")

	// ErrEmptyZone is returned when the fraction rounds the zone down to zero columns.
	ErrEmptyZone = errors.New("zone: zone width rounds to zero")
)

// Zone is the pair of column boundaries of the detection strip.
// Left is inclusive, Right is exclusive.
type Zone struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Compute derives the zone for a frame of the given width.
//
//	zone_width = floor(W * p)
//	left       = floor((W - zone_width) / 2)
//	right      = left + zone_width
func Compute(frameWidth int, widthPercent float64) (Zone, error) {
	if frameWidth <= 0 {
		return Zone{}, fmt.Errorf("%w: got %d", ErrInvalidWidth, frameWidth)
	}
	if math.IsNaN(widthPercent) || widthPercent <= 0 || widthPercent >= 1 {
		return Zone{}, fmt.Errorf("%w: got %v", ErrInvalidPercent, widthPercent)
	}

	width := int(float64(frameWidth) * widthPercent)
	if width <= 0 {
		return Zone{}, fmt.Errorf("%w: width %d, percent %v", ErrEmptyZone, frameWidth, widthPercent)
	}

	left := (frameWidth - width) / 2
	return Zone{Left: left, Right: left + width}, nil
}

// Width returns the number of columns in the zone.
func (z Zone) Width() int {
	return z.Right - z.Left
}

// Rect returns the zone as a rectangle spanning the full frame height.
func (z Zone) Rect(height int) image.Rectangle {
	return image.Rect(z.Left, 0, z.Right, height)
}

// ToFrame translates a zone-local rectangle into frame coordinates.
func (z Zone) ToFrame(r image.Rectangle) image.Rectangle {
	return r.Add(image.Pt(z.Left, 0))
}

// String implements fmt.Stringer.
func (z Zone) String() string {
	return fmt.Sprintf("[%d,%d)", z.Left, z.Right)
}
