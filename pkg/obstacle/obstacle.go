// Package obstacle maps detected regions to qualitative distance and size.
//
// Both estimates are heuristics on 2D box geometry. A box whose top edge is
// lower in the frame is treated as nearer (downward-looking camera over a
// ground plane), and a box covering more of the frame is treated as larger.
// Neither is a calibrated metric.
package obstacle

import (
	"errors"
	"fmt"
	"image"

	"github.com/teslashibe/go-obstacle/pkg/region"
	"github.com/teslashibe/go-obstacle/pkg/zone"
)

// Size is the qualitative size category.
type Size string

// Size categories.
const (
	Small  Size = "Small"
	Medium Size = "Medium"
	Large  Size = "Large"
)

// Relative-size breakpoints. Each is the inclusive lower bound of the next
// category up.
const (
	MediumThreshold = 0.01
	LargeThreshold  = 0.05
)

// ErrInvalidFrame is returned for non-positive frame dimensions.
var ErrInvalidFrame = errors.New("obstacle: frame dimensions must be positive")

// Report is the classification of one region.
type Report struct {
	Region           region.Region   `json:"region"`
	Box              image.Rectangle `json:"box"` // frame coordinates
	RelativeDistance float64         `json:"relative_distance"`
	RelativeSize     float64         `json:"relative_size"`
	DistanceLabel    string          `json:"distance_label"`
	Size             Size            `json:"size"`
}

// RelativeDistance returns 1 - y/height for a box top edge at row y.
func RelativeDistance(y, height int) float64 {
	return 1 - float64(y)/float64(height)
}

// DistanceLabel formats a relative distance as "~N% away", truncating N.
func DistanceLabel(rel float64) string {
	return fmt.Sprintf("~%d%% away", int(rel*100))
}

// RelativeSize returns the share of the frame covered by box.
func RelativeSize(box image.Rectangle, width, height int) float64 {
	return float64(box.Dx()*box.Dy()) / float64(width*height)
}

// ClassifySize maps a relative size to its category.
func ClassifySize(rel float64) Size {
	switch {
	case rel < MediumThreshold:
		return Small
	case rel < LargeThreshold:
		return Medium
	default:
		return Large
	}
}

// Classifier classifies zone-local regions against fixed frame dimensions.
type Classifier struct {
	width  int
	height int
	zone   zone.Zone
}

// NewClassifier returns a classifier for frames of width x height with the
// given detection zone.
func NewClassifier(width, height int, z zone.Zone) (*Classifier, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFrame, width, height)
	}
	return &Classifier{width: width, height: height, zone: z}, nil
}

// Classify builds the report for one region.
func (c *Classifier) Classify(r region.Region) Report {
	box := c.zone.ToFrame(r.Box)
	dist := RelativeDistance(box.Min.Y, c.height)
	size := RelativeSize(box, c.width, c.height)
	return Report{
		Region:           r,
		Box:              box,
		RelativeDistance: dist,
		RelativeSize:     size,
		DistanceLabel:    DistanceLabel(dist),
		Size:             ClassifySize(size),
	}
}

// ClassifyAll classifies regions preserving their order.
func (c *Classifier) ClassifyAll(regions []region.Region) []Report {
	if len(regions) == 0 {
		return nil
	}
	out := make([]Report, len(regions))
	for i, r := range regions {
		out[i] = c.Classify(r)
	}
	return out
}
