// Package region extracts connected foreground components from a refined
// mask and filters out the ones too small to be obstacles.
package region

import (
	"image"

	"gocv.io/x/gocv"
)

// DefaultMinArea is the contour area below which a component is noise.
const DefaultMinArea = 500.0

// Region is one connected foreground component in zone-local coordinates.
type Region struct {
	// Box is the axis-aligned bounding box of the contour.
	Box image.Rectangle `json:"box"`

	// Area is the polygon area enclosed by the contour, not Box's area.
	Area float64 `json:"area"`
}

// Filter returns the candidates whose Area is at least minArea, in order.
func Filter(candidates []Region, minArea float64) []Region {
	out := make([]Region, 0, len(candidates))
	for _, c := range candidates {
		if c.Area < minArea {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Extractor finds external contours in a mask.
type Extractor struct {
	minArea float64
}

// NewExtractor returns an extractor discarding contours with area < minArea.
func NewExtractor(minArea float64) *Extractor {
	return &Extractor{minArea: minArea}
}

// MinArea returns the area threshold.
func (e *Extractor) MinArea() float64 {
	return e.minArea
}

// Extract returns the qualifying regions of mask in contour order. Holes
// inside a component are not reported separately. Any non-zero mask value
// counts as foreground.
func (e *Extractor) Extract(mask gocv.Mat) []Region {
	return Filter(Candidates(mask), e.minArea)
}

// Candidates returns every external contour of mask as a Region, unfiltered.
func Candidates(mask gocv.Mat) []Region {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	out := make([]Region, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		out = append(out, Region{
			Box:  gocv.BoundingRect(c),
			Area: gocv.ContourArea(c),
		})
	}
	return out
}
