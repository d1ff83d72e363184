// Package overlay decides what to draw over a frame and draws it.
//
// BuildPlan is the pure part: it turns the zone and the frame's reports into
// a list of primitives. Render applies a plan to a copy of the frame.
package overlay

import (
	"image"
	"image/color"

	"github.com/teslashibe/go-obstacle/pkg/obstacle"
	"github.com/teslashibe/go-obstacle/pkg/zone"
)

// Colors. gocv converts color.RGBA to BGR scalars itself.
var (
	Green = color.RGBA{R: 0, G: 255, B: 0}
	Red   = color.RGBA{R: 255, G: 0, B: 0}
	White = color.RGBA{R: 255, G: 255, B: 255}
)

// Text strings.
const (
	ZoneLabel   = "Detection Zone"
	NoObstacles = "No obstacles detected"
)

// Line is a straight segment.
type Line struct {
	From, To  image.Point
	Color     color.RGBA
	Thickness int
}

// Box is an unfilled rectangle.
type Box struct {
	Rect      image.Rectangle
	Color     color.RGBA
	Thickness int
}

// Text is a string anchored at its bottom-left corner.
type Text struct {
	Text      string
	Origin    image.Point
	Scale     float64
	Color     color.RGBA
	Thickness int
}

// Plan is everything drawn on one frame, in drawing order: lines, boxes,
// then texts.
type Plan struct {
	Lines []Line
	Boxes []Box
	Texts []Text
}

// Detected reports whether the plan carries an obstacle annotation.
func (p Plan) Detected() bool {
	return len(p.Boxes) > 0
}

// BuildPlan returns the overlay for one frame. Every report gets a box; only
// primary gets the text annotation. With no reports the plan carries the
// "no obstacles" indicator and no boxes.
func BuildPlan(z zone.Zone, height int, reports []obstacle.Report, primary *obstacle.Report) Plan {
	p := Plan{
		Lines: []Line{
			{From: image.Pt(z.Left, 0), To: image.Pt(z.Left, height), Color: Green, Thickness: 2},
			{From: image.Pt(z.Right, 0), To: image.Pt(z.Right, height), Color: Green, Thickness: 2},
		},
	}

	for _, r := range reports {
		p.Boxes = append(p.Boxes, Box{Rect: r.Box, Color: Red, Thickness: 2})
	}

	if len(reports) > 0 && primary != nil {
		sizeLine, distLine := obstacle.Annotation(*primary)
		p.Texts = append(p.Texts,
			Text{Text: sizeLine, Origin: image.Pt(10, 30), Scale: 0.7, Color: Red, Thickness: 2},
			Text{Text: distLine, Origin: image.Pt(10, 60), Scale: 0.7, Color: Red, Thickness: 2},
		)
	} else {
		p.Texts = append(p.Texts,
			Text{Text: NoObstacles, Origin: image.Pt(10, 30), Scale: 0.7, Color: Green, Thickness: 2})
	}

	p.Texts = append(p.Texts,
		Text{Text: ZoneLabel, Origin: image.Pt(z.Left+10, 20), Scale: 0.5, Color: White, Thickness: 1})

	return p
}

// Strings returns the text strings of the plan, in order.
func (p Plan) Strings() []string {
	out := make([]string, len(p.Texts))
	for i, t := range p.Texts {
		out[i] = t.Text
	}
	return out
}
