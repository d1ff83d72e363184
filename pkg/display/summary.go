package display

import (
	"github.com/teslashibe/go-obstacle/pkg/obstacle"
	"github.com/teslashibe/go-obstacle/pkg/overlay"
	"github.com/teslashibe/go-obstacle/pkg/pipeline"
)

// NewSummary describes res as produced by det.
func NewSummary(det *pipeline.Detector, res *pipeline.Result) Summary {
	size := det.FrameSize()
	s := Summary{
		Seq:        res.Seq,
		Width:      size.X,
		Height:     size.Y,
		Zone:       det.Zone(),
		Detected:   res.Detected(),
		Reports:    res.Reports,
		Primary:    res.Primary,
		Annotation: []string{overlay.NoObstacles},
		ElapsedMs:  float64(res.Elapsed.Microseconds()) / 1000,
		Stats:      det.Stats(),
	}
	if s.Reports == nil {
		s.Reports = []obstacle.Report{}
	}
	if res.Primary != nil {
		sizeLine, distLine := obstacle.Annotation(*res.Primary)
		s.Annotation = []string{sizeLine, distLine}
	}
	return s
}

// NewView pairs res's images with its summary.
func NewView(det *pipeline.Detector, res *pipeline.Result) View {
	return View{
		Overlay: res.Overlay,
		Mask:    res.Mask,
		Summary: NewSummary(det, res),
	}
}
