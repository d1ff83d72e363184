package overlay

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Render returns a copy of frame with plan drawn on it. The caller owns the
// returned Mat; on error nothing is returned and nothing needs closing.
func Render(frame gocv.Mat, plan Plan) (gocv.Mat, error) {
	out := frame.Clone()
	if err := Draw(&out, plan); err != nil {
		out.Close()
		return gocv.Mat{}, err
	}
	return out, nil
}

// Draw paints plan onto img in place. Every primitive is attempted and the
// failures are joined.
func Draw(img *gocv.Mat, plan Plan) error {
	var errs []error
	for _, l := range plan.Lines {
		if err := gocv.Line(img, l.From, l.To, l.Color, l.Thickness); err != nil {
			errs = append(errs, fmt.Errorf("overlay: line: %w", err))
		}
	}
	for _, b := range plan.Boxes {
		if err := gocv.Rectangle(img, b.Rect, b.Color, b.Thickness); err != nil {
			errs = append(errs, fmt.Errorf("overlay: box %v: %w", b.Rect, err))
		}
	}
	for _, t := range plan.Texts {
		if err := gocv.PutText(img, t.Text, t.Origin, gocv.FontHersheySimplex, t.Scale, t.Color, t.Thickness); err != nil {
			errs = append(errs, fmt.Errorf("overlay: text %q: %w", t.Text, err))
		}
	}
	return errors.Join(errs...)
}
