package frame

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Object is a solid rectangle moving through a synthetic scene.
type Object struct {
	Start      image.Rectangle // position at FirstFrame
	Velocity   image.Point     // pixels per frame
	FirstFrame int             // frame index at which the object appears
	LastFrame  int             // frame index after which it disappears; 0 = never
	Color      color.RGBA
}

// Scene describes a deterministic generated video.
type Scene struct {
	Width      int
	Height     int
	Frames     int // 0 = unbounded
	Background color.RGBA
	Objects    []Object
}

// DemoScene is a 640x480 scene with an object crossing the detection zone
// from the top and a second one approaching from the bottom.
func DemoScene() Scene {
	return Scene{
		Width:      640,
		Height:     480,
		Background: color.RGBA{R: 40, G: 40, B: 40},
		Objects: []Object{
			{
				Start:      image.Rect(300, 0, 340, 40),
				Velocity:   image.Pt(0, 4),
				FirstFrame: 60,
				LastFrame:  170,
				Color:      color.RGBA{R: 220, G: 200, B: 180},
			},
			{
				Start:      image.Rect(250, 400, 330, 470),
				Velocity:   image.Pt(1, -2),
				FirstFrame: 200,
				LastFrame:  360,
				Color:      color.RGBA{R: 200, G: 220, B: 240},
			},
		},
	}
}

// SyntheticSource renders Scene frame by frame.
type SyntheticSource struct {
	scene  Scene
	n      int
	closed bool
}

// NewSyntheticSource returns a source rendering scene.
func NewSyntheticSource(scene Scene) *SyntheticSource {
	return &SyntheticSource{scene: scene}
}

// Read implements Source.
func (s *SyntheticSource) Read(dst *gocv.Mat) error {
	if s.closed {
		return ErrClosed
	}
	if s.scene.Frames > 0 && s.n >= s.scene.Frames {
		return ErrEndOfStream
	}

	bg := s.scene.Background
	img := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(bg.B), float64(bg.G), float64(bg.R), 0),
		s.scene.Height, s.scene.Width, gocv.MatTypeCV8UC3)
	defer img.Close()

	for _, o := range s.scene.Objects {
		if r, ok := o.At(s.n); ok {
			if err := gocv.Rectangle(&img, r, o.Color, -1); err != nil {
				return fmt.Errorf("frame: draw synthetic object: %w", err)
			}
		}
	}

	if err := img.CopyTo(dst); err != nil {
		return fmt.Errorf("frame: copy synthetic frame: %w", err)
	}
	s.n++
	return nil
}

// At returns the object's rectangle at frame n, if visible.
func (o Object) At(n int) (image.Rectangle, bool) {
	if n < o.FirstFrame || (o.LastFrame > 0 && n > o.LastFrame) {
		return image.Rectangle{}, false
	}
	steps := n - o.FirstFrame
	return o.Start.Add(image.Pt(o.Velocity.X*steps, o.Velocity.Y*steps)), true
}

// Produced returns how many frames have been read.
func (s *SyntheticSource) Produced() int {
	return s.n
}

// Name implements Source.
func (s *SyntheticSource) Name() string {
	return SyntheticTarget
}

// Close implements Source.
func (s *SyntheticSource) Close() error {
	s.closed = true
	return nil
}
