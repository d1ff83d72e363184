// Package frame provides the video frame sources feeding the detector.
package frame

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"gocv.io/x/gocv"
)

// Sentinel errors.
var (
	// ErrEndOfStream is returned by Read when no further frame is available.
	ErrEndOfStream = errors.New("frame: end of stream")

	// ErrOpen is returned when a source cannot be opened.
	ErrOpen = errors.New("frame: cannot open source")

	// ErrClosed is returned when reading from a closed source.
	ErrClosed = errors.New("frame: source closed")
)

// SyntheticTarget selects the built-in demo scene in Open.
const SyntheticTarget = "synthetic"

// Source supplies sequential BGR frames of a fixed size.
type Source interface {
	// Read fetches the next frame into dst. It returns ErrEndOfStream when
	// the stream is exhausted or the device stops delivering frames.
	Read(dst *gocv.Mat) error

	// Name describes the source for logs.
	Name() string

	// Close releases the device. After Close, Read returns ErrClosed.
	io.Closer
}

// Open opens target. An integer is a device index, SyntheticTarget is the
// demo scene, anything else is passed to OpenCV as a file path or stream URL.
func Open(target string, logger *slog.Logger) (Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if target == SyntheticTarget {
		logger.Info("opening frame source", "kind", "synthetic")
		return NewSyntheticSource(DemoScene()), nil
	}

	var device interface{} = target
	kind := "path"
	if idx, err := strconv.Atoi(target); err == nil {
		device = idx
		kind = "device"
	}
	logger.Info("opening frame source", "kind", kind, "target", target)

	src, err := OpenCapture(device)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// CaptureSource reads frames from an OpenCV VideoCapture.
type CaptureSource struct {
	cap    *gocv.VideoCapture
	name   string
	closed bool
}

// OpenCapture opens a device index (int) or a path/URL (string).
func OpenCapture(device interface{}) (*CaptureSource, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("%w %v: %v", ErrOpen, device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w %v", ErrOpen, device)
	}
	return &CaptureSource{cap: vc, name: fmt.Sprint(device)}, nil
}

// Read implements Source.
func (s *CaptureSource) Read(dst *gocv.Mat) error {
	if s.closed {
		return ErrClosed
	}
	if ok := s.cap.Read(dst); !ok || dst.Empty() {
		return ErrEndOfStream
	}
	return nil
}

// Name implements Source.
func (s *CaptureSource) Name() string {
	return s.name
}

// Close implements Source. Safe to call twice.
func (s *CaptureSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.cap.Close()
}
