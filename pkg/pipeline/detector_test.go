package pipeline

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/teslashibe/go-obstacle/pkg/obstacle"
	"github.com/teslashibe/go-obstacle/pkg/overlay"
	"github.com/teslashibe/go-obstacle/pkg/zone"
)

const (
	testWidth  = 640
	testHeight = 480
)

func blankFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(30, 30, 30, 0), testHeight, testWidth, gocv.MatTypeCV8UC3)
}

func withBox(t *testing.T, r image.Rectangle) gocv.Mat {
	t.Helper()
	m := blankFrame()
	gocv.Rectangle(&m, r, color.RGBA{R: 240, G: 240, B: 240}, -1)
	return m
}

func newDetector(t *testing.T, cfg Config) *Detector {
	t.Helper()
	d, err := New(cfg, testWidth, testHeight, nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func settle(t *testing.T, d *Detector, frames int) {
	t.Helper()
	bg := blankFrame()
	defer bg.Close()
	for i := 0; i < frames; i++ {
		res, err := d.Process(bg)
		require.NoError(t, err)
		res.Close()
	}
}

func TestNew_ComputesZone(t *testing.T) {
	d := newDetector(t, DefaultConfig())
	assert.Equal(t, zone.Zone{Left: 224, Right: 416}, d.Zone())
	assert.Equal(t, image.Pt(testWidth, testHeight), d.FrameSize())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ZoneWidthPercent = 1.2
	cfg.MinContourArea = -1
	cfg.Primary = "first"

	_, err := New(cfg, testWidth, testHeight, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zone_width_percent")
	assert.Contains(t, err.Error(), "min_contour_area")
	assert.Contains(t, err.Error(), "first")
}

func TestProcess_StaticSceneHasNoObstacles(t *testing.T) {
	d := newDetector(t, DefaultConfig())

	bg := blankFrame()
	defer bg.Close()

	var last *Result
	for i := 0; i < DefaultConfig().Background.History; i++ {
		res, err := d.Process(bg)
		require.NoError(t, err)
		if last != nil {
			last.Close()
		}
		last = res
	}
	defer last.Close()

	assert.False(t, last.Detected())
	assert.Empty(t, last.Regions)
	assert.Nil(t, last.Primary)
	assert.Empty(t, last.Plan.Boxes)
	assert.Contains(t, last.Plan.Strings(), overlay.NoObstacles)

	assert.Equal(t, testHeight, last.Mask.Rows())
	assert.Equal(t, 192, last.Mask.Cols())
	assert.Equal(t, testHeight, last.Overlay.Rows())
	assert.Equal(t, testWidth, last.Overlay.Cols())
}

func TestProcess_DetectsObjectInZone(t *testing.T) {
	d := newDetector(t, DefaultConfig())
	settle(t, d, 30)

	// 61x61 block inside the zone, top edge at row 300
	obj := image.Rect(260, 300, 320, 360)
	frame := withBox(t, obj)
	defer frame.Close()

	res, err := d.Process(frame)
	require.NoError(t, err)
	defer res.Close()

	require.Len(t, res.Reports, 1)
	rep := res.Reports[0]
	assert.InDelta(t, obj.Min.X, rep.Box.Min.X, 3)
	assert.InDelta(t, obj.Min.Y, rep.Box.Min.Y, 3)
	assert.InDelta(t, 61, rep.Box.Dx(), 4)
	assert.InDelta(t, 61, rep.Box.Dy(), 4)
	assert.Equal(t, obstacle.Medium, rep.Size)
	assert.Equal(t, obstacle.DistanceLabel(obstacle.RelativeDistance(rep.Box.Min.Y, testHeight)), rep.DistanceLabel)

	require.NotNil(t, res.Primary)
	assert.Equal(t, rep, *res.Primary)
	assert.Contains(t, res.Plan.Strings(), "OBSTACLE: Medium")
	assert.Len(t, res.Plan.Boxes, 1)
}

func TestProcess_IgnoresObjectOutsideZone(t *testing.T) {
	d := newDetector(t, DefaultConfig())
	settle(t, d, 30)

	frame := withBox(t, image.Rect(20, 200, 120, 300))
	defer frame.Close()

	res, err := d.Process(frame)
	require.NoError(t, err)
	defer res.Close()

	assert.False(t, res.Detected())
}

func TestProcess_IgnoresSmallObject(t *testing.T) {
	d := newDetector(t, DefaultConfig())
	settle(t, d, 30)

	// 16x16 block: contour area 225 < 500
	frame := withBox(t, image.Rect(300, 200, 315, 215))
	defer frame.Close()

	res, err := d.Process(frame)
	require.NoError(t, err)
	defer res.Close()

	assert.False(t, res.Detected())
}

func TestProcess_PrimarySelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Primary = obstacle.SelectNearest
	d := newDetector(t, cfg)
	settle(t, d, 30)

	frame := withBox(t, image.Rect(240, 50, 300, 110))
	gocv.Rectangle(&frame, image.Rect(330, 380, 390, 440), color.RGBA{R: 240, G: 240, B: 240}, -1)
	defer frame.Close()

	res, err := d.Process(frame)
	require.NoError(t, err)
	defer res.Close()

	require.Len(t, res.Reports, 2)
	require.NotNil(t, res.Primary)
	assert.InDelta(t, 380, res.Primary.Box.Min.Y, 3, "nearest box starts lowest in the frame")
}

func TestProcess_Errors(t *testing.T) {
	d := newDetector(t, DefaultConfig())

	empty := gocv.NewMat()
	defer empty.Close()
	_, err := d.Process(empty)
	assert.ErrorIs(t, err, ErrEmptyFrame)

	small := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer small.Close()
	_, err = d.Process(small)
	assert.ErrorIs(t, err, ErrFrameSize)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	bg := blankFrame()
	defer bg.Close()
	_, err = d.Process(bg)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, d.ResetBackground(), ErrClosed)
}

func TestStats(t *testing.T) {
	d := newDetector(t, DefaultConfig())
	assert.Equal(t, Stats{}, d.Stats())

	settle(t, d, 10)

	frame := withBox(t, image.Rect(260, 300, 320, 360))
	defer frame.Close()
	res, err := d.Process(frame)
	require.NoError(t, err)
	res.Close()

	s := d.Stats()
	assert.Equal(t, int64(11), s.Frames)
	assert.Equal(t, int64(1), s.FramesWithObstacle)
	assert.Equal(t, int64(1), s.Reports)
	assert.Greater(t, s.LatencyMeanMs, 0.0)
	assert.GreaterOrEqual(t, s.LatencyStdDevMs, 0.0)
}

func TestResetBackground_ObjectBecomesForegroundAgain(t *testing.T) {
	d := newDetector(t, DefaultConfig())

	frame := withBox(t, image.Rect(260, 300, 320, 360))
	defer frame.Close()

	// static object is absorbed once the model has seen it for a while
	var res *Result
	var err error
	for i := 0; i < DefaultConfig().Background.History; i++ {
		res, err = d.Process(frame)
		require.NoError(t, err)
		if i < DefaultConfig().Background.History-1 {
			res.Close()
		}
	}
	assert.False(t, res.Detected())
	res.Close()

	require.NoError(t, d.ResetBackground())
	settle(t, d, 30)

	res, err = d.Process(frame)
	require.NoError(t, err)
	defer res.Close()
	assert.True(t, res.Detected())
}
