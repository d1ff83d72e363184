package background

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func solid(rows, cols int, v float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), rows, cols, gocv.MatTypeCV8UC3)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100, cfg.History)
	assert.Equal(t, 40.0, cfg.VarThreshold)
	assert.True(t, cfg.DetectShadows)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	err := Config{History: 0, VarThreshold: -1}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history")
	assert.Contains(t, err.Error(), "variance_threshold")

	_, err = New(Config{History: -5, VarThreshold: 10})
	assert.Error(t, err)
}

func TestModel_StaticSceneBecomesBackground(t *testing.T) {
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	defer m.Close()

	img := solid(120, 60, 90)
	defer img.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	for i := 0; i < DefaultHistory; i++ {
		require.NoError(t, m.Apply(img, &mask))
	}

	assert.Equal(t, int64(DefaultHistory), m.Frames())
	assert.Equal(t, 120, mask.Rows())
	assert.Equal(t, 60, mask.Cols())
	assert.Equal(t, 1, mask.Channels())
	assert.Zero(t, gocv.CountNonZero(mask), "static scene should be absorbed into the background")
}

func TestModel_MovingObjectIsForeground(t *testing.T) {
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	defer m.Close()

	bg := solid(120, 60, 20)
	defer bg.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	for i := 0; i < 30; i++ {
		require.NoError(t, m.Apply(bg, &mask))
	}

	withObject := bg.Clone()
	defer withObject.Close()
	obj := image.Rect(10, 40, 50, 80)
	gocv.Rectangle(&withObject, obj, color.RGBA{R: 230, G: 230, B: 230}, -1)

	require.NoError(t, m.Apply(withObject, &mask))

	assert.Equal(t, uint8(ValueForeground), mask.GetUCharAt(60, 30), "object centre should be foreground")
	assert.Equal(t, uint8(ValueBackground), mask.GetUCharAt(5, 5), "untouched corner should be background")
}

func TestModel_ResetForgetsStatistics(t *testing.T) {
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	defer m.Close()

	img := solid(40, 40, 50)
	defer img.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Apply(img, &mask))
	}
	require.NoError(t, m.Reset())
	assert.Zero(t, m.Frames())

	require.NoError(t, m.Apply(img, &mask))
	assert.Equal(t, int64(1), m.Frames())
}

func TestModel_Errors(t *testing.T) {
	m, err := New(DefaultConfig())
	require.NoError(t, err)

	empty := gocv.NewMat()
	defer empty.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	assert.True(t, errors.Is(m.Apply(empty, &mask), ErrEmptyInput))

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "second Close should be a no-op")

	img := solid(10, 10, 0)
	defer img.Close()
	assert.ErrorIs(t, m.Apply(img, &mask), ErrClosed)
	assert.ErrorIs(t, m.Reset(), ErrClosed)
}
