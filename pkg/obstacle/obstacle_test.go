package obstacle

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-obstacle/pkg/region"
	"github.com/teslashibe/go-obstacle/pkg/zone"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	z, err := zone.Compute(640, 0.3)
	require.NoError(t, err)
	c, err := NewClassifier(640, 480, z)
	require.NoError(t, err)
	return c
}

func TestClassify_50x50At400(t *testing.T) {
	c := newTestClassifier(t)

	r := region.Region{Box: image.Rect(10, 400, 60, 450), Area: 2401}
	rep := c.Classify(r)

	assert.Equal(t, Small, rep.Size)
	assert.InDelta(t, 2500.0/307200.0, rep.RelativeSize, 1e-12)
	assert.InDelta(t, 1-400.0/480.0, rep.RelativeDistance, 1e-12)
	assert.Equal(t, "~16% away", rep.DistanceLabel)
	assert.Equal(t, image.Rect(234, 400, 284, 450), rep.Box)
	assert.Equal(t, r, rep.Region)
}

func TestClassifySize_Edges(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want Size
	}{
		{"tiny", 10, 10, Small},
		{"just below medium", 64, 47, Small},
		{"medium edge inclusive", 64, 48, Medium},
		{"mid medium", 100, 100, Medium},
		{"just below large", 128, 119, Medium},
		{"large edge inclusive", 128, 120, Large},
		{"whole frame", 640, 480, Large},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rel := RelativeSize(image.Rect(0, 0, tc.w, tc.h), 640, 480)
			assert.Equal(t, tc.want, ClassifySize(rel), "relative size %v", rel)
		})
	}

	assert.Equal(t, Medium, ClassifySize(MediumThreshold))
	assert.Equal(t, Large, ClassifySize(LargeThreshold))
}

func TestRelativeDistance_MonotonicInY(t *testing.T) {
	prev := RelativeDistance(0, 480)
	assert.Equal(t, 1.0, prev)
	for y := 1; y < 480; y++ {
		cur := RelativeDistance(y, 480)
		require.Greater(t, prev, cur, "not strictly decreasing at y=%d", y)
		prev = cur
	}
}

func TestDistanceLabel(t *testing.T) {
	tests := []struct {
		rel  float64
		want string
	}{
		{1, "~100% away"},
		{0.5, "~50% away"},
		{0.1667, "~16% away"},
		{0.009, "~0% away"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, DistanceLabel(tc.rel), "DistanceLabel(%v)", tc.rel)
	}
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	c := newTestClassifier(t)

	regions := []region.Region{
		{Box: image.Rect(0, 300, 20, 340), Area: 800},
		{Box: image.Rect(50, 10, 150, 110), Area: 9000},
	}
	reps := c.ClassifyAll(regions)

	require.Len(t, reps, 2)
	for i := range regions {
		assert.Equal(t, regions[i], reps[i].Region, "report %d", i)
	}
	assert.Less(t, reps[0].RelativeDistance, reps[1].RelativeDistance, "lower box should be nearer")

	assert.Nil(t, c.ClassifyAll(nil))
}

func TestNewClassifier_InvalidFrame(t *testing.T) {
	_, err := NewClassifier(0, 480, zone.Zone{Left: 0, Right: 1})
	assert.ErrorIs(t, err, ErrInvalidFrame)
}
