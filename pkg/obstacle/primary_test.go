package obstacle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-obstacle/pkg/region"
)

func TestPrimary(t *testing.T) {
	reports := []Report{
		{Region: region.Region{Area: 900}, RelativeDistance: 0.4, Size: Small},
		{Region: region.Region{Area: 5000}, RelativeDistance: 0.8, Size: Medium},
		{Region: region.Region{Area: 1200}, RelativeDistance: 0.2, Size: Large},
		{Region: region.Region{Area: 700}, RelativeDistance: 0.6, Size: Small},
	}

	tests := []struct {
		sel     Selection
		wantIdx int
	}{
		{SelectLast, 3},
		{SelectLargest, 1},
		{SelectNearest, 2},
		{Selection("bogus"), 3},
	}

	for _, tc := range tests {
		t.Run(string(tc.sel), func(t *testing.T) {
			assert.Same(t, &reports[tc.wantIdx], Primary(reports, tc.sel))
		})
	}

	assert.Nil(t, Primary(nil, SelectLast))
}

func TestPrimary_TiesKeepEarlier(t *testing.T) {
	reports := []Report{
		{Region: region.Region{Area: 1000}, RelativeDistance: 0.3},
		{Region: region.Region{Area: 1000}, RelativeDistance: 0.3},
	}
	assert.Same(t, &reports[0], Primary(reports, SelectLargest))
	assert.Same(t, &reports[0], Primary(reports, SelectNearest))
}

func TestParseSelection(t *testing.T) {
	for in, want := range map[string]Selection{
		"":        SelectLast,
		"last":    SelectLast,
		"largest": SelectLargest,
		"nearest": SelectNearest,
	} {
		got, err := ParseSelection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSelection("closest")
	assert.Error(t, err)
}

func TestAnnotation(t *testing.T) {
	size, dist := Annotation(Report{Size: Medium, DistanceLabel: "~42% away"})
	assert.Equal(t, "OBSTACLE: Medium", size)
	assert.Equal(t, "Distance: ~42% away", dist)
}
