package overlay

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-obstacle/pkg/obstacle"
	"github.com/teslashibe/go-obstacle/pkg/zone"
)

var testZone = zone.Zone{Left: 224, Right: 416}

func TestBuildPlan_NoObstacles(t *testing.T) {
	p := BuildPlan(testZone, 480, nil, nil)

	want := Plan{
		Lines: []Line{
			{From: image.Pt(224, 0), To: image.Pt(224, 480), Color: Green, Thickness: 2},
			{From: image.Pt(416, 0), To: image.Pt(416, 480), Color: Green, Thickness: 2},
		},
		Texts: []Text{
			{Text: NoObstacles, Origin: image.Pt(10, 30), Scale: 0.7, Color: Green, Thickness: 2},
			{Text: ZoneLabel, Origin: image.Pt(234, 20), Scale: 0.5, Color: White, Thickness: 1},
		},
	}
	assert.Empty(t, cmp.Diff(want, p), "plan (-want +got)")
	assert.Empty(t, p.Boxes)
	assert.False(t, p.Detected())
}

func TestBuildPlan_AnnotatesPrimaryOnly(t *testing.T) {
	reports := []obstacle.Report{
		{Box: image.Rect(230, 100, 300, 200), Size: obstacle.Medium, DistanceLabel: "~79% away"},
		{Box: image.Rect(300, 400, 350, 450), Size: obstacle.Small, DistanceLabel: "~16% away"},
	}

	p := BuildPlan(testZone, 480, reports, &reports[1])

	wantBoxes := []Box{
		{Rect: image.Rect(230, 100, 300, 200), Color: Red, Thickness: 2},
		{Rect: image.Rect(300, 400, 350, 450), Color: Red, Thickness: 2},
	}
	assert.Empty(t, cmp.Diff(wantBoxes, p.Boxes), "boxes (-want +got)")
	assert.Equal(t, []string{"OBSTACLE: Small", "Distance: ~16% away", ZoneLabel}, p.Strings())

	require.GreaterOrEqual(t, len(p.Texts), 2)
	assert.Equal(t, Red, p.Texts[0].Color)
	assert.Equal(t, image.Pt(10, 60), p.Texts[1].Origin)
	assert.True(t, p.Detected())
}
