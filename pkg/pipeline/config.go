package pipeline

import (
	"errors"
	"fmt"

	"github.com/teslashibe/go-obstacle/pkg/background"
	"github.com/teslashibe/go-obstacle/pkg/obstacle"
	"github.com/teslashibe/go-obstacle/pkg/region"
	"github.com/teslashibe/go-obstacle/pkg/zone"
)

// Config holds every tunable of the per-frame pipeline.
type Config struct {
	// ZoneWidthPercent is the zone's share of the frame width, in (0,1).
	ZoneWidthPercent float64 `json:"zone_width_percent"`

	// Background configures the background model.
	Background background.Config `json:"background"`

	// MinContourArea drops contours enclosing less area, in pixels.
	MinContourArea float64 `json:"min_contour_area"`

	// Primary picks the report used for the text annotation.
	Primary obstacle.Selection `json:"primary"`
}

// DefaultConfig returns the detector defaults.
func DefaultConfig() Config {
	return Config{
		ZoneWidthPercent: zone.DefaultWidthPercent,
		Background:       background.DefaultConfig(),
		MinContourArea:   region.DefaultMinArea,
		Primary:          obstacle.SelectLast,
	}
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.ZoneWidthPercent <= 0 || c.ZoneWidthPercent >= 1 {
		errs = append(errs, fmt.Errorf("zone_width_percent must be in (0, 1), got %v", c.ZoneWidthPercent))
	}
	if err := c.Background.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.MinContourArea < 0 {
		errs = append(errs, fmt.Errorf("min_contour_area must be non-negative, got %v", c.MinContourArea))
	}
	if _, err := obstacle.ParseSelection(string(c.Primary)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
