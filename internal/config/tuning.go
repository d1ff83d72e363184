package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/teslashibe/go-obstacle/pkg/obstacle"
	"github.com/teslashibe/go-obstacle/pkg/pipeline"
)

const maxFileSize = 1 << 20

// Tuning is the JSON tuning file. Every field is optional; omitted fields
// leave the detector defaults in place.
type Tuning struct {
	ZoneWidthPercent  *float64 `json:"zone_width_percent,omitempty"`
	History           *int     `json:"history,omitempty"`
	VarianceThreshold *float64 `json:"variance_threshold,omitempty"`
	DetectShadows     *bool    `json:"detect_shadows,omitempty"`
	MinContourArea    *float64 `json:"min_contour_area,omitempty"`
	Primary           *string  `json:"primary,omitempty"`

	// Run settings, overridden by environment and flags.
	Source    *string `json:"source,omitempty"`
	Display   *string `json:"display,omitempty"`
	Addr      *string `json:"addr,omitempty"`
	MaxFrames *int64  `json:"max_frames,omitempty"`
}

// LoadTuning reads a tuning file. The path must have a .json extension.
func LoadTuning(path string) (*Tuning, error) {
	clean := filepath.Clean(path)
	if ext := filepath.Ext(clean); ext != ".json" {
		return nil, fmt.Errorf("config: tuning file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("config: stat tuning file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config: tuning file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("config: read tuning file: %w", err)
	}

	t := &Tuning{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("config: parse tuning file: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid tuning file: %w", err)
	}
	return t, nil
}

// Validate checks the fields that are set.
func (t *Tuning) Validate() error {
	var errs []error
	if t.ZoneWidthPercent != nil && (*t.ZoneWidthPercent <= 0 || *t.ZoneWidthPercent >= 1) {
		errs = append(errs, fmt.Errorf("zone_width_percent must be in (0, 1), got %v", *t.ZoneWidthPercent))
	}
	if t.History != nil && *t.History <= 0 {
		errs = append(errs, fmt.Errorf("history must be positive, got %d", *t.History))
	}
	if t.VarianceThreshold != nil && *t.VarianceThreshold <= 0 {
		errs = append(errs, fmt.Errorf("variance_threshold must be positive, got %v", *t.VarianceThreshold))
	}
	if t.MinContourArea != nil && *t.MinContourArea < 0 {
		errs = append(errs, fmt.Errorf("min_contour_area must be non-negative, got %v", *t.MinContourArea))
	}
	if t.Primary != nil {
		if _, err := obstacle.ParseSelection(*t.Primary); err != nil {
			errs = append(errs, err)
		}
	}
	if t.MaxFrames != nil && *t.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("max_frames must be non-negative, got %d", *t.MaxFrames))
	}
	return errors.Join(errs...)
}

// Apply copies the set detector fields onto cfg. An unknown primary
// selection is returned as an error and leaves cfg.Primary unchanged.
func (t *Tuning) Apply(cfg *pipeline.Config) error {
	if t.ZoneWidthPercent != nil {
		cfg.ZoneWidthPercent = *t.ZoneWidthPercent
	}
	if t.History != nil {
		cfg.Background.History = *t.History
	}
	if t.VarianceThreshold != nil {
		cfg.Background.VarThreshold = *t.VarianceThreshold
	}
	if t.DetectShadows != nil {
		cfg.Background.DetectShadows = *t.DetectShadows
	}
	if t.MinContourArea != nil {
		cfg.MinContourArea = *t.MinContourArea
	}
	if t.Primary != nil {
		sel, err := obstacle.ParseSelection(*t.Primary)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg.Primary = sel
	}
	return nil
}

// GetSource returns the source setting or def.
func (t *Tuning) GetSource(def string) string {
	if t == nil || t.Source == nil {
		return def
	}
	return *t.Source
}

// GetDisplay returns the display setting or def.
func (t *Tuning) GetDisplay(def string) string {
	if t == nil || t.Display == nil {
		return def
	}
	return *t.Display
}

// GetAddr returns the web address setting or def.
func (t *Tuning) GetAddr(def string) string {
	if t == nil || t.Addr == nil {
		return def
	}
	return *t.Addr
}

// GetMaxFrames returns the frame limit or def.
func (t *Tuning) GetMaxFrames(def int64) int64 {
	if t == nil || t.MaxFrames == nil {
		return def
	}
	return *t.MaxFrames
}
