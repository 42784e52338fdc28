// Package model defines shared data structures.
package model

import (
	"fmt"
	"math"
	"strconv"
)

// Config defines the settings a session starts with.
type Config struct {
	AcidConcentration float64
	AcidVolume        float64
	BaseConcentration float64
	Samples           int
	Lang              string
	LabelsPath        string
	PlotHeight        int
}

// Field describes the bounds and step of one numeric input.
type Field struct {
	Min      float64
	Max      float64
	Step     float64
	Default  float64
	Decimals int
}

// Input fields of the parameter panel.
var (
	AcidConcentrationField = Field{Min: 0.01, Max: 10.0, Step: 0.01, Default: 0.1, Decimals: 2}
	AcidVolumeField        = Field{Min: 1.0, Max: 1000.0, Step: 1.0, Default: 50.0, Decimals: 1}
	BaseConcentrationField = Field{Min: 0.01, Max: 10.0, Step: 0.01, Default: 0.1, Decimals: 2}
)

// Contains reports whether v lies within the field bounds.
func (f Field) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= f.Min && v <= f.Max
}

// Clamp limits v to the field bounds.
func (f Field) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return f.Default
	}
	return math.Max(f.Min, math.Min(f.Max, v))
}

// Nudge moves v by n steps and clamps the result. The value is rounded to the
// field precision so repeated steps do not accumulate error.
func (f Field) Nudge(v float64, n int) float64 {
	return f.Round(f.Clamp(v + float64(n)*f.Step))
}

// Round snaps v to the field precision, so Format(Round(v)) parses back to
// Round(v).
func (f Field) Round(v float64) float64 {
	scale := math.Pow(10, float64(f.Decimals))
	return math.Round(v*scale) / scale
}

// Format renders v with the field precision.
func (f Field) Format(v float64) string {
	return strconv.FormatFloat(v, 'f', f.Decimals, 64)
}

// Check returns an error naming flag when v is outside the field bounds.
func (f Field) Check(flag string, v float64) error {
	if !f.Contains(v) {
		return fmt.Errorf("--%s must be between %s and %s", flag, f.Format(f.Min), f.Format(f.Max))
	}
	return nil
}
