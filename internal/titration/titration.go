// Package titration computes strong acid / strong base titration curves.
package titration

import (
	"math"
)

// DefaultSampleCount is the number of points in a sweep when the caller has no preference.
const DefaultSampleCount = 500

const (
	// Kw is the ion product of water at 25 °C.
	Kw = 1e-14
	// NeutralH3O is the hydronium concentration used at the exact equivalence point.
	NeutralH3O = 1e-7
	// NeutralPH is the pH of pure water.
	NeutralPH = 7.0
)

// Field names reported by ParamError.
const (
	FieldAcidConcentration = "AcidConcentration"
	FieldAcidVolume        = "AcidVolume"
	FieldBaseConcentration = "BaseConcentration"
	FieldSampleCount       = "SampleCount"
)

// Parameters describes one titration: an acid solution titrated with a base.
// Concentrations are molar, volumes are millilitres.
type Parameters struct {
	AcidConcentration float64
	AcidVolume        float64
	BaseConcentration float64
}

// Sample is one point of a titration curve.
type Sample struct {
	BaseVolume float64
	PH         float64
}

// Result is a sweep ordered by increasing base volume.
type Result []Sample

// Validate checks that every parameter is a positive finite number.
func (p Parameters) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{FieldAcidConcentration, p.AcidConcentration},
		{FieldAcidVolume, p.AcidVolume},
		{FieldBaseConcentration, p.BaseConcentration},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &ParamError{Field: c.field, Value: c.value, Reason: "must be finite"}
		}
		if c.value <= 0 {
			return &ParamError{Field: c.field, Value: c.value, Reason: "must be > 0"}
		}
	}
	return nil
}

// AcidMoles returns the moles of acid initially present.
func (p Parameters) AcidMoles() float64 {
	return p.AcidConcentration * p.AcidVolume / 1000
}

// EquivalenceVolume returns the base volume (mL) at which moles of base equal moles of acid.
func EquivalenceVolume(p Parameters) float64 {
	return p.AcidConcentration * p.AcidVolume / p.BaseConcentration
}

// Compute sweeps base volume evenly over [0, 2*AcidVolume] and returns the pH at
// each of sampleCount points. Either the whole sweep is returned or an error.
func Compute(p Parameters, sampleCount int) (Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if sampleCount < 2 {
		return nil, &ParamError{Field: FieldSampleCount, Value: float64(sampleCount), Reason: "must be >= 2"}
	}

	volumes := linspace(0, 2*p.AcidVolume, sampleCount)
	h3o := make([]float64, len(volumes))
	for i, v := range volumes {
		h3o[i] = hydronium(p, v)
	}

	result := make(Result, len(volumes))
	for i, v := range volumes {
		result[i] = Sample{BaseVolume: v, PH: -math.Log10(h3o[i])}
	}
	return result, nil
}

// hydronium returns [H3O+] after v mL of base has been added.
func hydronium(p Parameters, v float64) float64 {
	// Undiluted acid; the mixing formula is not applied here.
	if v == 0 {
		return p.AcidConcentration
	}
	acidMoles := p.AcidMoles()
	baseMoles := p.BaseConcentration * v / 1000
	switch {
	case baseMoles < acidMoles:
		remaining := acidMoles - baseMoles
		return remaining / (p.AcidVolume + v) * 1000
	case baseMoles > acidMoles:
		excess := baseMoles - acidMoles
		oh := excess / (p.AcidVolume + v) * 1000
		return Kw / oh
	default:
		// Exact equality only; floating point sweeps rarely land here.
		return NeutralH3O
	}
}

// linspace returns n evenly spaced values over [start, stop] with the last value exactly stop.
func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = float64(i)*step + start
	}
	out[n-1] = stop
	return out
}
