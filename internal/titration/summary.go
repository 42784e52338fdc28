package titration

import "math"

// Summary holds the key points of a sweep.
type Summary struct {
	InitialPH         float64
	EquivalenceVolume float64
	// EquivalenceReached is false when EquivalenceVolume lies beyond the last
	// sample; EquivalencePH and EquivalenceSample are then unset.
	EquivalenceReached bool
	// EquivalencePH is the pH of the sample closest to EquivalenceVolume.
	EquivalencePH float64
	// EquivalenceSample is the volume of that sample.
	EquivalenceSample float64
	FinalPH           float64
	FinalVolume       float64
}

// Summarize extracts the key points of result. An empty result yields a zero Summary.
func Summarize(p Parameters, result Result) Summary {
	if len(result) == 0 {
		return Summary{}
	}
	eqVol := EquivalenceVolume(p)
	last := result[len(result)-1]
	sum := Summary{
		InitialPH:         result[0].PH,
		EquivalenceVolume: eqVol,
		FinalPH:           last.PH,
		FinalVolume:       last.BaseVolume,
	}
	if eqVol > last.BaseVolume {
		return sum
	}
	nearest := result[0]
	bestDist := math.Inf(1)
	for _, s := range result {
		if d := math.Abs(s.BaseVolume - eqVol); d < bestDist {
			bestDist = d
			nearest = s
		}
	}
	sum.EquivalenceReached = true
	sum.EquivalencePH = nearest.PH
	sum.EquivalenceSample = nearest.BaseVolume
	return sum
}

// Volumes returns the base volumes of result in order.
func (r Result) Volumes() []float64 {
	out := make([]float64, len(r))
	for i, s := range r {
		out[i] = s.BaseVolume
	}
	return out
}

// PHs returns the pH values of result in order.
func (r Result) PHs() []float64 {
	out := make([]float64, len(r))
	for i, s := range r {
		out[i] = s.PH
	}
	return out
}
