package titration

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var reference = Parameters{AcidConcentration: 0.1, AcidVolume: 50, BaseConcentration: 0.1}

func TestComputeSampleGrid(t *testing.T) {
	params := []Parameters{
		reference,
		{AcidConcentration: 2.5, AcidVolume: 13, BaseConcentration: 0.7},
		{AcidConcentration: 0.01, AcidVolume: 1000, BaseConcentration: 10},
	}
	for _, p := range params {
		result, err := Compute(p, DefaultSampleCount)
		require.NoError(t, err)
		require.Len(t, result, DefaultSampleCount)
		require.Equal(t, 0.0, result[0].BaseVolume)
		require.Equal(t, 2*p.AcidVolume, result[len(result)-1].BaseVolume)
		for i := 1; i < len(result); i++ {
			require.Greater(t, result[i].BaseVolume, result[i-1].BaseVolume, "sample %d", i)
		}
	}
}

func TestComputeInitialPHIsUndilutedAcid(t *testing.T) {
	result, err := Compute(reference, DefaultSampleCount)
	require.NoError(t, err)
	require.Equal(t, -math.Log10(reference.AcidConcentration), result[0].PH)
	require.InDelta(t, 1.0, result[0].PH, 1e-12)

	p := Parameters{AcidConcentration: 3.7, AcidVolume: 20, BaseConcentration: 1}
	result, err = Compute(p, 10)
	require.NoError(t, err)
	require.Equal(t, -math.Log10(3.7), result[0].PH)
}

func TestComputeReferenceScenario(t *testing.T) {
	result, err := Compute(reference, DefaultSampleCount)
	require.NoError(t, err)
	require.InDelta(t, 50.0, EquivalenceVolume(reference), 1e-12)

	last := result[len(result)-1]
	require.Equal(t, 100.0, last.BaseVolume)
	// 0.005 mol excess OH- in 150 mL.
	expected := 14 + math.Log10(0.005/150*1000)
	require.InDelta(t, expected, last.PH, 1e-9)
	require.InDelta(t, 12.52, last.PH, 0.005)

	sum := Summarize(reference, result)
	require.InDelta(t, 50.0, sum.EquivalenceVolume, 1e-12)
	require.True(t, sum.EquivalenceReached)
	require.InDelta(t, 50.0, sum.EquivalenceSample, 0.2)
	require.InDelta(t, 1.0, sum.InitialPH, 1e-12)
	require.Equal(t, last.PH, sum.FinalPH)
}

func TestSummarizeEquivalenceBeyondSweep(t *testing.T) {
	p := Parameters{AcidConcentration: 10, AcidVolume: 1, BaseConcentration: 0.01}
	result, err := Compute(p, DefaultSampleCount)
	require.NoError(t, err)

	sum := Summarize(p, result)
	require.InDelta(t, 1000.0, sum.EquivalenceVolume, 1e-9)
	require.False(t, sum.EquivalenceReached)
	require.Zero(t, sum.EquivalencePH)
	require.Zero(t, sum.EquivalenceSample)
	require.Equal(t, 2.0, sum.FinalVolume)
	require.Less(t, sum.FinalPH, NeutralPH)
}

func TestComputeMonotonicThroughEquivalence(t *testing.T) {
	result, err := Compute(reference, DefaultSampleCount)
	require.NoError(t, err)
	eq := EquivalenceVolume(reference)
	for i, s := range result {
		if i > 0 {
			require.Greater(t, s.PH, result[i-1].PH, "pH must rise at sample %d", i)
		}
		switch {
		case s.BaseVolume < eq:
			require.Less(t, s.PH, NeutralPH, "acid side sample %d", i)
		case s.BaseVolume > eq:
			require.Greater(t, s.PH, NeutralPH, "base side sample %d", i)
		}
	}
}

func TestComputeExactEquivalencePoint(t *testing.T) {
	// Three samples put the middle point exactly on 50 mL.
	result, err := Compute(reference, 3)
	require.NoError(t, err)
	require.Equal(t, 50.0, result[1].BaseVolume)
	require.InDelta(t, NeutralPH, result[1].PH, 1e-9)
}

func TestComputeTwoSamples(t *testing.T) {
	result, err := Compute(reference, 2)
	require.NoError(t, err)
	require.Len(t, result, 2)
	require.Equal(t, 0.0, result[0].BaseVolume)
	require.Equal(t, 100.0, result[1].BaseVolume)
	require.InDelta(t, 1.0, result[0].PH, 1e-12)
	require.InDelta(t, 12.52, result[1].PH, 0.005)
}

func TestEquivalenceVolumeScaleInvariant(t *testing.T) {
	doubled := Parameters{
		AcidConcentration: 2 * reference.AcidConcentration,
		AcidVolume:        reference.AcidVolume,
		BaseConcentration: 2 * reference.BaseConcentration,
	}
	require.InDelta(t, EquivalenceVolume(reference), EquivalenceVolume(doubled), 1e-12)

	a, err := Compute(reference, DefaultSampleCount)
	require.NoError(t, err)
	b, err := Compute(doubled, DefaultSampleCount)
	require.NoError(t, err)
	require.Equal(t, firstBasic(a), firstBasic(b))
}

func TestComputeRejectsInvalidParameters(t *testing.T) {
	cases := []struct {
		name   string
		params Parameters
		count  int
		field  string
	}{
		{"zero acid concentration", Parameters{0, 50, 0.1}, 500, FieldAcidConcentration},
		{"negative acid volume", Parameters{0.1, -1, 0.1}, 500, FieldAcidVolume},
		{"zero base concentration", Parameters{0.1, 50, 0}, 500, FieldBaseConcentration},
		{"nan acid concentration", Parameters{math.NaN(), 50, 0.1}, 500, FieldAcidConcentration},
		{"infinite base concentration", Parameters{0.1, 50, math.Inf(1)}, 500, FieldBaseConcentration},
		{"one sample", reference, 1, FieldSampleCount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Compute(tc.params, tc.count)
			require.Nil(t, result)
			require.ErrorIs(t, err, ErrInvalidParameter)
			var perr *ParamError
			require.True(t, errors.As(err, &perr))
			require.Equal(t, tc.field, perr.Field)
		})
	}
}

func TestComputeNeverProducesNonFinite(t *testing.T) {
	p := Parameters{AcidConcentration: 10, AcidVolume: 1, BaseConcentration: 0.01}
	result, err := Compute(p, DefaultSampleCount)
	require.NoError(t, err)
	for _, s := range result {
		require.False(t, math.IsNaN(s.PH) || math.IsInf(s.PH, 0))
	}
}

func firstBasic(r Result) int {
	for i, s := range r {
		if s.PH > NeutralPH {
			return i
		}
	}
	return -1
}
