package model

import (
	"math"
	"strconv"
	"testing"
)

func TestFieldNudge(t *testing.T) {
	f := AcidConcentrationField
	v := f.Default
	for i := 0; i < 10; i++ {
		v = f.Nudge(v, 1)
	}
	if v != 0.2 {
		t.Fatalf("expected 0.2 after ten steps, got %v", v)
	}
	if got := f.Nudge(0.01, -1); got != 0.01 {
		t.Fatalf("expected clamp at min, got %v", got)
	}
	if got := AcidVolumeField.Nudge(1000, 3); got != 1000 {
		t.Fatalf("expected clamp at max, got %v", got)
	}
}

func TestFieldRoundMatchesFormat(t *testing.T) {
	cases := []struct {
		field Field
		in    float64
		want  float64
	}{
		{AcidConcentrationField, 0.125, 0.13},
		{AcidConcentrationField, 0.333, 0.33},
		{AcidVolumeField, 50.25, 50.3},
		{AcidVolumeField, 12.04, 12},
	}
	for _, tc := range cases {
		got := tc.field.Round(tc.in)
		if got != tc.want {
			t.Fatalf("Round(%v): expected %v, got %v", tc.in, tc.want, got)
		}
		shown, err := strconv.ParseFloat(tc.field.Format(got), 64)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.field.Format(got), err)
		}
		if shown != got {
			t.Fatalf("Format(%v) reads back as %v", got, shown)
		}
	}
}

func TestFieldClampAndCheck(t *testing.T) {
	f := AcidVolumeField
	if got := f.Clamp(0); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := f.Clamp(math.NaN()); got != f.Default {
		t.Fatalf("expected default for NaN, got %v", got)
	}
	if err := f.Check("acid-vol", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := f.Check("acid-vol", 5000)
	if err == nil || err.Error() != "--acid-vol must be between 1.0 and 1000.0" {
		t.Fatalf("unexpected error: %v", err)
	}
}
