package chart

import (
	"fmt"
	"io"

	"github.com/verte-zerg/tuitrate/internal/labels"
	"github.com/verte-zerg/tuitrate/internal/titration"
)

const (
	phAxisMin = 0
	phAxisMax = 14
)

var phTicks = []float64{0, 7, 14}

// CurveFigure builds the chart for a titration sweep: the curve and a
// horizontal reference at neutral pH.
func CurveFigure(result titration.Result, l labels.Labels) Figure {
	fig := Figure{
		Title:  l.ChartTitle,
		XLabel: l.XAxis,
		YLabel: l.YAxis,
		YMin:   phAxisMin,
		YMax:   phAxisMax,
		YTicks: phTicks,
		Grid:   true,
	}
	if len(result) == 0 {
		return fig
	}
	neutral := make([]float64, len(result))
	for i := range neutral {
		neutral[i] = titration.NeutralPH
	}
	fig.XMin = result[0].BaseVolume
	fig.XMax = result[len(result)-1].BaseVolume
	fig.Series = []Series{
		{Name: l.Curve, Values: result.PHs()},
		{Name: l.Neutral, Values: neutral},
	}
	return fig
}

// RenderCurve prints the titration chart sized to a given total width.
func RenderCurve(w io.Writer, result titration.Result, l labels.Labels, totalWidth, height int, useColor bool) error {
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotWithColor(w, CurveFigure(result, l), width, height, useColor)
}

// NotReached stands in for the equivalence pH when the sweep stops short of
// the equivalence volume.
const NotReached = "n/a"

// SummaryRows returns label/value pairs for the key points of a sweep.
func SummaryRows(sum titration.Summary, l labels.Labels) [][]string {
	eqPH := NotReached
	if sum.EquivalenceReached {
		eqPH = fmt.Sprintf("%.2f", sum.EquivalencePH)
	}
	return [][]string{
		{l.InitialPH, fmt.Sprintf("%.2f", sum.InitialPH)},
		{l.EquivalenceVolume, fmt.Sprintf("%.2f", sum.EquivalenceVolume)},
		{l.EquivalencePH, eqPH},
		{l.FinalPH, fmt.Sprintf("%.2f", sum.FinalPH)},
	}
}

// RenderSummary prints the key points of a sweep as a table.
func RenderSummary(w io.Writer, sum titration.Summary, l labels.Labels) error {
	if _, err := fmt.Fprintln(w, l.Summary); err != nil {
		return err
	}
	for _, line := range FormatTable(nil, SummaryRows(sum, l), map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
