// Package chart renders line charts and tables as terminal text.
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Series represents a named data series for plotting. Values are taken to be
// evenly spaced over the figure's x range.
type Series struct {
	Name   string
	Values []float64
}

// Figure describes one chart: labels, axis ranges and the series to draw.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	XMin   float64
	XMax   float64
	// YMin and YMax fix the y range; when YMax <= YMin the range comes from the data.
	// Data outside a fixed range widens it.
	YMin   float64
	YMax   float64
	YTicks []float64
	// Grid draws a dotted line at every tick.
	Grid   bool
	Series []Series
}

type valueRange struct {
	min float64
	max float64
}

type lineStyle struct {
	name   string
	sample string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 5
	axisSeparator       = " │ "
	axisCorner          = " └─"
	axisRule            = "─"
	colorReset          = "\x1b[0m"
	gridColor           = "\x1b[90m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", sample: "───", period: 1, on: 1},
	{name: "dashed", sample: "╌╌╌", period: 6, on: 3},
	{name: "dotted", sample: "┈┈┈", period: 4, on: 1},
	{name: "dashdot", sample: "─·─", period: 8, on: 3},
}

var gridStyle = lineStyle{name: "grid", period: 4, on: 1}

var colorPalette = []ansiColor{
	{name: "blue", code: "\x1b[34m"},
	{name: "gray", code: "\x1b[37m"},
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
}

// Plot renders fig as a braille line chart. Colour is used only when w is a terminal.
func Plot(w io.Writer, fig Figure, width, height int) error {
	return plotFigure(w, fig, width, height, false)
}

// PlotWithColor renders fig with optional forced color output.
func PlotWithColor(w io.Writer, fig Figure, width, height int, forceColor bool) error {
	return plotFigure(w, fig, width, height, forceColor)
}

func plotFigure(w io.Writer, fig Figure, width, height int, forceColor bool) error {
	series := filterSeries(fig.Series)
	if len(series) == 0 {
		return nil
	}

	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	scaled := make([]Series, 0, len(series))
	for _, s := range series {
		scaled = append(scaled, Series{
			Name:   s.Name,
			Values: resampleSeries(s.Values, width),
		})
	}
	yr := yRange(fig, scaled)
	dotRows := height * 4

	seriesCells := make([][][]uint8, 0, len(scaled))
	for range scaled {
		seriesCells = append(seriesCells, makeCells(height, width))
	}
	for si, s := range scaled {
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		for x, v := range s.Values {
			px := x * 2
			py := valueToRow(v, yr.min, yr.max, dotRows)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.shouldPlot(dx) {
						setBrailleDot(seriesCells[si], dx, dy)
					}
				})
			} else if style.shouldPlot(px) {
				setBrailleDot(seriesCells[si], px, py)
			}
			prevX, prevY = px, py
		}
	}

	var gridCells [][]uint8
	if fig.Grid && len(fig.YTicks) > 0 {
		gridCells = makeCells(height, width)
		for _, tick := range fig.YTicks {
			py := valueToRow(tick, yr.min, yr.max, dotRows)
			for px := 0; px < width*2; px++ {
				if gridStyle.shouldPlot(px) {
					setBrailleDot(gridCells, px, py)
				}
			}
		}
	}

	useColor := shouldUseColor(w, forceColor)
	axisLabels := makeAxisLabels(fig.YTicks, yr, height)
	indent := strings.Repeat(" ", axisLabelWidth+runewidth.StringWidth(axisSeparator))

	if fig.Title != "" {
		if _, err := fmt.Fprintln(w, indent+centerText(fig.Title, width)); err != nil {
			return err
		}
	}
	if fig.YLabel != "" {
		if _, err := fmt.Fprintln(w, runewidth.FillLeft(fig.YLabel, axisLabelWidth)); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(axisLabels[y], axisLabelWidth))
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, colorIdx := composeCell(seriesCells, x, y)
			color := ""
			if colorIdx >= 0 {
				color = colorPalette[colorIdx%len(colorPalette)].code
			}
			if gridCells != nil {
				if gm := gridCells[y][x]; gm != 0 {
					if mask == 0 {
						color = gridColor
					}
					mask |= gm
				}
			}
			ch := brailleFromMask(mask)
			if useColor && color != "" {
				row.WriteString(color)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	corner := strings.Repeat(" ", axisLabelWidth) + axisCorner + strings.Repeat(axisRule, width)
	if _, err := fmt.Fprintln(w, corner); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, indent+xTickLine(fig.XMin, fig.XMax, width)); err != nil {
		return err
	}
	if fig.XLabel != "" {
		if _, err := fmt.Fprintln(w, indent+centerText(fig.XLabel, width)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, renderLegend(scaled, useColor)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func yRange(fig Figure, series []Series) valueRange {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, s := range series {
		lo, hi := seriesMinMaxSingle(s.Values)
		minVal = math.Min(minVal, lo)
		maxVal = math.Max(maxVal, hi)
	}
	if fig.YMax > fig.YMin {
		minVal = math.Min(minVal, fig.YMin)
		maxVal = math.Max(maxVal, fig.YMax)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		minVal--
		maxVal++
	}
	return valueRange{min: minVal, max: maxVal}
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := axisLabelWidth + runewidth.StringWidth(axisSeparator)
	plotWidth := totalWidth - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if termenv.EnvNoColor() {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeAxisLabels(ticks []float64, yr valueRange, height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	if len(ticks) == 0 {
		ticks = []float64{yr.max, (yr.min + yr.max) / 2, yr.min}
	}
	for _, tick := range ticks {
		if tick < yr.min || tick > yr.max {
			continue
		}
		row := valueToRow(tick, yr.min, yr.max, height*4) / 4
		labels[row] = formatTick(tick, axisLabelWidth)
	}
	return labels
}

func formatTick(v float64, width int) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if runewidth.StringWidth(s) > width {
		s = strconv.FormatFloat(v, 'g', 3, 64)
	}
	return runewidth.Truncate(s, width, "")
}

func xTickLine(xMin, xMax float64, width int) string {
	left := formatTick(xMin, width)
	right := formatTick(xMax, width)
	mid := formatTick((xMin+xMax)/2, width)
	line := []rune(strings.Repeat(" ", width))
	put := func(s string, start int) {
		r := []rune(s)
		if start < 0 {
			start = 0
		}
		if start+len(r) > len(line) {
			start = len(line) - len(r)
		}
		if start < 0 {
			return
		}
		copy(line[start:], r)
	}
	put(left, 0)
	if width >= len(left)+len(mid)+len(right)+4 {
		put(mid, width/2-len([]rune(mid))/2)
	}
	put(right, width-len([]rune(right)))
	return string(line)
}

func centerText(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return strings.Repeat(" ", (width-sw)/2) + s
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, cells := range seriesCells {
		if y < 0 || y >= len(cells) {
			continue
		}
		if x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := int(float64(i) * float64(len(values)) / float64(width))
			end := int(float64(i+1) * float64(len(values)) / float64(width))
			if end <= start {
				end = start + 1
			}
			if end > len(values) {
				end = len(values)
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if width == 1 {
		out[0] = values[0]
		return out
	}
	if len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func seriesMinMaxSingle(values []float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == math.Inf(1) {
		minVal = 0
	}
	if maxVal == math.Inf(-1) {
		maxVal = 0
	}
	return minVal, maxVal
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%s %s", lineStyles[i%len(lineStyles)].sample, s.Name)
		if useColor {
			color := colorPalette[i%len(colorPalette)].code
			label = color + label + colorReset
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(cells) {
		return
	}
	if cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
