// Package tui provides the Bubble Tea titration interface.
package tui

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuitrate/internal/chart"
	"github.com/verte-zerg/tuitrate/internal/labels"
	"github.com/verte-zerg/tuitrate/internal/model"
	"github.com/verte-zerg/tuitrate/internal/titration"
)

const (
	sidebarWidth      = 36
	stackedBelow      = 80
	defaultPlotHeight = 12
	minPlotHeight     = 4
	// Lines the chart prints besides its rows: title, y label, axis, ticks, x label, legend, blank.
	chartChrome = 7
	bigStep     = 10
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	activeCardStyle = cardStyle.
			BorderForeground(lipgloss.Color("#C89A3A"))
	cardTitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	activeLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

type paramField struct {
	name   string
	label  string
	bounds model.Field
	input  textinput.Model
	value  float64
	err    string
}

// Model implements the Bubble Tea parameter panel and chart.
type Model struct {
	cfg    model.Config
	labels labels.Labels

	fields []paramField
	focus  int

	result  titration.Result
	summary titration.Summary
	errMsg  string

	width  int
	height int
}

// NewModel constructs the titration UI. The label handle is resolved here so a
// missing resource fails before the program starts.
func NewModel(cfg model.Config, handle *labels.Handle) (*Model, error) {
	l, err := handle.Get()
	if err != nil {
		return nil, err
	}
	if cfg.Samples == 0 {
		cfg.Samples = titration.DefaultSampleCount
	}
	if cfg.PlotHeight <= 0 {
		cfg.PlotHeight = defaultPlotHeight
	}
	m := &Model{
		cfg:    cfg,
		labels: l,
	}
	m.fields = []paramField{
		newParamField(titration.FieldAcidConcentration, l.AcidConcentration, model.AcidConcentrationField, cfg.AcidConcentration),
		newParamField(titration.FieldAcidVolume, l.AcidVolume, model.AcidVolumeField, cfg.AcidVolume),
		newParamField(titration.FieldBaseConcentration, l.BaseConcentration, model.BaseConcentrationField, cfg.BaseConcentration),
	}
	m.setFocus(0)
	m.recompute()
	return m, nil
}

func newParamField(name, label string, bounds model.Field, value float64) paramField {
	value = bounds.Round(bounds.Clamp(value))
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 12
	input.Cursor.SetMode(cursor.CursorBlink)
	input.SetValue(bounds.Format(value))
	return paramField{
		name:   name,
		label:  label,
		bounds: bounds,
		input:  input,
		value:  value,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "down":
			m.commit()
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			m.commit()
			return m, m.setFocus(m.focus - 1)
		case "enter":
			m.commit()
			return m, nil
		case "esc":
			m.revert()
			return m, nil
		case "+", "=":
			m.nudge(1)
			return m, nil
		case "-":
			m.nudge(-1)
			return m, nil
		case "pgup":
			m.nudge(bigStep)
			return m, nil
		case "pgdown":
			m.nudge(-bigStep)
			return m, nil
		}
		f := &m.fields[m.focus]
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		m.applyLive()
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	title := titleStyle.Render(m.labels.Title)
	footer := headerStyle.Render(truncateLine(helpText, m.width))
	bodyHeight := maxInt(1, m.height-lipgloss.Height(title)-lipgloss.Height(footer))

	var body string
	if m.width < stackedBelow {
		sidebar := m.renderSidebar(minInt(m.width, sidebarWidth))
		chartHeight := maxInt(1, bodyHeight-lipgloss.Height(sidebar))
		body = lipgloss.JoinVertical(lipgloss.Left, sidebar, m.renderChart(m.width, chartHeight))
	} else {
		sidebar := m.renderSidebar(sidebarWidth)
		chartWidth := m.width - sidebarWidth - 2
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", m.renderChart(chartWidth, bodyHeight))
	}
	body = fitLines(body, m.width, bodyHeight)
	return strings.Join([]string{padLine(title, m.width), body, padLine(footer, m.width)}, "\n")
}

const helpText = "Focus: tab/shift+tab  Step: -/+ (pgup/pgdn x10)  Apply: enter  Revert: esc  Quit: q"

func (m *Model) updateLayout() {
	inner := sidebarWidth - 4
	for i := range m.fields {
		promptWidth := lipgloss.Width(m.fields[i].input.Prompt)
		m.fields[i].input.Width = maxInt(6, inner-promptWidth-1)
	}
}

func (m *Model) setFocus(idx int) tea.Cmd {
	count := len(m.fields)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.focus = idx
	var cmd tea.Cmd
	for i := range m.fields {
		if i == m.focus {
			cmd = m.fields[i].input.Focus()
		} else {
			m.fields[i].input.Blur()
		}
	}
	return cmd
}

// applyLive recomputes when the focused input holds a valid in-range number,
// taken at the field precision.
func (m *Model) applyLive() {
	f := &m.fields[m.focus]
	v, err := parseValue(f.input.Value())
	if err != nil {
		f.err = err.Error()
		return
	}
	if !f.bounds.Contains(v) {
		f.err = rangeError(f.bounds)
		return
	}
	f.err = ""
	v = f.bounds.Round(v)
	if v != f.value {
		f.value = v
		m.recompute()
	}
}

// commit clamps the focused input to its bounds, or restores the last valid
// value when the text is not a number.
func (m *Model) commit() {
	f := &m.fields[m.focus]
	v, err := parseValue(f.input.Value())
	if err != nil {
		v = f.value
	}
	v = f.bounds.Round(f.bounds.Clamp(v))
	f.err = ""
	f.input.SetValue(f.bounds.Format(v))
	if v != f.value {
		f.value = v
		m.recompute()
	}
}

func (m *Model) revert() {
	f := &m.fields[m.focus]
	f.err = ""
	f.input.SetValue(f.bounds.Format(f.value))
}

func (m *Model) nudge(steps int) {
	f := &m.fields[m.focus]
	base := f.value
	if v, err := parseValue(f.input.Value()); err == nil {
		base = v
	}
	v := f.bounds.Nudge(base, steps)
	f.err = ""
	f.input.SetValue(f.bounds.Format(v))
	f.input.CursorEnd()
	if v != f.value {
		f.value = v
		m.recompute()
	}
}

func (m *Model) params() titration.Parameters {
	var p titration.Parameters
	for _, f := range m.fields {
		switch f.name {
		case titration.FieldAcidConcentration:
			p.AcidConcentration = f.value
		case titration.FieldAcidVolume:
			p.AcidVolume = f.value
		case titration.FieldBaseConcentration:
			p.BaseConcentration = f.value
		}
	}
	return p
}

func (m *Model) recompute() {
	p := m.params()
	result, err := titration.Compute(p, m.cfg.Samples)
	if err != nil {
		m.result = nil
		m.summary = titration.Summary{}
		m.errMsg = err.Error()
		var perr *titration.ParamError
		if errors.As(err, &perr) {
			for i := range m.fields {
				if m.fields[i].name == perr.Field {
					m.fields[i].err = perr.Reason
				}
			}
		}
		return
	}
	m.errMsg = ""
	m.result = result
	m.summary = titration.Summarize(p, result)
}

func (m *Model) renderSidebar(width int) string {
	inner := maxInt(10, width-4)
	lines := []string{cardValueStyle.Render(m.labels.Panel), ""}
	for i, f := range m.fields {
		label := cardTitleStyle.Render(f.label)
		if i == m.focus {
			label = activeLabelStyle.Render(f.label)
		}
		lines = append(lines, label, f.input.View())
		hint := fmt.Sprintf("%s–%s, step %s", f.bounds.Format(f.bounds.Min), f.bounds.Format(f.bounds.Max), f.bounds.Format(f.bounds.Step))
		if f.err != "" {
			lines = append(lines, errorStyle.Render(truncateLine(f.err, inner)))
		} else {
			lines = append(lines, headerStyle.Render(truncateLine(hint, inner)))
		}
	}
	panel := activeCardStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, panel, m.renderSummary(width))
}

func (m *Model) renderSummary(width int) string {
	if m.errMsg != "" {
		return cardStyle.Width(width - 2).Render(errorStyle.Render(m.errMsg))
	}
	rows := chart.SummaryRows(m.summary, m.labels)
	lines := []string{cardValueStyle.Render(m.labels.Summary)}
	for _, line := range chart.FormatTable(nil, rows, map[int]bool{1: true}) {
		lines = append(lines, cardTitleStyle.Render(line))
	}
	return cardStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderChart(width, height int) string {
	if len(m.result) == 0 {
		return ""
	}
	plotHeight := minInt(m.cfg.PlotHeight, height-chartChrome)
	if plotHeight < minPlotHeight {
		plotHeight = minPlotHeight
	}
	var buf bytes.Buffer
	if err := chart.RenderCurve(&buf, m.result, m.labels, width, plotHeight, true); err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to render chart: %v", err))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("enter a number")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

func rangeError(f model.Field) string {
	return fmt.Sprintf("must be between %s and %s", f.Format(f.Min), f.Format(f.Max))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
