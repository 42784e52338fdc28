package tui

import (
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuitrate/internal/labels"
	"github.com/verte-zerg/tuitrate/internal/model"
	"github.com/verte-zerg/tuitrate/internal/titration"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := model.Config{
		AcidConcentration: 0.1,
		AcidVolume:        50,
		BaseConcentration: 0.1,
	}
	m, err := NewModel(cfg, labels.NewHandle(labels.Source{Lang: "en"}))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelComputesInitialSweep(t *testing.T) {
	m := newTestModel(t)
	if len(m.result) != titration.DefaultSampleCount {
		t.Fatalf("expected %d samples, got %d", titration.DefaultSampleCount, len(m.result))
	}
	if math.Abs(m.summary.InitialPH-1) > 1e-12 {
		t.Fatalf("expected initial pH 1, got %v", m.summary.InitialPH)
	}
}

func TestNewModelMissingLabels(t *testing.T) {
	_, err := NewModel(model.Config{}, labels.NewHandle(labels.Source{Path: t.TempDir() + "/missing.toml"}))
	if !errors.Is(err, labels.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound for missing labels, got %v", err)
	}
}

func TestNewModelClampsStartValues(t *testing.T) {
	m, err := NewModel(model.Config{AcidConcentration: 0, AcidVolume: 5000, BaseConcentration: 0.5}, labels.NewHandle(labels.Source{Lang: "en"}))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	p := m.params()
	if p.AcidConcentration != 0.01 || p.AcidVolume != 1000 || p.BaseConcentration != 0.5 {
		t.Fatalf("unexpected clamped params: %+v", p)
	}
}

func TestStepKeysNudgeFocusedField(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("+"))
	m.Update(runes("+"))
	if got := m.params().AcidConcentration; got != 0.12 {
		t.Fatalf("expected 0.12, got %v", got)
	}
	if got := m.fields[0].input.Value(); got != "0.12" {
		t.Fatalf("expected input 0.12, got %q", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("-"))
	if got := m.params().AcidVolume; got != 49 {
		t.Fatalf("expected 49, got %v", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	if got := m.params().AcidVolume; got != 59 {
		t.Fatalf("expected 59, got %v", got)
	}
	last := m.result[len(m.result)-1].BaseVolume
	if last != 118 {
		t.Fatalf("expected sweep to end at 118 mL, got %v", last)
	}
}

func TestTypingUpdatesLiveAndRejectsOutOfRange(t *testing.T) {
	m := newTestModel(t)
	m.fields[0].input.SetValue("")
	m.Update(runes("0"))
	if m.fields[0].err == "" {
		t.Fatalf("expected range error for 0")
	}
	if got := m.params().AcidConcentration; got != 0.1 {
		t.Fatalf("expected previous value to stay, got %v", got)
	}
	m.Update(runes(".5"))
	if m.fields[0].err != "" {
		t.Fatalf("unexpected error: %s", m.fields[0].err)
	}
	if got := m.params().AcidConcentration; got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if math.Abs(m.summary.EquivalenceVolume-250) > 1e-9 {
		t.Fatalf("expected equivalence at 250 mL, got %v", m.summary.EquivalenceVolume)
	}
}

func TestCommitClampsAndRevertRestores(t *testing.T) {
	m := newTestModel(t)
	m.fields[0].input.SetValue("25")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.fields[0].input.Value(); got != "10.00" {
		t.Fatalf("expected clamp to 10.00, got %q", got)
	}
	if got := m.params().AcidConcentration; got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}

	m.fields[0].input.SetValue("abc")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.fields[0].input.Value(); got != "10.00" {
		t.Fatalf("expected revert to 10.00, got %q", got)
	}

	m.fields[0].input.SetValue("abc")
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.fields[0].input.Value(); got != "10.00" {
		t.Fatalf("expected invalid text to be replaced on commit, got %q", got)
	}
	if m.focus != len(m.fields)-1 {
		t.Fatalf("expected focus to wrap to last field, got %d", m.focus)
	}
}

func TestCommittedValueMatchesDisplayedText(t *testing.T) {
	m := newTestModel(t)
	m.fields[0].input.SetValue("")
	m.Update(runes("0.125"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	shown, err := parseValue(m.fields[0].input.Value())
	if err != nil {
		t.Fatalf("parse %q: %v", m.fields[0].input.Value(), err)
	}
	if m.fields[0].value != shown {
		t.Fatalf("value %v differs from displayed %q", m.fields[0].value, m.fields[0].input.Value())
	}
	if want := -math.Log10(shown); math.Abs(m.summary.InitialPH-want) > 1e-12 {
		t.Fatalf("expected initial pH %v for displayed value, got %v", want, m.summary.InitialPH)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.fields[1].input.SetValue("")
	m.Update(runes("50.25"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	shown, err = parseValue(m.fields[1].input.Value())
	if err != nil {
		t.Fatalf("parse %q: %v", m.fields[1].input.Value(), err)
	}
	if m.fields[1].value != shown {
		t.Fatalf("value %v differs from displayed %q", m.fields[1].value, m.fields[1].input.Value())
	}
	if last := m.result[len(m.result)-1].BaseVolume; last != 2*shown {
		t.Fatalf("expected sweep to end at %v mL, got %v", 2*shown, last)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestViewShowsPanelAndChart(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	out := m.View()
	l := m.labels
	for _, want := range []string{l.Title, l.Panel, l.AcidConcentration, l.AcidVolume, l.BaseConcentration, l.ChartTitle, l.Summary, "Quit: q"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
	if got := len(strings.Split(out, "\n")); got != 40 {
		t.Fatalf("expected 40 lines, got %d", got)
	}
}

func TestViewStacksOnNarrowTerminal(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 50})
	out := m.View()
	if !strings.Contains(out, m.labels.Panel) || !strings.Contains(out, m.labels.ChartTitle) {
		t.Fatalf("expected panel and chart in stacked view:\n%s", out)
	}
}

func TestRecomputeReportsInvalidSampleCount(t *testing.T) {
	m := newTestModel(t)
	m.cfg.Samples = 1
	m.recompute()
	if m.errMsg == "" || m.result != nil {
		t.Fatalf("expected error and no result, got %q / %d samples", m.errMsg, len(m.result))
	}
}
