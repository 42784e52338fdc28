package chart

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Point", "pH", "Volume"}
	rows := [][]string{
		{"start", "1.00", "0"},
		{"equivalence", "7.00", "50"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Point         pH Volume" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "start       1.00      0" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "equivalence 7.00     50" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := FormatTable(nil, [][]string{
		{"初始 pH", "1.00"},
		{"final", "12.52"},
	}, map[int]bool{1: true})
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	// "初始 pH" occupies 7 cells.
	if lines[0] != "初始 pH  1.00" {
		t.Fatalf("unexpected wide line: %q", lines[0])
	}
	if lines[1] != "final   12.52" {
		t.Fatalf("unexpected narrow line: %q", lines[1])
	}
}
