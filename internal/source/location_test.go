package source

import "testing"

func TestPositionAdvance(t *testing.T) {
	p := Position{Line: 1, Column: 1}
	p.Advance("int a;\n\tb")

	if p.Line != 2 {
		t.Errorf("expected line 2, got %d", p.Line)
	}
	if p.Column != 6 {
		t.Errorf("expected column 6, got %d", p.Column)
	}
	if p.Index != 9 {
		t.Errorf("expected index 9, got %d", p.Index)
	}
}

func TestLocationText(t *testing.T) {
	content := "int a = 1;"
	loc := NewLocation("t.wk", Position{Line: 1, Column: 5, Index: 4}, Position{Line: 1, Column: 6, Index: 5})

	if got := loc.Text(content); got != "a" {
		t.Errorf("expected %q, got %q", "a", got)
	}
	if got := loc.Short(); got != "t.wk:1:5" {
		t.Errorf("unexpected short form %q", got)
	}
	if !loc.Contains(Position{Line: 1, Column: 5}) {
		t.Error("location should contain its start")
	}
	if loc.Contains(Position{Line: 2, Column: 1}) {
		t.Error("location should not contain a later line")
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("a\r\nb\n")
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Errorf("unexpected lines %q", lines)
	}
}
