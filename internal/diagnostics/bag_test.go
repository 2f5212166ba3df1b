package diagnostics

import (
	"strings"
	"sync"
	"testing"

	"github.com/epoll-reactor/weak-compiler-sub000/colors"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
)

func TestDiagnosticBagCounts(t *testing.T) {
	bag := NewDiagnosticBag("test.wk", "")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				bag.Add(NewError("boom"))
			} else {
				bag.Add(NewWarning("hmm"))
			}
		}(i)
	}
	wg.Wait()

	if bag.ErrorCount() != 4 {
		t.Errorf("expected 4 errors, got %d", bag.ErrorCount())
	}
	if bag.WarningCount() != 4 {
		t.Errorf("expected 4 warnings, got %d", bag.WarningCount())
	}
	if !bag.HasErrors() {
		t.Error("HasErrors should be true")
	}
	if len(bag.Diagnostics()) != 8 {
		t.Errorf("expected 8 diagnostics, got %d", len(bag.Diagnostics()))
	}
}

func TestEmitRendersSourceLine(t *testing.T) {
	colors.SetEnabled(false)
	defer colors.SetEnabled(true)

	content := "int main() {\n  return x\n}\n"
	bag := NewDiagnosticBag("main.wk", content)
	loc := source.NewLocation("main.wk",
		source.Position{Line: 2, Column: 10, Index: 22},
		source.Position{Line: 2, Column: 11, Index: 23})
	bag.Add(NewError("expected ';'").
		WithCode(ErrExpectedToken).
		WithPrimaryLabel(loc, "missing semicolon").
		WithHelp("add ';' at the end of the statement"))

	out := bag.EmitAllToString()

	for _, want := range []string{
		"error[P0002]: expected ';'",
		"--> main.wk:2:10",
		"2 |   return x",
		"^ missing semicolon",
		"help: add ';' at the end of the statement",
		"Compilation failed with 1 error(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSecondaryLabelRequiresPrimary(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic when adding a secondary label first")
		}
	}()
	NewError("x").WithSecondaryLabel(nil, "context")
}

func TestWithPrimaryLabelKeepsFirst(t *testing.T) {
	first := source.NewLocation("a", source.Position{Line: 1, Column: 1}, source.Position{Line: 1, Column: 2})
	second := source.NewLocation("a", source.Position{Line: 3, Column: 1}, source.Position{Line: 3, Column: 2})

	d := NewError("x").WithPrimaryLabel(first, "one").WithPrimaryLabel(second, "two")
	if len(d.Labels) != 1 || d.Primary().Message != "one" {
		t.Errorf("unexpected labels %+v", d.Labels)
	}
}
