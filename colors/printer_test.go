package colors

import "testing"

func TestSetEnabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	if got := GREEN.Sprint("ok"); got != "ok" {
		t.Errorf("expected plain text when disabled, got %q", got)
	}
}

func TestConvertANSIToHTML(t *testing.T) {
	got := ConvertANSIToHTML(RED.Sprint("<x>"))
	want := `<span style="color: #ef4444">&lt;x&gt;</span>`
	if got != want {
		t.Errorf("ConvertANSIToHTML() = %q, want %q", got, want)
	}
}
