package components

import (
	"strings"
	"testing"
)

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()

	for _, code := range []string{"lb", "yb", "rb", "gb", "wb"} {
		if _, ok := s.Markup[code]; !ok {
			t.Errorf("markup style %q missing", code)
		}
	}
}

func TestRenderMarkup_KeepsText(t *testing.T) {
	s := DefaultStyles()
	out := RenderMarkup(s, "Let's {{lb:look}} in your {{lb:shelves}} using {{lb:ls}}.")

	for _, word := range []string{"look", "shelves", "ls"} {
		if !strings.Contains(out, word) {
			t.Errorf("rendered text missing %q: %q", word, out)
		}
	}
	if strings.Contains(out, "{{") {
		t.Errorf("markup left in output: %q", out)
	}
}

func TestRenderMarkup_UnknownCode(t *testing.T) {
	s := DefaultStyles()
	if got := RenderMarkup(s, "{{zz:plain}}"); got != "plain" {
		t.Errorf("RenderMarkup = %q, want %q", got, "plain")
	}
}

func TestStripMarkup(t *testing.T) {
	got := StripMarkup("{{rb:Type}} {{yb:ls shelves/}} {{rb:to look at your books.}}")
	want := "Type ls shelves/ to look at your books."
	if got != want {
		t.Errorf("StripMarkup = %q, want %q", got, want)
	}
}

func TestRenderBanner(t *testing.T) {
	s := DefaultStyles()
	out := RenderBanner(s)
	if out == "" {
		t.Error("RenderBanner returned empty string")
	}
	if len(out) < 50 {
		t.Error("RenderBanner output seems too short")
	}
}

func TestNewSpinner(t *testing.T) {
	s := DefaultStyles()
	sp := NewSpinner(s)
	// Spinner should produce a non-empty frame.
	if sp.View() == "" {
		t.Error("spinner View() is empty")
	}
}
