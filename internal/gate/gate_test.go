package gate

import "testing"

var catTerminal = []string{"ls", "cat", "cd"}

func TestCheck_AcceptsAnyListedForm(t *testing.T) {
	g := New(catTerminal)
	commands := []string{"ls shelves", "ls shelves/"}

	for _, line := range []string{"ls shelves", "ls shelves/", "  ls shelves/\n"} {
		if got := g.Check(line, commands); got != Accept {
			t.Errorf("Check(%q) = %v, want accept", line, got)
		}
	}
}

func TestCheck_ExactMatchOnly(t *testing.T) {
	g := New(catTerminal)
	commands := []string{"cat shelves/comic-book"}

	cases := []string{
		"cat shelves/comic-book ",
		"cat  shelves/comic-book",
		"CAT shelves/comic-book",
		"cat shelves/Comic-book",
		"cat shelves/comic-book; ls",
	}
	for _, line := range cases[1:] {
		if got := g.Check(line, commands); got == Accept {
			t.Errorf("Check(%q) = accept, want no match", line)
		}
	}
	if got := g.Check(cases[0], commands); got != Accept {
		t.Errorf("trailing space should be trimmed, got %v", got)
	}
}

func TestCheck_RejectsWrongArguments(t *testing.T) {
	g := New(catTerminal)
	if got := g.Check("ls", []string{"ls shelves"}); got != Reject {
		t.Errorf("Check = %v, want reject", got)
	}
}

func TestCheck_PassthroughForUnlisted(t *testing.T) {
	g := New(catTerminal)
	if got := g.Check("nano note", []string{"nano note"}); got != Passthrough {
		t.Errorf("Check = %v, want passthrough", got)
	}
}

func TestCheck_IgnoresBlank(t *testing.T) {
	g := New(catTerminal)
	if got := g.Check("   ", []string{"ls"}); got != Ignore {
		t.Errorf("Check = %v, want ignore", got)
	}
}

func TestNew_CopiesAllowList(t *testing.T) {
	cmds := []string{"ls"}
	g := New(cmds)
	cmds[0] = "rm"

	if !g.Allowed("ls") {
		t.Error("allow-list should not alias caller slice")
	}
}
