package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/druarnfield/linuxstory/internal/config"
	"github.com/druarnfield/linuxstory/internal/story"
)

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd("1.2.3")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "linuxstory 1.2.3" {
		t.Errorf("got %q", got)
	}
}

func TestChallengesCmd(t *testing.T) {
	cmd := newRootCmd("dev")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"challenges"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"The bookshelf", "The shopping list", "nano"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestStartChallenge(t *testing.T) {
	reg, err := story.DefaultRegistry()
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Defaults()

	t.Cleanup(func() { flagChallenge = 0 })

	n, err := startChallenge(reg, cfg)
	if err != nil || n != 3 {
		t.Errorf("default: got %d, %v; want 3", n, err)
	}

	cfg.Story.StartChallenge = 4
	n, err = startChallenge(reg, cfg)
	if err != nil || n != 4 {
		t.Errorf("config: got %d, %v; want 4", n, err)
	}

	flagChallenge = 3
	n, err = startChallenge(reg, cfg)
	if err != nil || n != 3 {
		t.Errorf("flag: got %d, %v; want 3", n, err)
	}

	flagChallenge = 99
	if _, err := startChallenge(reg, cfg); err == nil {
		t.Error("expected error for unknown challenge")
	}
}

func TestCheckPrograms(t *testing.T) {
	cfg := config.Defaults()
	cfg.Editor.Binary = "ls"
	cfg.Shell.Commands = []string{"ls", "echo"}

	if err := checkPrograms(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Editor.Binary = "nano-missing-12345"
	cfg.Shell.Commands = append(cfg.Shell.Commands, "nonexistent_command_12345")
	err := checkPrograms(cfg)
	if err == nil {
		t.Fatal("expected error for missing programs")
	}
	for _, want := range []string{"nano-missing-12345", "nonexistent_command_12345"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should name %s", err, want)
		}
	}
	if strings.Contains(err.Error(), "echo") {
		t.Errorf("error %q names a program that exists", err)
	}
}
