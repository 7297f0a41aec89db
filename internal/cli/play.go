package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/druarnfield/linuxstory/internal/config"
	"github.com/druarnfield/linuxstory/internal/editor"
	"github.com/druarnfield/linuxstory/internal/exec"
	"github.com/druarnfield/linuxstory/internal/logging"
	"github.com/druarnfield/linuxstory/internal/sandbox"
	"github.com/druarnfield/linuxstory/internal/story"
	"github.com/druarnfield/linuxstory/internal/tui/shell"
	"github.com/spf13/cobra"
)

var flagChallenge int

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start the tutorial shell",
		Long:  "Start the tutorial shell at the configured challenge, or the one given with --challenge.",
		RunE:  runPlay,
	}
	cmd.Flags().IntVar(&flagChallenge, "challenge", 0, "Challenge number to start at")
	return cmd
}

func loadConfig() (*config.Config, error) {
	cfgPath := config.ConfigFilePath()
	cfg, err := config.LoadFromFile(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		return config.Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := checkPrograms(cfg); err != nil {
		return err
	}

	logger, err := logging.Setup(config.LogFilePath(), cfg.Log.Level, flagVerbose)
	if err != nil {
		logger = slog.New(logging.NopHandler{})
	}

	reg, err := story.DefaultRegistry()
	if err != nil {
		return fmt.Errorf("loading challenges: %w", err)
	}

	sb, err := sandbox.New(cfg.SandboxRoot())
	if err != nil {
		return err
	}
	if err := reg.Seed(sb); err != nil {
		return err
	}

	start, err := startChallenge(reg, cfg)
	if err != nil {
		return err
	}

	runner := story.NewRunner(logger, reg, sb, cfg.Shell.HintAfter)
	runner.SetCallback(func(t story.Transition) {
		if t.NextChallenge && t.To != nil {
			logger.Info("next challenge", slog.Int("challenge", t.To.Definition().Challenge))
		}
	})
	if err := runner.Begin(start, nil); err != nil {
		return err
	}

	logger.Info("linuxstory started",
		slog.Int("challenge", start),
		slog.String("sandbox", sb.Root()),
	)

	m := shell.New(shell.Options{
		Runner:        runner,
		Sandbox:       sb,
		Exec:          &exec.SandboxRunner{Allowed: cfg.Shell.Commands},
		Sessions:      sessionFactory(cfg, logger),
		Logger:        logger,
		EditorCommand: cfg.Editor.Command,
		SettleGrace:   cfg.Editor.SettleGrace.Duration,
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running shell: %w", err)
	}
	return nil
}

// checkPrograms reports configured programs that cannot be found.
func checkPrograms(cfg *config.Config) error {
	var missing []string
	for _, name := range append([]string{cfg.Editor.Binary}, cfg.Shell.Commands...) {
		if !exec.CommandExists(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("not found on PATH: %s (check editor.binary and shell.commands in %s)",
			strings.Join(missing, ", "), config.ConfigFilePath())
	}
	return nil
}

func startChallenge(reg *story.Registry, cfg *config.Config) (int, error) {
	n := flagChallenge
	if n == 0 {
		n = cfg.Story.StartChallenge
	}
	if n == 0 {
		first, ok := reg.First()
		if !ok {
			return 0, errors.New("no challenges available")
		}
		return first, nil
	}
	if reg.Get(n) == nil {
		return 0, fmt.Errorf("challenge %d not found", n)
	}
	return n, nil
}

func sessionFactory(cfg *config.Config, logger *slog.Logger) shell.SessionFactory {
	return func(check editor.ContentCheck, diagnose func(string)) (*editor.Session, error) {
		return editor.NewSession(editor.SessionOptions{
			Binary:          cfg.Editor.Binary,
			EventDir:        cfg.EventDirectory(),
			Check:           check,
			LivenessTimeout: cfg.Editor.LivenessTimeout.Duration,
			IdleBackoff:     cfg.Editor.IdleBackoff.Duration,
			Logger:          logger,
			Diagnose:        diagnose,
		})
	}
}
