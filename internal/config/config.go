package config

import (
	"fmt"
	"os"
	"time"

	"github.com/druarnfield/linuxstory/internal/logging"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	Sandbox SandboxConfig `toml:"sandbox"`
	Shell   ShellConfig   `toml:"shell"`
	Story   StoryConfig   `toml:"story"`
	Log     LogConfig     `toml:"log"`
}

// EditorConfig controls how the external editor is launched and watched.
type EditorConfig struct {
	Binary string `toml:"binary"`

	// Command is the name the learner types to open the editor. It can
	// differ from Binary when Binary is an instrumented wrapper.
	Command string `toml:"command"`

	// EventDir holds one event file per editor session. Empty means
	// EventDir() under the config directory.
	EventDir string `toml:"event_dir"`

	LivenessTimeout Duration `toml:"liveness_timeout"`
	IdleBackoff     Duration `toml:"idle_backoff"`
	SettleGrace     Duration `toml:"settle_grace"`
}

type SandboxConfig struct {
	Root string `toml:"root"`
}

type ShellConfig struct {
	// HintAfter is the number of failed attempts before the hint is shown.
	HintAfter int `toml:"hint_after"`

	// Commands lists the binaries the shell may execute on the learner's
	// behalf. Anything else reports "command not found".
	Commands []string `toml:"commands"`
}

type StoryConfig struct {
	StartChallenge int `toml:"start_challenge"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration that reads from TOML strings like "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Defaults() *Config {
	return &Config{
		Editor: EditorConfig{
			Binary:          "nano",
			Command:         "nano",
			LivenessTimeout: Duration{30 * time.Minute},
			IdleBackoff:     Duration{time.Second},
			SettleGrace:     Duration{500 * time.Millisecond},
		},
		Shell: ShellConfig{
			HintAfter: 1,
			Commands:  []string{"ls", "cat", "mv", "echo", "mkdir"},
		},
		Log: LogConfig{Level: "info"},
	}
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the shell cannot run with.
func (c *Config) Validate() error {
	if c.Editor.Binary == "" {
		return fmt.Errorf("editor.binary must not be empty")
	}
	if c.Editor.Command == "" {
		return fmt.Errorf("editor.command must not be empty")
	}
	if c.Editor.LivenessTimeout.Duration <= 0 {
		return fmt.Errorf("editor.liveness_timeout must be positive")
	}
	if c.Editor.IdleBackoff.Duration <= 0 {
		return fmt.Errorf("editor.idle_backoff must be positive")
	}
	if c.Shell.HintAfter < 0 {
		return fmt.Errorf("shell.hint_after must not be negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// SandboxRoot returns the configured sandbox root, falling back to
// SandboxDir().
func (c *Config) SandboxRoot() string {
	if c.Sandbox.Root != "" {
		return c.Sandbox.Root
	}
	return SandboxDir()
}

// EventDirectory returns the configured event directory, falling back to
// EventDir().
func (c *Config) EventDirectory() string {
	if c.Editor.EventDir != "" {
		return c.Editor.EventDir
	}
	return EventDir()
}
