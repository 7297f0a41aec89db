package config

import (
	"os"
	"path/filepath"
)

func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "linuxstory")
	}
	return filepath.Join(home, ".config", "linuxstory")
}

func ConfigFilePath() string {
	exe, err := os.Executable()
	if err == nil {
		adjacent := filepath.Join(filepath.Dir(exe), "linuxstory.toml")
		if _, err := os.Stat(adjacent); err == nil {
			return adjacent
		}
	}
	return filepath.Join(ConfigDir(), "linuxstory.toml")
}

func LogFilePath() string {
	return filepath.Join(ConfigDir(), "linuxstory.log")
}

// SandboxDir is where the learner's pretend home directory lives.
func SandboxDir() string {
	return filepath.Join(ConfigDir(), "home")
}

func EventDir() string {
	return filepath.Join(os.TempDir(), "linuxstory-events")
}
