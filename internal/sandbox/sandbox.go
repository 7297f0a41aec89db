// Package sandbox maps the learner's pretend home directory ("~") onto a
// real directory and tracks the shell's working directory inside it.
package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrOutside is returned when a path would leave the sandbox root.
	ErrOutside = errors.New("path is outside the sandbox")

	// ErrNotDir is returned when cd targets something that is not a directory.
	ErrNotDir = errors.New("not a directory")
)

// Sandbox resolves semantic paths ("~/my-house/my-room") to real ones.
type Sandbox struct {
	root string
	cwd  string
}

// New creates a Sandbox rooted at root with the working directory at "~".
func New(root string) (*Sandbox, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving sandbox root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("creating sandbox root: %w", err)
	}
	return &Sandbox{root: abs, cwd: abs}, nil
}

func (s *Sandbox) Root() string { return s.root }

// Cwd returns the real working directory.
func (s *Sandbox) Cwd() string { return s.cwd }

// Display returns the working directory in "~/..." form.
func (s *Sandbox) Display() string {
	return s.Semantic(s.cwd)
}

// Semantic converts a real path under the root into "~/..." form.
func (s *Sandbox) Semantic(real string) string {
	rel, err := filepath.Rel(s.root, real)
	if err != nil || rel == "." {
		return "~"
	}
	return "~/" + filepath.ToSlash(rel)
}

// Resolve turns a semantic, absolute-in-sandbox or relative path into a real
// path. Relative paths are taken from the working directory.
func (s *Sandbox) Resolve(p string) (string, error) {
	var real string
	switch {
	case p == "" || p == "~":
		real = s.root
	case strings.HasPrefix(p, "~/"):
		real = filepath.Join(s.root, filepath.FromSlash(p[2:]))
	case filepath.IsAbs(p):
		real = filepath.Clean(p)
	default:
		real = filepath.Join(s.cwd, filepath.FromSlash(p))
	}

	if real != s.root && !strings.HasPrefix(real, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", p, ErrOutside)
	}
	return real, nil
}

// Chdir moves the working directory, the way the shell's cd does.
func (s *Sandbox) Chdir(p string) error {
	real, err := s.Resolve(p)
	if err != nil {
		return err
	}
	info, err := os.Stat(real)
	if err != nil {
		return fmt.Errorf("cd: %s: %w", p, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cd: %s: %w", p, ErrNotDir)
	}
	s.cwd = real
	return nil
}

// At reports whether the working directory is the given semantic path.
// An empty path always matches.
func (s *Sandbox) At(p string) bool {
	if p == "" {
		return true
	}
	real, err := s.Resolve(p)
	if err != nil {
		return false
	}
	return real == s.cwd
}

// Seed creates directories and files (semantic path -> content) that do not
// exist yet. Existing files are left untouched so the learner's edits
// survive a restart.
func (s *Sandbox) Seed(dirs []string, files map[string]string) error {
	for _, d := range dirs {
		real, err := s.Resolve(d)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(real, 0755); err != nil {
			return fmt.Errorf("seeding %s: %w", d, err)
		}
	}
	for p, content := range files {
		real, err := s.Resolve(p)
		if err != nil {
			return err
		}
		if _, err := os.Stat(real); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(real), 0755); err != nil {
			return fmt.Errorf("seeding %s: %w", p, err)
		}
		if err := os.WriteFile(real, []byte(content), 0644); err != nil {
			return fmt.Errorf("seeding %s: %w", p, err)
		}
	}
	return nil
}
