package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
)

// ErrNotPermitted is returned when a command is not on the runner's list.
var ErrNotPermitted = errors.New("command not permitted")

// Result holds the output and exit code of a command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner is an interface for executing the learner's commands inside a
// working directory. Use SandboxRunner for real commands and MockRunner for
// tests.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (Result, error)
}

// SandboxRunner executes a fixed set of real binaries.
type SandboxRunner struct {
	Allowed []string
}

// Run executes the named command when it is allowed.
func (s *SandboxRunner) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	if !slices.Contains(s.Allowed, name) {
		return Result{ExitCode: 127}, fmt.Errorf("%s: %w", name, ErrNotPermitted)
	}
	return Run(ctx, dir, name, args...)
}

// Run executes the named command with the given arguments in dir and returns
// the captured stdout, stderr, and exit code.
func Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, fmt.Errorf("command %q failed: %w", name, err)
	}

	return result, nil
}

// Split breaks a learner's line into a command name and arguments. Only
// whitespace separates words; no quoting or globbing is interpreted.
func Split(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// CommandExists checks whether a command is available on the system PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// MockRunner is a test double that returns pre-configured results for commands.
type MockRunner struct {
	Results map[string]Result
	Calls   []string
	Dirs    []string
}

// Run looks up the command key in the Results map and returns the matching result.
// The key is formed as "name arg1 arg2 ...".
func (m *MockRunner) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	key := name
	if len(args) > 0 {
		key = name + " " + strings.Join(args, " ")
	}
	m.Calls = append(m.Calls, key)
	m.Dirs = append(m.Dirs, dir)

	if result, ok := m.Results[key]; ok {
		if result.ExitCode != 0 {
			return result, fmt.Errorf("command %q exited with code %d", key, result.ExitCode)
		}
		return result, nil
	}

	return Result{}, fmt.Errorf("unexpected command: %q", key)
}
