// Package gate decides what a learner's typed line means for the active step.
package gate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/druarnfield/linuxstory/internal/exec"
)

// Verdict is the outcome of checking one input line.
type Verdict int

const (
	Ignore      Verdict = iota // Blank line
	Accept                     // Exactly one of the step's commands
	Reject                     // Allowed command, wrong arguments
	Passthrough                // Command not on the terminal's allow-list
)

func (v Verdict) String() string {
	switch v {
	case Ignore:
		return "ignore"
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	case Passthrough:
		return "passthrough"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// Gate filters input against a terminal's allow-list of command names.
type Gate struct {
	terminal []string
}

// New creates a Gate allowing the given command names.
func New(terminalCommands []string) *Gate {
	return &Gate{terminal: slices.Clone(terminalCommands)}
}

// Allowed reports whether name is on the allow-list.
func (g *Gate) Allowed(name string) bool {
	return slices.Contains(g.terminal, name)
}

// Check compares line with the accepted command strings. Matching is exact
// and case-sensitive once surrounding whitespace is trimmed.
func (g *Gate) Check(line string, commands []string) Verdict {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Ignore
	}

	name, _ := exec.Split(trimmed)
	if !g.Allowed(name) {
		return Passthrough
	}

	if slices.Contains(commands, trimmed) {
		return Accept
	}
	return Reject
}
