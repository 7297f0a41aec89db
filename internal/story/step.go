package story

import (
	"strings"

	"github.com/druarnfield/linuxstory/internal/gate"
)

// XP is the learner's accumulated progress. Steps carry it from one to the
// next without looking inside.
type XP any

// Definition is the fixed configuration of one step.
type Definition struct {
	Challenge int
	Story     []string
	StartDir  string
	EndDir    string
	Commands  []string
	Hints     string
	LastStep  bool

	// Editor is set for steps whose accepted command opens the editor.
	Editor *EditorGoal
}

// EditorGoal describes what the learner must produce in the editor.
type EditorGoal struct {
	// Text is the expected buffer content.
	Text string

	// File, when set, is the sandbox path the buffer must be saved to.
	File string
}

// Successor is what Next hands control to. Step is nil when the story has
// no more challenges.
type Successor struct {
	Step          Step
	NextChallenge bool
}

// Step is one pedagogical unit.
type Step interface {
	Definition() Definition
	XP() XP

	// Evaluate checks a typed line against the step's accepted commands.
	Evaluate(line string) gate.Verdict

	// ContentDone reports whether an editor buffer completes the step.
	ContentDone(buffer string) bool

	// Next builds the following step. It is called once per step.
	Next() (Successor, error)

	// Displayed and MarkDisplayed track whether the story text was shown.
	Displayed() bool
	MarkDisplayed()
}

// ScriptedStep is a step that is satisfied by typing one of its commands.
type ScriptedStep struct {
	def       Definition
	index     int
	gate      *gate.Gate
	reg       *Registry
	xp        XP
	displayed bool
}

func (s *ScriptedStep) Definition() Definition { return s.def }
func (s *ScriptedStep) XP() XP                 { return s.xp }
func (s *ScriptedStep) Displayed() bool        { return s.displayed }
func (s *ScriptedStep) MarkDisplayed()         { s.displayed = true }

func (s *ScriptedStep) Evaluate(line string) gate.Verdict {
	return s.gate.Check(line, s.def.Commands)
}

// ContentDone is always false: scripted steps never open the editor.
func (s *ScriptedStep) ContentDone(string) bool { return false }

// Next returns the sibling step, or the next challenge's entry step when this
// is the challenge's last step.
func (s *ScriptedStep) Next() (Successor, error) {
	if s.def.LastStep {
		n, ok := s.reg.NextChallenge(s.def.Challenge)
		if !ok {
			return Successor{NextChallenge: true}, nil
		}
		st, err := s.reg.Entry(n, s.xp)
		if err != nil {
			return Successor{}, err
		}
		return Successor{Step: st, NextChallenge: true}, nil
	}

	st, err := s.reg.Step(s.def.Challenge, s.index+1, s.xp)
	if err != nil {
		return Successor{}, err
	}
	return Successor{Step: st}, nil
}

// EditorStep is completed inside the editor: its command opens the editor
// and the buffer must end up holding the goal text.
type EditorStep struct {
	ScriptedStep
}

func (s *EditorStep) ContentDone(buffer string) bool {
	return normalizeBuffer(buffer) == normalizeBuffer(s.def.Editor.Text)
}

func normalizeBuffer(s string) string {
	return strings.TrimRight(s, "\n")
}
