package story

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/druarnfield/linuxstory/internal/gate"
)

var (
	// ErrPreconditionMismatch is returned by Verify when the learner is not
	// in the step's end directory. The step stays active.
	ErrPreconditionMismatch = errors.New("not in the expected directory")

	// ErrFinished is returned once the last challenge is complete.
	ErrFinished = errors.New("story finished")
)

// Places is the sandbox as the runner sees it.
type Places interface {
	At(p string) bool
	Resolve(p string) (string, error)
	Chdir(p string) error
}

// Evaluation is what Submit decided about a line.
type Evaluation struct {
	Verdict gate.Verdict

	// LaunchEditor is set when the accepted command opens the editor; the
	// step then waits in PhaseEditing for FinishEditing.
	LaunchEditor bool

	// Hint is non-empty when the learner has failed often enough to see it.
	Hint string
}

// Transition describes an Advance.
type Transition struct {
	From          Step
	To            Step
	NextChallenge bool
	Finished      bool
}

// TransitionCallback is invoked after every Advance.
type TransitionCallback func(t Transition)

// Runner sequences steps within a challenge and hands over to the next
// challenge when the last step completes.
type Runner struct {
	logger    *slog.Logger
	reg       *Registry
	places    Places
	hintAfter int
	callback  TransitionCallback

	step     Step
	life     *Lifecycle
	failures int
	finished bool
}

// NewRunner creates a Runner. hintAfter is the number of failed attempts
// before the step's hint is shown.
func NewRunner(logger *slog.Logger, reg *Registry, places Places, hintAfter int) *Runner {
	return &Runner{
		logger:    logger,
		reg:       reg,
		places:    places,
		hintAfter: hintAfter,
	}
}

// SetCallback registers a callback invoked after each Advance. Pass nil to
// clear.
func (r *Runner) SetCallback(cb TransitionCallback) {
	r.callback = cb
}

// Begin enters the first step of challenge n.
func (r *Runner) Begin(n int, xp XP) error {
	st, err := r.reg.Entry(n, xp)
	if err != nil {
		return err
	}
	return r.enter(st)
}

func (r *Runner) enter(st Step) error {
	life, err := NewLifecycle()
	if err != nil {
		return err
	}
	if r.life != nil {
		r.life.Stop()
	}
	r.step = st
	r.life = life
	r.failures = 0

	def := st.Definition()
	if def.StartDir != "" {
		if err := r.places.Chdir(def.StartDir); err != nil {
			return fmt.Errorf("entering challenge %d: %w", def.Challenge, err)
		}
	}
	r.logger.Info("step entered",
		slog.Int("challenge", def.Challenge),
		slog.String("start_dir", def.StartDir),
	)
	return nil
}

// Current returns the active step, or nil before Begin and after the story
// has finished.
func (r *Runner) Current() Step {
	if r.finished {
		return nil
	}
	return r.step
}

// Phase returns the active step's phase.
func (r *Runner) Phase() Phase {
	if r.life == nil {
		return ""
	}
	return r.life.Phase()
}

// Finished reports whether every challenge has been completed.
func (r *Runner) Finished() bool {
	return r.finished
}

// Submit evaluates a typed line against the active step.
func (r *Runner) Submit(line string) (Evaluation, error) {
	if r.finished {
		return Evaluation{}, ErrFinished
	}
	if r.step == nil {
		return Evaluation{}, fmt.Errorf("no active step")
	}

	v := r.step.Evaluate(line)
	ev := Evaluation{Verdict: v}
	if v == gate.Ignore {
		return ev, nil
	}

	if err := r.life.Send(EventSubmit); err != nil {
		return ev, err
	}

	switch v {
	case gate.Accept:
		if r.step.Definition().Editor != nil {
			ev.LaunchEditor = true
			return ev, r.life.Send(EventEdit)
		}
		return ev, r.life.Send(EventMatch)
	case gate.Reject:
		ev.Hint = r.fail()
	}
	return ev, r.life.Send(EventMiss)
}

// FinishEditing evaluates the editor's final buffer and saved filename for
// a step in PhaseEditing. It reports whether the step is now satisfied.
func (r *Runner) FinishEditing(content, filename string) (bool, string, error) {
	if r.Phase() != PhaseEditing {
		return false, "", fmt.Errorf("%w: finish editing in %s", ErrBadTransition, r.Phase())
	}

	ok := r.step.ContentDone(content)
	if goal := r.step.Definition().Editor; ok && goal != nil && goal.File != "" {
		ok = r.savedTo(filename, goal.File)
	}

	if ok {
		return true, "", r.life.Send(EventMatch)
	}
	hint := r.fail()
	return false, hint, r.life.Send(EventMiss)
}

// AbortEditing returns a step in PhaseEditing to PhaseIntroduced when the
// editor could not be started. It is not counted as a failed attempt.
func (r *Runner) AbortEditing() error {
	if r.Phase() != PhaseEditing {
		return fmt.Errorf("%w: abort editing in %s", ErrBadTransition, r.Phase())
	}
	r.logger.Warn("editor launch aborted", slog.Int("challenge", r.step.Definition().Challenge))
	return r.life.Send(EventMiss)
}

func (r *Runner) savedTo(filename, want string) bool {
	if filename == "" {
		return false
	}
	got, err := r.places.Resolve(filename)
	if err != nil {
		return false
	}
	wantPath, err := r.places.Resolve(want)
	if err != nil {
		return false
	}
	return got == wantPath
}

func (r *Runner) fail() string {
	r.failures++
	hints := r.step.Definition().Hints
	if hints != "" && r.failures >= r.hintAfter {
		return hints
	}
	return ""
}

// Verify checks the step's end directory after a satisfied command. On
// mismatch the step returns to PhaseIntroduced and ErrPreconditionMismatch
// is returned.
func (r *Runner) Verify() error {
	def := r.step.Definition()
	if r.places.At(def.EndDir) {
		return r.life.Send(EventVerified)
	}
	if err := r.life.Send(EventMismatch); err != nil {
		return err
	}
	r.logger.Info("end directory not reached",
		slog.Int("challenge", def.Challenge),
		slog.String("end_dir", def.EndDir),
	)
	return fmt.Errorf("%w: %s", ErrPreconditionMismatch, def.EndDir)
}

// Advance replaces a completed step with its successor.
func (r *Runner) Advance() (Transition, error) {
	if r.Phase() != PhaseCompleted {
		return Transition{}, fmt.Errorf("%w: advance in %s", ErrBadTransition, r.Phase())
	}

	from := r.step
	next, err := from.Next()
	if err != nil {
		return Transition{}, fmt.Errorf("building next step: %w", err)
	}

	t := Transition{From: from, To: next.Step, NextChallenge: next.NextChallenge}
	if next.Step == nil {
		r.finished = true
		t.Finished = true
		r.life.Stop()
		r.logger.Info("story finished", slog.Int("challenge", from.Definition().Challenge))
	} else {
		if err := r.enter(next.Step); err != nil {
			return Transition{}, err
		}
		if next.NextChallenge {
			r.logger.Info("challenge completed",
				slog.Int("challenge", from.Definition().Challenge),
				slog.Int("next", next.Step.Definition().Challenge),
			)
		}
	}

	if r.callback != nil {
		r.callback(t)
	}
	return t, nil
}
