package story

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Phase is where a step is in its lifecycle.
type Phase string

const (
	// PhaseIntroduced: story shown, waiting for input.
	PhaseIntroduced Phase = "introduced"
	// PhaseEvaluating: a line was received and is being checked.
	PhaseEvaluating Phase = "evaluating"
	// PhaseEditing: the accepted command opened the editor.
	PhaseEditing Phase = "editing"
	// PhaseSatisfied: the command matched; postconditions not yet checked.
	PhaseSatisfied Phase = "satisfied"
	// PhaseCompleted: postconditions hold; the step may be replaced.
	PhaseCompleted Phase = "completed"
)

// Lifecycle events.
const (
	EventSubmit   = "SUBMIT"
	EventMatch    = "MATCH"
	EventMiss     = "MISS"
	EventEdit     = "EDIT"
	EventVerified = "VERIFIED"
	EventMismatch = "MISMATCH"
)

// ErrBadTransition is returned when an event does not apply to the current
// phase.
var ErrBadTransition = errors.New("event not valid in this phase")

// lifecycleContext is the statekit context type. Counters live on the
// Lifecycle itself, updated by actions.
type lifecycleContext struct{}

// Lifecycle drives one step through its phases.
type Lifecycle struct {
	interp      *statekit.Interpreter[lifecycleContext]
	submissions int
}

// NewLifecycle builds and starts a lifecycle in PhaseIntroduced.
func NewLifecycle() (*Lifecycle, error) {
	l := &Lifecycle{}

	machine, err := statekit.NewMachine[lifecycleContext]("step").
		WithInitial(statekit.StateID(PhaseIntroduced)).
		WithContext(lifecycleContext{}).
		WithAction("countSubmission", func(_ *lifecycleContext, _ statekit.Event) {
			l.submissions++
		}).
		State(statekit.StateID(PhaseIntroduced)).
		On(EventSubmit).Target(statekit.StateID(PhaseEvaluating)).Done().
		State(statekit.StateID(PhaseEvaluating)).
		OnEntry("countSubmission").
		On(EventMatch).Target(statekit.StateID(PhaseSatisfied)).
		On(EventEdit).Target(statekit.StateID(PhaseEditing)).
		On(EventMiss).Target(statekit.StateID(PhaseIntroduced)).Done().
		State(statekit.StateID(PhaseEditing)).
		On(EventMatch).Target(statekit.StateID(PhaseSatisfied)).
		On(EventMiss).Target(statekit.StateID(PhaseIntroduced)).Done().
		State(statekit.StateID(PhaseSatisfied)).
		On(EventVerified).Target(statekit.StateID(PhaseCompleted)).
		On(EventMismatch).Target(statekit.StateID(PhaseIntroduced)).Done().
		State(statekit.StateID(PhaseCompleted)).Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("building step lifecycle: %w", err)
	}

	l.interp = statekit.NewInterpreter(machine)
	l.interp.Start()
	return l, nil
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	return Phase(l.interp.State().Value)
}

// Send applies event. Every valid event moves to a different phase, so an
// unchanged phase means the event was not accepted.
func (l *Lifecycle) Send(event string) error {
	before := l.Phase()
	l.interp.Send(statekit.Event{Type: statekit.EventType(event)})
	if after := l.Phase(); after == before {
		return fmt.Errorf("%w: %s in %s", ErrBadTransition, event, before)
	}
	return nil
}

// Submissions counts lines that reached evaluation.
func (l *Lifecycle) Submissions() int { return l.submissions }

// Stop releases the interpreter.
func (l *Lifecycle) Stop() {
	l.interp.Stop()
}
