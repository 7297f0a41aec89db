package editor

import "strings"

// Prompts shown by nano that change what a later response means.
const (
	SavePrompt     = "Save modified buffer (ANSWERING \"No\" WILL DESTROY CHANGES) ? "
	FilenamePrompt = "File Name to Write"
)

// Cursor is the last reported cursor position.
type Cursor struct {
	X int
	Y int
}

// State is the shell's view of the editor's modal screens. Values are
// snapshots: the monitor publishes a new State for every change and readers
// never see a partially applied event.
type State struct {
	Running bool

	// Content mirrors the editor buffer as of the last contents event.
	Content string
	Cursor  Cursor

	LastPrompt        string
	OnFilenameScreen  bool
	SavePromptShowing bool
	CtrlXPending      bool

	// Filename is the last name the buffer was saved under.
	Filename string
}

// Idle reports whether no prompt or exit gesture is outstanding.
func (s State) Idle() bool {
	return !s.OnFilenameScreen && !s.SavePromptShowing && !s.CtrlXPending
}

func (s State) cancelAll() State {
	s.SavePromptShowing = false
	s.CtrlXPending = false
	s.OnFilenameScreen = false
	return s
}

func (s State) quit() State {
	s = s.cancelAll()
	s.Running = false
	return s
}

// Reducer folds events into State.
type Reducer struct {
	// Finished reports whether content has reached its final value. Once it
	// has, contents events no longer touch the state.
	Finished ContentCheck
}

// Apply returns the state after ev. Payloads are applied in a fixed order
// (contents, statusbar, response, prompt, saved, finish) so later ones win.
func (r Reducer) Apply(s State, ev Event) State {
	if ev.Contents != nil && !r.finished(s.Content) {
		s = s.cancelAll()
		s.Cursor = Cursor{X: ev.Contents.X, Y: ev.Contents.Y}
		s.Content = strings.Join(ev.Contents.Text, "\n")
	}

	if ev.Statusbar != nil && strings.ToLower(strings.TrimSpace(*ev.Statusbar)) == "cancelled" {
		s = s.cancelAll()
	}

	if ev.Response != nil {
		s = applyResponse(s, strings.ToLower(strings.TrimSpace(*ev.Response)))
	}

	if ev.Prompt != nil {
		s.LastPrompt = *ev.Prompt
		switch *ev.Prompt {
		case FilenamePrompt:
			s.SavePromptShowing = false
			s.OnFilenameScreen = true
		case SavePrompt:
			// Only the exit gesture brings this prompt up.
			s.SavePromptShowing = true
			s.OnFilenameScreen = false
			s.CtrlXPending = true
		}
	}

	if ev.Saved {
		s.Filename = ev.Filename
	}

	if ev.Finish {
		s = s.quit()
	}

	return s
}

func (r Reducer) finished(content string) bool {
	return r.Finished != nil && r.Finished(content)
}

func applyResponse(s State, response string) State {
	switch s.LastPrompt {
	case SavePrompt:
		switch response {
		case "cancel":
			return s.cancelAll()
		case "yes":
			s.SavePromptShowing = true
			s.OnFilenameScreen = true
			return s
		case "no":
			return s.quit()
		}
	case FilenamePrompt:
		switch response {
		case "no", "aborted enter":
			return s.quit()
		case "cancel":
			return s.cancelAll()
		}
	}
	// Responses to other prompts carry no meaning yet.
	return s
}
