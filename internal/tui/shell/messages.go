package shell

import (
	"github.com/druarnfield/linuxstory/internal/editor"
	"github.com/druarnfield/linuxstory/internal/exec"
	"github.com/druarnfield/linuxstory/internal/story"
)

// CommandDoneMsg is sent when a learner's command has finished running.
type CommandDoneMsg struct {
	Line   string
	Eval   story.Evaluation
	Result exec.Result
	Err    error
}

// EditorStateMsg carries the latest editor modal state.
type EditorStateMsg struct {
	State editor.State
}

// EditorDiagnosticMsg is a non-fatal problem reported by the editor monitor.
type EditorDiagnosticMsg struct {
	Text string
}

// MonitorDoneMsg is sent when the editor monitor has exited.
type MonitorDoneMsg struct{}

// EditorExitedMsg is sent when the editor process returns the terminal.
type EditorExitedMsg struct {
	Err error
}

// EditorSettledMsg is sent once the session has drained and ended.
type EditorSettledMsg struct {
	State editor.State
}
