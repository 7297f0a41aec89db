// Package shell implements the learner-facing tutorial shell.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/druarnfield/linuxstory/internal/editor"
	"github.com/druarnfield/linuxstory/internal/exec"
	"github.com/druarnfield/linuxstory/internal/gate"
	"github.com/druarnfield/linuxstory/internal/sandbox"
	"github.com/druarnfield/linuxstory/internal/story"
	"github.com/druarnfield/linuxstory/internal/tui/components"
)

const commandTimeout = 10 * time.Second

// Options wires the shell to its collaborators.
type Options struct {
	Runner   *story.Runner
	Sandbox  *sandbox.Sandbox
	Exec     exec.Runner
	Sessions SessionFactory
	Logger   *slog.Logger

	// EditorCommand is the name the learner types to open the editor.
	EditorCommand string

	// SettleGrace bounds the wait for trailing editor events.
	SettleGrace time.Duration
}

// Model is the top-level tea.Model for the tutorial shell.
type Model struct {
	styles   components.Styles
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	lines    []string

	runner        *story.Runner
	sandbox       *sandbox.Sandbox
	exec          exec.Runner
	sessions      SessionFactory
	logger        *slog.Logger
	editorCommand string
	settleGrace   time.Duration

	bridge      *Bridge
	editorState editor.State
	busy        bool

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a Model showing the runner's current step.
func New(opts Options) Model {
	styles := components.DefaultStyles()

	in := textinput.New()
	in.Prompt = ""
	in.Focus()

	m := Model{
		styles:        styles,
		input:         in,
		viewport:      viewport.New(80, 20),
		spinner:       components.NewSpinner(styles),
		runner:        opts.Runner,
		sandbox:       opts.Sandbox,
		exec:          opts.Exec,
		sessions:      opts.Sessions,
		logger:        opts.Logger,
		editorCommand: opts.EditorCommand,
		settleGrace:   opts.SettleGrace,
	}
	if m.editorCommand == "" {
		m.editorCommand = "nano"
	}
	m.print(components.RenderBanner(styles), "")
	m.showStory()
	return m
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-3, 1)
		m.input.Width = max(msg.Width-lenPrompt(m.prompt())-1, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.bridge != nil {
				m.bridge.Close()
				m.bridge = nil
			}
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.busy {
				return m, nil
			}
			return m.submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case CommandDoneMsg:
		return m.commandDone(msg)

	case EditorStateMsg:
		m.editorState = msg.State
		return m, m.nextBridgeMsg()

	case EditorDiagnosticMsg:
		m.print(m.styles.Warning.Render(msg.Text))
		return m, m.nextBridgeMsg()

	case MonitorDoneMsg:
		return m, nil

	case EditorExitedMsg:
		if msg.Err != nil {
			m.logger.Warn("editor exited with error", slog.String("error", msg.Err.Error()))
			m.print(m.styles.Error.Render(fmt.Sprintf("%s: %v", m.editorCommand, msg.Err)))
		}
		if m.bridge == nil {
			m.busy = false
			return m, nil
		}
		return m, m.bridge.Settle(m.settleGrace)

	case EditorSettledMsg:
		return m.editorSettled(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	m.print(m.styles.Prompt.Render(m.prompt()) + line)

	ev, err := m.runner.Submit(line)
	if errors.Is(err, story.ErrFinished) {
		m.print(m.styles.Muted.Render("There are no more challenges. Press Ctrl+C to leave."))
		return m, nil
	}
	if err != nil {
		m.logger.Error("submitting command", slog.String("error", err.Error()))
		m.print(m.styles.Error.Render(err.Error()))
		return m, nil
	}

	name, args := exec.Split(line)
	switch {
	case ev.Verdict == gate.Ignore:
		return m, nil
	case ev.LaunchEditor:
		return m.launchEditor(args)
	case name == m.editorCommand && ev.Verdict == gate.Reject:
		// The editor is only opened for the file the step asks for.
		m.showHint(ev)
		return m, nil
	case name == "cd":
		return m.commandDone(m.changeDir(line, ev, args))
	}

	resolved, err := m.resolveArgs(args)
	if err != nil {
		return m.commandDone(outsideSandbox(line, ev, name, err))
	}

	m.busy = true
	return m, tea.Batch(m.run(line, ev, name, resolved), m.spinner.Tick)
}

func outsideSandbox(line string, ev story.Evaluation, name string, err error) CommandDoneMsg {
	return CommandDoneMsg{
		Line:   line,
		Eval:   ev,
		Err:    err,
		Result: exec.Result{Stderr: fmt.Sprintf("%s: %v\n", name, err), ExitCode: 1},
	}
}

func (m *Model) changeDir(line string, ev story.Evaluation, args []string) CommandDoneMsg {
	target := "~"
	if len(args) > 0 {
		target = args[0]
	}
	msg := CommandDoneMsg{Line: line, Eval: ev}
	if err := m.sandbox.Chdir(target); err != nil {
		msg.Err = err
		msg.Result = exec.Result{Stderr: fmt.Sprintf("cd: %s: No such file or directory\n", target), ExitCode: 1}
	}
	return msg
}

// run executes a command inside the sandbox with already resolved args. The
// sandbox is only read here; Update does not change it while busy.
func (m Model) run(line string, ev story.Evaluation, name string, resolved []string) tea.Cmd {
	dir := m.sandbox.Cwd()
	runner := m.exec
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		res, err := runner.Run(ctx, dir, name, resolved...)
		return CommandDoneMsg{Line: line, Eval: ev, Result: res, Err: err}
	}
}

// resolveArgs checks every non-flag argument against the sandbox. Home and
// absolute paths are rewritten to real paths; relative ones are passed as
// typed since commands run in the sandbox working directory. Any argument
// that leaves the sandbox fails with sandbox.ErrOutside.
func (m Model) resolveArgs(args []string) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a
		if strings.HasPrefix(a, "-") {
			continue
		}
		p, err := m.sandbox.Resolve(a)
		if err != nil {
			return nil, err
		}
		if a == "~" || strings.HasPrefix(a, "~/") || filepath.IsAbs(a) {
			out[i] = p
		}
	}
	return out, nil
}

func (m Model) commandDone(msg CommandDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if out := strings.TrimRight(msg.Result.Stdout, "\n"); out != "" {
		m.print(m.styles.Output.Render(out))
	}
	if errOut := strings.TrimRight(msg.Result.Stderr, "\n"); errOut != "" {
		m.print(m.styles.Error.Render(errOut))
	}
	if msg.Err != nil {
		name, _ := exec.Split(msg.Line)
		switch {
		case errors.Is(msg.Err, exec.ErrNotPermitted):
			m.print(m.styles.Error.Render(name + ": command not found"))
		case msg.Result.Stderr == "":
			m.print(m.styles.Error.Render(fmt.Sprintf("%s: %v", name, msg.Err)))
		}
		m.logger.Debug("command failed",
			slog.String("command", msg.Line),
			slog.String("error", msg.Err.Error()),
		)
	}

	if msg.Eval.Verdict == gate.Accept && !errors.Is(msg.Err, sandbox.ErrOutside) {
		m.complete()
		return m, nil
	}
	m.showHint(msg.Eval)
	return m, nil
}

func (m Model) launchEditor(args []string) (tea.Model, tea.Cmd) {
	resolved, err := m.resolveArgs(args)
	if err != nil {
		m.abortEditing()
		m.print(m.styles.Error.Render(fmt.Sprintf("%s: %v", m.editorCommand, err)))
		return m, nil
	}

	step := m.runner.Current()
	b, err := NewBridge(m.sessions, monitorCheck(step), m.logger)
	if err != nil {
		m.logger.Error("creating editor session", slog.String("error", err.Error()))
		m.abortEditing()
		m.print(m.styles.Error.Render("Failed to get editor contents"))
		return m, nil
	}
	m.bridge = b
	m.busy = true
	m.editorState = editor.State{Running: true}

	cmd := b.Command(m.sandbox.Cwd(), resolved...)
	m.logger.Info("launching editor",
		slog.String("session", b.Session().ID()),
		slog.String("args", strings.Join(args, " ")),
	)
	return m, tea.Batch(
		b.Start(),
		tea.ExecProcess(cmd, func(err error) tea.Msg { return EditorExitedMsg{Err: err} }),
	)
}

// abortEditing puts a step whose editor never started back to waiting for
// input.
func (m *Model) abortEditing() {
	if err := m.runner.AbortEditing(); err != nil {
		m.logger.Error("aborting edit", slog.String("error", err.Error()))
	}
}

// monitorCheck is the content check that ends the editor monitor early. A
// step that must be saved to a file is watched until the editor finishes so
// the save is seen.
func monitorCheck(step story.Step) editor.ContentCheck {
	if goal := step.Definition().Editor; goal != nil && goal.File != "" {
		return nil
	}
	return step.ContentDone
}

func (m Model) editorSettled(msg EditorSettledMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.editorState = msg.State
	if m.bridge != nil {
		m.bridge.Close()
		m.bridge = nil
	}

	ok, hint, err := m.runner.FinishEditing(msg.State.Content, msg.State.Filename)
	if err != nil {
		m.logger.Error("finishing edit", slog.String("error", err.Error()))
		m.print(m.styles.Error.Render(err.Error()))
		return m, nil
	}
	if ok {
		m.complete()
		return m, nil
	}
	m.print(m.styles.Warning.Render("That's not quite what the story asked for."))
	m.showHint(story.Evaluation{Hint: hint})
	return m, nil
}

// complete verifies the satisfied step and moves to the next one.
func (m *Model) complete() {
	if err := m.runner.Verify(); err != nil {
		if errors.Is(err, story.ErrPreconditionMismatch) {
			end := m.runner.Current().Definition().EndDir
			m.print(m.styles.Warning.Render("You need to be in " + end + " to carry on."))
			return
		}
		m.print(m.styles.Error.Render(err.Error()))
		return
	}

	t, err := m.runner.Advance()
	if err != nil {
		m.logger.Error("advancing", slog.String("error", err.Error()))
		m.print(m.styles.Error.Render(err.Error()))
		return
	}
	if t.Finished {
		m.print("", m.styles.Success.Render("You've completed every challenge. Well done!"))
		return
	}
	m.showStory()
}

func (m *Model) showHint(ev story.Evaluation) {
	if ev.Hint != "" {
		m.print(m.styles.Warning.Render(components.RenderMarkup(m.styles, ev.Hint)))
	}
}

// showStory prints the active step's story text once.
func (m *Model) showStory() {
	step := m.runner.Current()
	if step == nil || step.Displayed() {
		return
	}
	def := step.Definition()
	m.print("", m.styles.Subtitle.Render(fmt.Sprintf("Challenge %d", def.Challenge)))
	for _, l := range def.Story {
		m.print(components.RenderMarkup(m.styles, l))
	}
	m.print("")
	step.MarkDisplayed()
}

func (m *Model) print(lines ...string) {
	m.lines = append(m.lines, lines...)
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) nextBridgeMsg() tea.Cmd {
	if m.bridge == nil {
		return nil
	}
	return m.bridge.NextMsg()
}

func (m Model) prompt() string {
	return m.sandbox.Display() + " $ "
}

func lenPrompt(p string) int {
	return len([]rune(p))
}

// Lines returns the rendered scrollback (for testing).
func (m Model) Lines() []string {
	return m.lines
}

// Busy reports whether a command or the editor is in flight.
func (m Model) Busy() bool {
	return m.busy
}

// EditorState returns the last editor state seen.
func (m Model) EditorState() editor.State {
	return m.editorState
}
