package shell

import (
	"context"
	"log/slog"
	osexec "os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/druarnfield/linuxstory/internal/editor"
)

// SessionFactory creates an editor session for a step's content check.
// Diagnose receives monitor failures meant for the learner.
type SessionFactory func(check editor.ContentCheck, diagnose func(msg string)) (*editor.Session, error)

// Bridge follows an editor session in the background and produces tea.Msg
// values for the shell via a channel.
type Bridge struct {
	session *editor.Session
	logger  *slog.Logger
	msgs    chan tea.Msg
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewBridge creates a session through factory and wraps it.
func NewBridge(factory SessionFactory, check editor.ContentCheck, logger *slog.Logger) (*Bridge, error) {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		logger: logger,
		msgs:   make(chan tea.Msg, 16),
		ctx:    ctx,
		cancel: cancel,
	}

	session, err := factory(check, b.diagnose)
	if err != nil {
		cancel()
		return nil, err
	}
	b.session = session
	return b, nil
}

// Session returns the wrapped session.
func (b *Bridge) Session() *editor.Session {
	return b.session
}

// Command builds the editor process for args.
func (b *Bridge) Command(dir string, args ...string) *osexec.Cmd {
	cmd := b.session.Command(args...)
	cmd.Dir = dir
	return cmd
}

// diagnose must not block the monitor, so a full channel drops the message.
func (b *Bridge) diagnose(msg string) {
	select {
	case b.msgs <- EditorDiagnosticMsg{Text: msg}:
	default:
		b.logger.Warn("dropped editor diagnostic", slog.String("text", msg))
	}
}

// send delivers a message on the channel, respecting context cancellation
// to prevent deadlocks if the shell has moved on.
func (b *Bridge) send(msg tea.Msg) bool {
	select {
	case b.msgs <- msg:
		return true
	case <-b.ctx.Done():
		return false
	}
}

// Start starts the session and the forwarding goroutine and returns a
// tea.Cmd that delivers the first message.
func (b *Bridge) Start() tea.Cmd {
	if err := b.session.Start(b.ctx); err != nil {
		b.logger.Error("starting editor session", slog.String("error", err.Error()))
		return func() tea.Msg { return EditorDiagnosticMsg{Text: "Failed to get editor contents"} }
	}
	go b.run()
	return b.NextMsg()
}

func (b *Bridge) run() {
	for {
		select {
		case st := <-b.session.Updates():
			if !b.send(EditorStateMsg{State: st}) {
				return
			}
		case <-b.session.Done():
			b.send(MonitorDoneMsg{})
			return
		case <-b.ctx.Done():
			return
		}
	}
}

// NextMsg returns a tea.Cmd that waits for the next message from the channel.
func (b *Bridge) NextMsg() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.msgs:
			return msg
		case <-b.ctx.Done():
			return nil
		}
	}
}

// Settle returns a tea.Cmd that waits for the session to drain after the
// editor exited.
func (b *Bridge) Settle(grace time.Duration) tea.Cmd {
	return func() tea.Msg {
		return EditorSettledMsg{State: b.session.Settle(b.ctx, grace)}
	}
}

// Close ends the session and stops forwarding.
func (b *Bridge) Close() {
	b.cancel()
	if err := b.session.Close(); err != nil {
		b.logger.Warn("closing editor session", slog.String("error", err.Error()))
	}
}
