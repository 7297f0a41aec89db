// Package editor runs the external text editor and follows what its screens
// show by reading the event stream its instrumentation writes.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/druarnfield/linuxstory/internal/logging"
	"github.com/google/uuid"
)

// EventsEnv names the environment variable that tells the instrumented
// editor where to write its events.
const EventsEnv = "LINUX_STORY_EDITOR_EVENTS"

// ErrAlreadyStarted is returned by Start on a session that has a monitor.
var ErrAlreadyStarted = errors.New("editor session already started")

// SessionOptions configures a Session.
type SessionOptions struct {
	// Binary is the editor executable.
	Binary string

	// EventDir holds the per-session event file.
	EventDir string

	Check           ContentCheck
	LivenessTimeout time.Duration
	IdleBackoff     time.Duration
	Logger          *slog.Logger
	Diagnose        func(msg string)
}

// Session is one launch-to-exit lifetime of the editor.
type Session struct {
	id      string
	path    string
	binary  string
	logger  *slog.Logger
	store   *store
	monitor *Monitor

	started atomic.Bool
	done    chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSession prepares a session with its own event file under EventDir.
// Nothing runs until Start.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Binary == "" {
		return nil, fmt.Errorf("editor binary not configured")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if err := os.MkdirAll(opts.EventDir, 0700); err != nil {
		return nil, fmt.Errorf("creating event dir: %w", err)
	}

	id := uuid.New().String()
	path := filepath.Join(opts.EventDir, "editor-"+id+".events")
	logger := opts.Logger.With(slog.String("session", id))

	st := newStore(State{})
	mon := newMonitor(MonitorOptions{
		Path:            path,
		Check:           opts.Check,
		LivenessTimeout: opts.LivenessTimeout,
		IdleBackoff:     opts.IdleBackoff,
		Logger:          logger,
		Diagnose:        opts.Diagnose,
	}, st)

	return &Session{
		id:      id,
		path:    path,
		binary:  opts.Binary,
		logger:  logger,
		store:   st,
		monitor: mon,
		done:    make(chan struct{}),
	}, nil
}

func (s *Session) ID() string { return s.id }

// Path is the event file the editor writes to.
func (s *Session) Path() string { return s.path }

// Command builds the editor process for args, wired to this session's event
// file. The caller attaches the terminal and runs it.
func (s *Session) Command(args ...string) *exec.Cmd {
	cmd := exec.Command(s.binary, args...)
	cmd.Env = append(os.Environ(), EventsEnv+"="+s.path)
	return cmd
}

// Start marks the editor running and starts the monitor. A session has at
// most one monitor; later calls return ErrAlreadyStarted.
func (s *Session) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	s.store.update(func(State) State { return State{Running: true} })

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		s.monitor.report(s.monitor.Run(ctx))
	}()
	s.logger.Info("editor session started", slog.String("events", s.path))
	return nil
}

// Snapshot returns the latest state.
func (s *Session) Snapshot() State {
	return s.store.load()
}

// Running reports whether the editor is still attached.
func (s *Session) Running() bool {
	return s.Snapshot().Running
}

// Content returns the last known buffer text.
func (s *Session) Content() string {
	return s.Snapshot().Content
}

// Updates delivers the newest state each time it changes. Intermediate
// states may be skipped.
func (s *Session) Updates() <-chan State {
	return s.store.updates
}

// Done is closed once the monitor has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Quit ends the session: pending prompts are cleared, Running goes false and
// the monitor is told to stop. It does not wait for the monitor.
func (s *Session) Quit() {
	s.store.update(State.quit)

	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Settle is called once the editor process has exited. It gives the monitor
// up to grace to drain the remaining events, then quits.
func (s *Session) Settle(ctx context.Context, grace time.Duration) State {
	if s.started.Load() {
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-s.done:
		case <-timer.C:
			s.logger.Debug("editor monitor still draining at settle")
		case <-ctx.Done():
		}
	}
	s.Quit()
	st := s.Snapshot()
	s.logger.Info("editor session settled",
		slog.Int("content_bytes", len(st.Content)),
		slog.String("filename", st.Filename),
	)
	return st
}

// Close quits and removes the event file.
func (s *Session) Close() error {
	s.Quit()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing event file: %w", err)
	}
	return nil
}
