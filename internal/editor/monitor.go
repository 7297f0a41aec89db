package editor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/druarnfield/linuxstory/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// ContentCheck reports whether the buffer holds what the step asked for.
type ContentCheck func(content string) bool

// ErrLivenessTimeout is returned when the stream stays silent for longer than
// the configured liveness timeout.
var ErrLivenessTimeout = errors.New("editor event stream went silent")

const minBackoff = 10 * time.Millisecond

// MonitorOptions configures a Monitor.
type MonitorOptions struct {
	// Path is the event file. It is created when missing.
	Path string

	// Check, when set, ends the monitor as soon as the buffer satisfies it.
	Check ContentCheck

	LivenessTimeout time.Duration

	// IdleBackoff caps the wait between reads when no write notification
	// arrives.
	IdleBackoff time.Duration

	Logger *slog.Logger

	// Diagnose receives a learner-facing message when the monitor fails.
	Diagnose func(msg string)
}

// Monitor tails an editor event stream and folds it into a store.
type Monitor struct {
	opts    MonitorOptions
	reducer Reducer
	store   *store
}

func newMonitor(opts MonitorOptions, st *store) *Monitor {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.IdleBackoff < minBackoff {
		opts.IdleBackoff = minBackoff
	}
	return &Monitor{
		opts:    opts,
		reducer: Reducer{Finished: opts.Check},
		store:   st,
	}
}

// report logs how Run ended. Failures other than cancellation and the
// liveness timeout are also passed to Diagnose; none reach the caller.
func (m *Monitor) report(err error) {
	log := m.opts.Logger
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		log.Debug("editor monitor stopped", slog.String("path", m.opts.Path))
	case errors.Is(err, ErrLivenessTimeout):
		log.Warn("editor monitor timed out",
			slog.String("path", m.opts.Path),
			slog.Duration("timeout", m.opts.LivenessTimeout),
		)
	default:
		log.Error("editor monitor failed",
			slog.String("path", m.opts.Path),
			slog.String("error", err.Error()),
		)
		if m.opts.Diagnose != nil {
			m.opts.Diagnose("Failed to get editor contents")
		}
	}
}

// Run consumes the stream until the session stops running, the content check
// passes, ctx is cancelled, the stream goes silent past the liveness timeout,
// or a line cannot be read or parsed.
func (m *Monitor) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("editor monitor panic: %v", r)
		}
	}()

	f, err := os.OpenFile(m.opts.Path, os.O_RDONLY|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("opening event stream: %w", err)
	}
	defer f.Close()

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if w, werr := fsnotify.NewWatcher(); werr != nil {
		m.opts.Logger.Debug("event stream not watched, polling", slog.String("error", werr.Error()))
	} else {
		defer w.Close()
		if aerr := w.Add(m.opts.Path); aerr != nil {
			m.opts.Logger.Debug("event stream not watched, polling", slog.String("error", aerr.Error()))
		} else {
			events, errs = w.Events, w.Errors
		}
	}

	r := bufio.NewReader(f)
	var pending []byte
	backoff := minBackoff
	lastActivity := time.Now()

	for {
		if !m.store.load().Running {
			return nil
		}

		chunk, rerr := r.ReadBytes('\n')
		pending = append(pending, chunk...)

		if rerr == nil {
			line := pending
			pending = nil
			lastActivity = time.Now()
			backoff = minBackoff

			ev, perr := ParseEvent(line)
			if perr != nil {
				return perr
			}
			st := m.store.update(func(s State) State { return m.reducer.Apply(s, ev) })
			if !st.Running {
				return nil
			}
			if m.opts.Check != nil && m.opts.Check(st.Content) {
				m.opts.Logger.Debug("editor content satisfied", slog.String("path", m.opts.Path))
				return nil
			}
			continue
		}
		if !errors.Is(rerr, io.EOF) {
			return fmt.Errorf("reading event stream: %w", rerr)
		}

		if m.opts.LivenessTimeout > 0 && time.Since(lastActivity) > m.opts.LivenessTimeout {
			return ErrLivenessTimeout
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				events = nil
			}
		case werr, ok := <-errs:
			if !ok {
				errs = nil
			} else {
				m.opts.Logger.Debug("event stream watch error", slog.String("error", werr.Error()))
			}
		case <-timer.C:
			backoff = min(backoff*2, m.opts.IdleBackoff)
		}
		timer.Stop()
	}
}
