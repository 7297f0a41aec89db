package editor

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

type diagnostics struct {
	mu   sync.Mutex
	msgs []string
}

func (d *diagnostics) add(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msgs = append(d.msgs, msg)
}

func (d *diagnostics) all() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.msgs...)
}

func newTestSession(t *testing.T, check ContentCheck, diag *diagnostics) *Session {
	t.Helper()
	opts := SessionOptions{
		Binary:          "nano",
		EventDir:        t.TempDir(),
		Check:           check,
		LivenessTimeout: time.Minute,
		IdleBackoff:     20 * time.Millisecond,
	}
	if diag != nil {
		opts.Diagnose = diag.add
	}
	s, err := NewSession(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func emit(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(s.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	require.NoError(t, err)
	defer f.Close()
	for _, l := range lines {
		_, err := f.WriteString(l + "\n")
		require.NoError(t, err)
	}
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(waitFor):
		t.Fatal("monitor did not exit")
	}
}

func TestSession_SnapshotBeforeStart(t *testing.T) {
	s := newTestSession(t, nil, nil)
	assert.False(t, s.Running())
	assert.Empty(t, s.Content())
}

func TestSession_FollowsEvents(t *testing.T) {
	s := newTestSession(t, nil, nil)
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Running())

	emit(t, s,
		`{"contents": {"x": 1, "y": 1, "text": ["a", "b"]}}`,
		`{"prompt": "`+strings.ReplaceAll(SavePrompt, `"`, `\"`)+`"}`,
		`{"response": "yes"}`,
	)

	require.Eventually(t, func() bool {
		st := s.Snapshot()
		return st.SavePromptShowing && st.OnFilenameScreen
	}, waitFor, 10*time.Millisecond)
	assert.Equal(t, "a\nb", s.Content())
}

func TestSession_FinishEndsMonitor(t *testing.T) {
	s := newTestSession(t, nil, nil)
	require.NoError(t, s.Start(context.Background()))

	emit(t, s, `{"saved": true, "filename": "note"}`, `{"finish": true}`)

	waitDone(t, s)
	st := s.Snapshot()
	assert.False(t, st.Running)
	assert.Equal(t, "note", st.Filename)
}

func TestSession_ReadsEventsWrittenBeforeStart(t *testing.T) {
	s := newTestSession(t, nil, nil)
	emit(t, s, `{"finish": true}`)

	require.NoError(t, s.Start(context.Background()))

	waitDone(t, s)
	assert.False(t, s.Running())
}

func TestSession_ContentCheckStopsMonitor(t *testing.T) {
	s := newTestSession(t, func(c string) bool { return c == "hello" }, nil)
	require.NoError(t, s.Start(context.Background()))

	emit(t, s, `{"contents": {"x": 5, "y": 0, "text": ["hello"]}}`)

	waitDone(t, s)
	st := s.Snapshot()
	assert.True(t, st.Running, "content check ends monitoring, not the editor")
	assert.Equal(t, "hello", st.Content)
}

func TestSession_MalformedLineIsDiagnosed(t *testing.T) {
	diag := &diagnostics{}
	s := newTestSession(t, nil, diag)
	require.NoError(t, s.Start(context.Background()))

	emit(t, s, `{"statusbar": "ok"}`, `this is not data`)

	waitDone(t, s)
	assert.Equal(t, []string{"Failed to get editor contents"}, diag.all())
}

func TestSession_StartTwice(t *testing.T) {
	s := newTestSession(t, nil, nil)
	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
}

func TestSession_QuitResetsModalState(t *testing.T) {
	s := newTestSession(t, nil, nil)
	require.NoError(t, s.Start(context.Background()))

	emit(t, s, `{"prompt": "File Name to Write"}`)
	require.Eventually(t, func() bool { return s.Snapshot().OnFilenameScreen }, waitFor, 10*time.Millisecond)

	s.Quit()

	st := s.Snapshot()
	assert.False(t, st.Running)
	assert.True(t, st.Idle())
	waitDone(t, s)
}

func TestSession_SettleWaitsForDrain(t *testing.T) {
	s := newTestSession(t, nil, nil)
	require.NoError(t, s.Start(context.Background()))

	emit(t, s, `{"contents": {"x": 0, "y": 0, "text": ["saved text"]}}`, `{"finish": true}`)

	st := s.Settle(context.Background(), waitFor)
	assert.False(t, st.Running)
	assert.Equal(t, "saved text", st.Content)
}

func TestSession_SettleWithoutStart(t *testing.T) {
	s := newTestSession(t, nil, nil)
	st := s.Settle(context.Background(), time.Millisecond)
	assert.False(t, st.Running)
}

func TestSession_CancelStopsMonitor(t *testing.T) {
	s := newTestSession(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	cancel()

	waitDone(t, s)
}

func TestSession_LivenessTimeout(t *testing.T) {
	s, err := NewSession(SessionOptions{
		Binary:          "nano",
		EventDir:        t.TempDir(),
		LivenessTimeout: 50 * time.Millisecond,
		IdleBackoff:     10 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	waitDone(t, s)
}

func TestSession_UpdatesDeliversLatest(t *testing.T) {
	s := newTestSession(t, nil, nil)
	require.NoError(t, s.Start(context.Background()))

	emit(t, s, `{"saved": true, "filename": "one"}`, `{"saved": true, "filename": "two"}`)

	require.Eventually(t, func() bool { return s.Snapshot().Filename == "two" }, waitFor, 10*time.Millisecond)
	select {
	case st := <-s.Updates():
		assert.Equal(t, "two", st.Filename)
	case <-time.After(waitFor):
		t.Fatal("no update delivered")
	}
}

func TestSession_CommandExportsEventPath(t *testing.T) {
	s := newTestSession(t, nil, nil)
	cmd := s.Command("note")

	assert.Equal(t, []string{"nano", "note"}, cmd.Args)
	assert.Contains(t, cmd.Env, EventsEnv+"="+s.Path())
}

func TestSession_UniqueEventPaths(t *testing.T) {
	a := newTestSession(t, nil, nil)
	b := newTestSession(t, nil, nil)
	assert.NotEqual(t, a.Path(), b.Path())
}
