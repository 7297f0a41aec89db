package editor

import (
	"sync"
	"sync/atomic"
)

// store holds the latest State. Writers serialise on mu; readers load the
// current snapshot without locking or wait on updates, which only ever holds
// the newest value.
type store struct {
	mu      sync.Mutex
	cur     atomic.Pointer[State]
	updates chan State
}

func newStore(initial State) *store {
	st := &store{updates: make(chan State, 1)}
	st.cur.Store(&initial)
	return st
}

func (st *store) load() State {
	return *st.cur.Load()
}

func (st *store) update(fn func(State) State) State {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := fn(st.load())
	st.cur.Store(&next)

	// Drop a snapshot nobody has read yet; only the latest matters.
	select {
	case <-st.updates:
	default:
	}
	select {
	case st.updates <- next:
	default:
	}

	return next
}
