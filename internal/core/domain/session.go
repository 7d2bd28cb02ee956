package domain

// SessionState tracks the lifecycle of the in-memory session store.
// The store moves uninitialized → loading → ready exactly once per process;
// every code path, including fetch failures, lands on StateReady.
type SessionState string

const (
	StateUninitialized SessionState = "uninitialized"
	StateLoading       SessionState = "loading"
	StateReady         SessionState = "ready"
)

// Session is an immutable snapshot of the session store, handed to
// subscribers on every change. It is never persisted; the backend owns the
// durable record and the snapshot is rebuilt from a round-trip on each start.
type Session struct {
	State         SessionState `json:"state"`
	Authenticated bool         `json:"authenticated"`
	User          *User        `json:"user,omitempty"`
}

// Ready reports whether the store has settled after initialization.
func (s Session) Ready() bool { return s.State == StateReady }
