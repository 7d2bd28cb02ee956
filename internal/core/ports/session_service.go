package ports

import (
	"context"

	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
)

// SessionService is the narrow interface of the in-memory session store.
// One instance lives for the lifetime of the process; all state is ephemeral
// and rebuilt from the backend on Init.
type SessionService interface {
	// Init performs the one-time startup profile fetch. Subsequent calls
	// are no-ops; the store always settles on StateReady.
	Init(ctx context.Context)
	// Login installs an already-authenticated user (validated with the same
	// rules as profile normalization) and announces it to other processes.
	Login(user *domain.User) error
	// Logout posts to the backend best-effort and unconditionally clears
	// local state.
	Logout(ctx context.Context)
	// Refresh re-fetches the profile unless a fetch is already in flight.
	Refresh(ctx context.Context)
	Snapshot() domain.Session
	// Subscribe returns a channel of session snapshots and a cancel func.
	Subscribe() (<-chan domain.Session, func())
}
