package ports

import (
	"context"

	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
)

// SignalHandler consumes one broadcast auth signal. Handlers must be quick;
// slow consumers should hand off to their own goroutine.
type SignalHandler func(domain.AuthSignal)

// Broadcaster is the cross-process session signaling channel. Publishing is
// fire-and-forget: delivery is best-effort and subscribers in the publishing
// process also receive the signal (they filter on Origin).
type Broadcaster interface {
	Publish(ctx context.Context, sig domain.AuthSignal) error
	// Subscribe registers a handler until the returned cancel func is called
	// or ctx is done.
	Subscribe(ctx context.Context, h SignalHandler) (func(), error)
}
