package broadcast

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/JBcollo2/pulse-sub002/internal/api/metrics"
	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
	"github.com/JBcollo2/pulse-sub002/internal/core/ports"
)

const subscriberBuffer = 16

// MemoryBus is the in-process broadcaster. Each subscriber gets a buffered
// channel drained by its own goroutine, so a slow handler never blocks a
// publisher; when the buffer fills, the oldest signals are dropped.
type MemoryBus struct {
	log zerolog.Logger

	mu   sync.Mutex
	next int
	subs map[int]chan domain.AuthSignal
}

// NewMemoryBus returns an empty in-process bus.
func NewMemoryBus(log zerolog.Logger) *MemoryBus {
	return &MemoryBus{
		log:  log,
		subs: make(map[int]chan domain.AuthSignal),
	}
}

// Publish delivers the signal to every current subscriber without blocking.
func (b *MemoryBus) Publish(_ context.Context, sig domain.AuthSignal) error {
	metrics.BroadcastSignalsTotal.WithLabelValues(string(sig.Action), "published").Inc()

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- sig:
		default:
			b.log.Warn().
				Int("subscriber_id", id).
				Str("action", string(sig.Action)).
				Msg("subscriber buffer full, signal dropped")
		}
	}
	return nil
}

// Subscribe registers h until cancel is called or ctx is done.
func (b *MemoryBus) Subscribe(ctx context.Context, h ports.SignalHandler) (func(), error) {
	ch := make(chan domain.AuthSignal, subscriberBuffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(done)
		})
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-done:
				return
			case sig := <-ch:
				h(sig)
			}
		}
	}()

	return cancel, nil
}
