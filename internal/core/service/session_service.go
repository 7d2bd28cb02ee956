package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JBcollo2/pulse-sub002/internal/api/metrics"
	"github.com/JBcollo2/pulse-sub002/internal/broadcast"
	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
	"github.com/JBcollo2/pulse-sub002/internal/core/ports"
	"github.com/JBcollo2/pulse-sub002/internal/infrastructure/config"
)

// SessionService is the in-memory session store. It owns the authenticated
// user for the lifetime of the process, keeps sibling processes in sync over
// the broadcast channel, and guarantees two invariants:
//
//   - the store always settles on StateReady, whatever a fetch does;
//   - at most one profile fetch is in flight at a time — callers arriving
//     mid-flight issue no second request.
type SessionService struct {
	api     ports.AuthAPI
	bus     ports.Broadcaster
	origin  string
	timings config.Timings
	log     zerolog.Logger

	mu            sync.Mutex
	state         domain.SessionState
	user          *domain.User
	authenticated bool
	initialized   bool
	inFlight      bool
	graceTimer    *time.Timer

	subMu   sync.Mutex
	nextSub int
	subs    map[int]chan domain.Session

	debounce    *broadcast.Debouncer
	unsubscribe func()
}

// NewSessionService wires the store to the backend API and the broadcast
// channel. bus may be nil, in which case signals stay local to this process.
func NewSessionService(api ports.AuthAPI, bus ports.Broadcaster, timings config.Timings, log zerolog.Logger) *SessionService {
	return &SessionService{
		api:      api,
		bus:      bus,
		origin:   uuid.NewString(),
		timings:  timings,
		log:      log,
		state:    domain.StateUninitialized,
		subs:     make(map[int]chan domain.Session),
		debounce: broadcast.NewDebouncer(timings.SignalDebounce),
	}
}

// Origin is this process instance's broadcast identity.
func (s *SessionService) Origin() string { return s.origin }

// Start attaches the store to the broadcast channel so that signals from
// sibling processes are applied. Call Stop to detach.
func (s *SessionService) Start(ctx context.Context) error {
	if s.bus == nil {
		return nil
	}
	cancel, err := s.bus.Subscribe(ctx, s.handleSignal)
	if err != nil {
		return fmt.Errorf("session: attach broadcast channel: %w", err)
	}
	s.unsubscribe = cancel
	return nil
}

// Stop detaches from the broadcast channel and cancels pending timers.
func (s *SessionService) Stop() {
	s.debounce.Stop()
	s.mu.Lock()
	if s.graceTimer != nil {
		s.graceTimer.Stop()
	}
	s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Init runs the one-time startup fetch. Re-invocations are no-ops. The
// deferred transition to StateReady runs on every path, so the store never
// stays loading because of a network failure.
func (s *SessionService) Init(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.state = domain.StateLoading
	s.mu.Unlock()
	s.notify()

	defer func() {
		s.mu.Lock()
		s.state = domain.StateReady
		s.mu.Unlock()
		s.notify()
	}()

	s.fetch(ctx)
}

// Login installs an already-authenticated user, enforcing the same
// completeness rules as profile normalization, and announces the login to
// other processes.
func (s *SessionService) Login(user *domain.User) error {
	if !user.Valid() {
		return fmt.Errorf("session login: %w", domain.ErrProfileIncomplete)
	}

	clone := *user
	s.mu.Lock()
	s.user = &clone
	s.authenticated = true
	s.state = domain.StateReady
	s.mu.Unlock()

	s.log.Info().Str("email", clone.Email).Str("role", string(clone.Role)).Msg("session established")
	s.updateGauge()
	s.notify()
	s.publish(domain.ActionLogin)
	return nil
}

// Logout posts to the backend best-effort and clears local state no matter
// what the server answered. The deferred clear mirrors the store's "always
// settle" rule.
func (s *SessionService) Logout(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.user = nil
		s.authenticated = false
		s.state = domain.StateReady
		s.mu.Unlock()

		s.updateGauge()
		s.notify()
		s.publish(domain.ActionLogout)
	}()

	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
	}
}

// Refresh re-fetches the profile unless a fetch is already in flight.
func (s *SessionService) Refresh(ctx context.Context) {
	s.fetch(ctx)
}

// Snapshot returns the store's current state as an immutable copy.
func (s *SessionService) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.Session{State: s.state, Authenticated: s.authenticated}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Subscribe returns a channel receiving a snapshot on every change. The
// channel is buffered and never blocks the store; a subscriber that falls
// behind misses intermediate snapshots, not the latest one it reads next.
func (s *SessionService) Subscribe() (<-chan domain.Session, func()) {
	ch := make(chan domain.Session, 8)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
	return ch, cancel
}

// fetch performs one guarded profile round-trip. It reports whether a
// request was actually issued; a concurrent caller gets false and no
// duplicate request.
func (s *SessionService) fetch(ctx context.Context) bool {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		metrics.ProfileFetchesTotal.WithLabelValues("skipped").Inc()
		return false
	}
	s.inFlight = true
	s.mu.Unlock()

	user, err := s.api.Profile(ctx)

	s.mu.Lock()
	s.inFlight = false
	if err != nil || !user.Valid() {
		if err != nil {
			s.log.Debug().Err(err).Msg("profile fetch failed, treating as unauthenticated")
		}
		s.user = nil
		s.authenticated = false
	} else {
		s.user = user
		s.authenticated = true
	}
	s.mu.Unlock()

	s.updateGauge()
	s.notify()
	return true
}

// handleSignal is the broadcast listener. Self-originated signals are
// skipped (the store already applied its own change) and bursts collapse
// into one application per debounce window.
func (s *SessionService) handleSignal(sig domain.AuthSignal) {
	if !sig.Remote(s.origin) {
		return
	}
	metrics.BroadcastSignalsTotal.WithLabelValues(string(sig.Action), "received").Inc()

	if s.debounce.Trigger(func() { s.applySignal(sig) }) {
		metrics.DebounceCoalescedTotal.WithLabelValues("session").Inc()
	}
}

func (s *SessionService) applySignal(sig domain.AuthSignal) {
	switch sig.Action {
	case domain.ActionLogout:
		// Another process ended the session: clear immediately, no network.
		s.mu.Lock()
		s.user = nil
		s.authenticated = false
		if s.initialized {
			s.state = domain.StateReady
		}
		s.mu.Unlock()

		s.log.Info().Str("origin", sig.Origin).Msg("remote logout applied")
		s.updateGauge()
		s.notify()

	case domain.ActionLogin:
		// Give the publishing process its grace window to finish the
		// round-trip that set the session cookie, then pick it up.
		s.mu.Lock()
		if s.graceTimer != nil {
			s.graceTimer.Stop()
		}
		s.graceTimer = time.AfterFunc(s.timings.LoginGrace, func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.timings.ProfileTimeout)
			defer cancel()
			s.fetch(ctx)
		})
		s.mu.Unlock()

	case domain.ActionRefresh:
		ctx, cancel := context.WithTimeout(context.Background(), s.timings.ProfileTimeout)
		defer cancel()
		s.fetch(ctx)
	}
}

func (s *SessionService) publish(action domain.AuthAction) {
	if s.bus == nil {
		return
	}
	sig := domain.AuthSignal{
		ID:     uuid.NewString(),
		Origin: s.origin,
		Action: action,
		At:     time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.bus.Publish(ctx, sig); err != nil {
		s.log.Warn().Err(err).Str("action", string(action)).Msg("broadcast publish failed")
	}
}

func (s *SessionService) notify() {
	snap := s.Snapshot()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *SessionService) updateGauge() {
	s.mu.Lock()
	authed := s.authenticated
	s.mu.Unlock()
	if authed {
		metrics.SessionAuthenticated.Set(1)
	} else {
		metrics.SessionAuthenticated.Set(0)
	}
}

var _ ports.SessionService = (*SessionService)(nil)
