package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/JBcollo2/pulse-sub002/internal/broadcast"
	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
	"github.com/JBcollo2/pulse-sub002/internal/core/ports"
	"github.com/JBcollo2/pulse-sub002/internal/infrastructure/config"
)

// ---------------------------------------------------------------------------
// Stub backend API
// ---------------------------------------------------------------------------

type stubAuthAPI struct {
	mu           sync.Mutex
	profileCalls int
	logoutCalls  int
	profileFn    func() (*domain.User, error)
	logoutErr    error
	block        chan struct{} // when non-nil, Profile blocks until closed
}

func (s *stubAuthAPI) Profile(context.Context) (*domain.User, error) {
	s.mu.Lock()
	s.profileCalls++
	block := s.block
	fn := s.profileFn
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	if fn != nil {
		return fn()
	}
	return nil, errors.New("no session")
}

func (s *stubAuthAPI) Logout(context.Context) error {
	s.mu.Lock()
	s.logoutCalls++
	s.mu.Unlock()
	return s.logoutErr
}

func (s *stubAuthAPI) CheckAdmin(context.Context) (bool, error) { return true, nil }
func (s *stubAuthAPI) Login(context.Context, string, string) (*domain.User, error) {
	return nil, errors.New("not used")
}
func (s *stubAuthAPI) Register(context.Context, ports.RegisterInput) error           { return nil }
func (s *stubAuthAPI) RegisterFirstAdmin(context.Context, ports.RegisterInput) error { return nil }
func (s *stubAuthAPI) ForgotPassword(context.Context, string) error                  { return nil }
func (s *stubAuthAPI) ValidateResetToken(context.Context, string) error              { return nil }
func (s *stubAuthAPI) ResetPassword(context.Context, string, string) error           { return nil }
func (s *stubAuthAPI) GoogleLoginURL() string                                        { return "" }

func (s *stubAuthAPI) calls() (profile, logout int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileCalls, s.logoutCalls
}

func serviceTimings() config.Timings {
	t := config.DefaultTimings()
	t.SignalDebounce = 15 * time.Millisecond
	t.LoginGrace = 15 * time.Millisecond
	t.ProfileTimeout = time.Second
	t.LogoutTimeout = time.Second
	return t
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func attendee(email string) *domain.User {
	return &domain.User{ID: "u1", Name: "Jane", Email: email, Role: domain.RoleAttendee}
}

// ---------------------------------------------------------------------------
// Initialization
// ---------------------------------------------------------------------------

func TestInit_SettlesReadyOnFetchFailure(t *testing.T) {
	api := &stubAuthAPI{} // Profile fails
	svc := NewSessionService(api, nil, serviceTimings(), zerolog.Nop())

	svc.Init(context.Background())

	snap := svc.Snapshot()
	if snap.State != domain.StateReady {
		t.Fatalf("store must settle ready on failure, got %s", snap.State)
	}
	if snap.Authenticated || snap.User != nil {
		t.Fatalf("failed fetch must leave the store unauthenticated: %+v", snap)
	}
}

func TestInit_RunsOnlyOnce(t *testing.T) {
	api := &stubAuthAPI{profileFn: func() (*domain.User, error) { return attendee("a@x.com"), nil }}
	svc := NewSessionService(api, nil, serviceTimings(), zerolog.Nop())

	svc.Init(context.Background())
	svc.Init(context.Background())
	svc.Init(context.Background())

	if calls, _ := api.calls(); calls != 1 {
		t.Fatalf("expected exactly one startup fetch, got %d", calls)
	}
}

func TestInit_AuthenticatedOnValidProfile(t *testing.T) {
	api := &stubAuthAPI{profileFn: func() (*domain.User, error) { return attendee("a@x.com"), nil }}
	svc := NewSessionService(api, nil, serviceTimings(), zerolog.Nop())

	svc.Init(context.Background())

	snap := svc.Snapshot()
	if !snap.Authenticated || snap.User == nil || snap.User.Email != "a@x.com" {
		t.Fatalf("expected authenticated session, got %+v", snap)
	}
}

// ---------------------------------------------------------------------------
// Login / Logout
// ---------------------------------------------------------------------------

func TestLogin_RejectsIncompleteUser(t *testing.T) {
	svc := NewSessionService(&stubAuthAPI{}, nil, serviceTimings(), zerolog.Nop())

	if err := svc.Login(&domain.User{Name: "No Email", Role: domain.RoleAttendee}); !errors.Is(err, domain.ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
	if svc.Snapshot().Authenticated {
		t.Fatalf("rejected login must not authenticate")
	}
}

func TestLoginThenLogout_ClearsRegardlessOfNetwork(t *testing.T) {
	api := &stubAuthAPI{logoutErr: errors.New("backend down")}
	svc := NewSessionService(api, nil, serviceTimings(), zerolog.Nop())

	if err := svc.Login(attendee("jane@x.com")); err != nil {
		t.Fatalf("Login: %v", err)
	}
	svc.Logout(context.Background())

	snap := svc.Snapshot()
	if snap.Authenticated || snap.User != nil {
		t.Fatalf("logout must clear local state even when the server call fails: %+v", snap)
	}
	if _, logouts := api.calls(); logouts != 1 {
		t.Fatalf("expected one best-effort logout call")
	}
}

// ---------------------------------------------------------------------------
// Single-flight refresh
// ---------------------------------------------------------------------------

func TestRefresh_SingleFlight(t *testing.T) {
	block := make(chan struct{})
	api := &stubAuthAPI{
		block:     block,
		profileFn: func() (*domain.User, error) { return attendee("a@x.com"), nil },
	}
	svc := NewSessionService(api, nil, serviceTimings(), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		svc.Refresh(context.Background())
		close(done)
	}()
	waitFor(t, func() bool { p, _ := api.calls(); return p == 1 })

	// Arrivals during the in-flight fetch must not issue a second request.
	svc.Refresh(context.Background())
	svc.Refresh(context.Background())

	close(block)
	<-done

	if p, _ := api.calls(); p != 1 {
		t.Fatalf("expected exactly one network request, got %d", p)
	}
}

// ---------------------------------------------------------------------------
// Broadcast synchronization
// ---------------------------------------------------------------------------

func TestRemoteLogout_ClearsWithoutNetwork(t *testing.T) {
	bus := broadcast.NewMemoryBus(zerolog.Nop())
	api := &stubAuthAPI{}
	svc := NewSessionService(api, bus, serviceTimings(), zerolog.Nop())
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop()

	if err := svc.Login(attendee("jane@x.com")); err != nil {
		t.Fatalf("Login: %v", err)
	}

	sig := domain.AuthSignal{ID: "s1", Origin: "other-process", Action: domain.ActionLogout, At: time.Now()}
	if err := bus.Publish(context.Background(), sig); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	waitFor(t, func() bool { return !svc.Snapshot().Authenticated })

	profile, logout := api.calls()
	if profile != 0 || logout != 0 {
		t.Fatalf("remote logout must be applied with zero network calls, got profile=%d logout=%d", profile, logout)
	}
}

func TestRemoteLogin_RefreshesAfterGrace(t *testing.T) {
	bus := broadcast.NewMemoryBus(zerolog.Nop())
	api := &stubAuthAPI{profileFn: func() (*domain.User, error) { return attendee("jane@x.com"), nil }}
	svc := NewSessionService(api, bus, serviceTimings(), zerolog.Nop())
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop()

	sig := domain.AuthSignal{ID: "s1", Origin: "other-process", Action: domain.ActionLogin, At: time.Now()}
	_ = bus.Publish(context.Background(), sig)

	waitFor(t, func() bool { return svc.Snapshot().Authenticated })
}

func TestSelfOriginSignalsIgnored(t *testing.T) {
	bus := broadcast.NewMemoryBus(zerolog.Nop())
	api := &stubAuthAPI{}
	svc := NewSessionService(api, bus, serviceTimings(), zerolog.Nop())
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop()

	sig := domain.AuthSignal{ID: "s1", Origin: svc.Origin(), Action: domain.ActionRefresh, At: time.Now()}
	_ = bus.Publish(context.Background(), sig)

	time.Sleep(100 * time.Millisecond)
	if p, _ := api.calls(); p != 0 {
		t.Fatalf("self-originated signal must be ignored, got %d fetches", p)
	}
}

func TestTwoStores_LoginPropagates(t *testing.T) {
	bus := broadcast.NewMemoryBus(zerolog.Nop())

	apiA := &stubAuthAPI{}
	svcA := NewSessionService(apiA, bus, serviceTimings(), zerolog.Nop())
	if err := svcA.Start(context.Background()); err != nil {
		t.Fatalf("Start A: %v", err)
	}
	defer svcA.Stop()

	apiB := &stubAuthAPI{profileFn: func() (*domain.User, error) { return attendee("jane@x.com"), nil }}
	svcB := NewSessionService(apiB, bus, serviceTimings(), zerolog.Nop())
	if err := svcB.Start(context.Background()); err != nil {
		t.Fatalf("Start B: %v", err)
	}
	defer svcB.Stop()

	if err := svcA.Login(attendee("jane@x.com")); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// B picks up A's login after the debounce and grace windows.
	waitFor(t, func() bool { return svcB.Snapshot().Authenticated })
}

// ---------------------------------------------------------------------------
// Subscriptions
// ---------------------------------------------------------------------------

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	api := &stubAuthAPI{}
	svc := NewSessionService(api, nil, serviceTimings(), zerolog.Nop())

	ch, cancel := svc.Subscribe()
	defer cancel()

	if err := svc.Login(attendee("jane@x.com")); err != nil {
		t.Fatalf("Login: %v", err)
	}

	select {
	case snap := <-ch:
		if !snap.Authenticated || snap.User == nil {
			t.Fatalf("unexpected snapshot: %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatalf("no snapshot delivered")
	}
}

func TestSubscribe_CancelStopsDelivery(t *testing.T) {
	svc := NewSessionService(&stubAuthAPI{}, nil, serviceTimings(), zerolog.Nop())

	ch, cancel := svc.Subscribe()
	cancel()

	_ = svc.Login(attendee("jane@x.com"))

	select {
	case <-ch:
		t.Fatalf("cancelled subscriber must not receive snapshots")
	case <-time.After(50 * time.Millisecond):
	}
}
