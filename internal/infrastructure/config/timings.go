package config

import "time"

// Timings groups every deadline and delay the session subsystem uses.
// Defaults match the production values; tests shrink them to keep runs fast.
type Timings struct {
	// Request deadlines against the backend.
	ProfileTimeout    time.Duration `env:"PULSE_PROFILE_TIMEOUT,     default=10s"`
	AdminCheckTimeout time.Duration `env:"PULSE_ADMIN_CHECK_TIMEOUT, default=5s"`
	ResetTokenTimeout time.Duration `env:"PULSE_RESET_TOKEN_TIMEOUT, default=8s"`
	LogoutTimeout     time.Duration `env:"PULSE_LOGOUT_TIMEOUT,      default=5s"`
	RequestTimeout    time.Duration `env:"PULSE_REQUEST_TIMEOUT,     default=15s"`

	// SignalDebounce coalesces bursts of incoming broadcast signals.
	SignalDebounce time.Duration `env:"PULSE_SIGNAL_DEBOUNCE, default=200ms"`
	// LoginGrace is how long a login signal waits before re-fetching the
	// profile, giving the publishing process time to finish its round-trip.
	LoginGrace time.Duration `env:"PULSE_LOGIN_GRACE, default=500ms"`
	// SignupChainDelay separates a successful registration from the
	// automatic sign-in that follows it.
	SignupChainDelay time.Duration `env:"PULSE_SIGNUP_CHAIN_DELAY, default=1500ms"`
	// ResetFallbackDelay is how long an invalid-token error stays on screen
	// before the flow returns to the forgot-password view.
	ResetFallbackDelay time.Duration `env:"PULSE_RESET_FALLBACK_DELAY, default=3s"`
	// RedirectDelay lets the session store finish notifying subscribers
	// before a navigation decision is applied.
	RedirectDelay time.Duration `env:"PULSE_REDIRECT_DELAY, default=100ms"`
}

// DefaultTimings returns the production values without consulting the
// environment.
func DefaultTimings() Timings {
	return Timings{
		ProfileTimeout:     10 * time.Second,
		AdminCheckTimeout:  5 * time.Second,
		ResetTokenTimeout:  8 * time.Second,
		LogoutTimeout:      5 * time.Second,
		RequestTimeout:     15 * time.Second,
		SignalDebounce:     200 * time.Millisecond,
		LoginGrace:         500 * time.Millisecond,
		SignupChainDelay:   1500 * time.Millisecond,
		ResetFallbackDelay: 3 * time.Second,
		RedirectDelay:      100 * time.Millisecond,
	}
}
