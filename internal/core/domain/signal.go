package domain

import "time"

// AuthAction identifies the session change a signal announces.
type AuthAction string

const (
	ActionLogin   AuthAction = "login"
	ActionLogout  AuthAction = "logout"
	ActionRefresh AuthAction = "refresh"
)

// AuthSignal is the broadcast payload used to keep sibling agent processes
// in sync. Origin carries the publisher's instance ID so a process can skip
// its own signals; every other field is informational.
type AuthSignal struct {
	ID     string     `json:"id"`
	Origin string     `json:"origin"`
	Action AuthAction `json:"action"`
	At     time.Time  `json:"at"`
}

// Remote reports whether the signal came from another process.
func (s AuthSignal) Remote(origin string) bool {
	return s.Origin != origin
}
