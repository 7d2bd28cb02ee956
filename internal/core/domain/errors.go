package domain

import "errors"

var (
	// ErrProfileIncomplete marks a user payload missing email or role.
	ErrProfileIncomplete = errors.New("profile payload incomplete")
	// ErrNotAuthenticated is returned when an operation requires a session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrFetchInFlight signals that a profile fetch is already running.
	ErrFetchInFlight = errors.New("profile fetch already in flight")
	// ErrInvalidToken marks an expired or unknown password-reset token.
	ErrInvalidToken = errors.New("invalid or expired reset token")
	// ErrWeakPassword marks a password failing the minimum-strength rule.
	ErrWeakPassword = errors.New("password must be at least 8 characters and contain a letter and a digit")
	// ErrPasswordMismatch marks a confirm field differing from the password.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrAdminExists is the backend's refusal to bootstrap a second admin.
	ErrAdminExists = errors.New("admin account already exists")
)
