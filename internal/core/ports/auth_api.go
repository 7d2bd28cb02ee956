package ports

import (
	"context"

	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
)

// ProfileSource retrieves the current user's profile over the credentialed
// channel. Implementations apply their own request deadline; any failure is
// returned as an error and the caller decides how to degrade.
type ProfileSource interface {
	Profile(ctx context.Context) (*domain.User, error)
}

// RegisterInput is the sign-up payload for both regular and first-admin
// registration.
type RegisterInput struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=7"`
	Password    string `json:"password" validate:"required"`
}

// AuthAPI is the remote authentication surface of the Pulse backend.
type AuthAPI interface {
	ProfileSource

	// CheckAdmin reports whether an admin account exists on the backend.
	CheckAdmin(ctx context.Context) (bool, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, in RegisterInput) error
	// RegisterFirstAdmin bootstraps the very first admin account and fails
	// with domain.ErrAdminExists once one exists.
	RegisterFirstAdmin(ctx context.Context, in RegisterInput) error
	ForgotPassword(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, password string) error
	// Logout is best-effort; callers clear local state regardless of outcome.
	Logout(ctx context.Context) error
	// GoogleLoginURL is the backend-constructed OAuth entry point.
	GoogleLoginURL() string
}
