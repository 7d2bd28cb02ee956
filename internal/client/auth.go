package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/JBcollo2/pulse-sub002/internal/api/metrics"
	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
	"github.com/JBcollo2/pulse-sub002/internal/core/ports"
)

// Profile retrieves the current user over the credentialed session. Any
// failure — network, timeout, non-200, or an incomplete payload — comes back
// as an error; the session service downgrades every one of them to
// "unauthenticated" rather than surfacing it.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodGet, "/auth/profile", c.timings.ProfileTimeout, nil, &raw); err != nil {
		metrics.ProfileFetchesTotal.WithLabelValues(fetchResult(err)).Inc()
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	user, err := extractUser(raw)
	if err != nil {
		metrics.ProfileFetchesTotal.WithLabelValues("unauthenticated").Inc()
		return nil, err
	}
	metrics.ProfileFetchesTotal.WithLabelValues("ok").Inc()
	return user, nil
}

func fetchResult(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
		return "unauthenticated"
	}
	return "error"
}

// CheckAdmin reports whether an admin account exists on the backend.
func (c *Client) CheckAdmin(ctx context.Context) (bool, error) {
	var resp struct {
		AdminExists bool `json:"admin_exists"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/check-admin", c.timings.AdminCheckTimeout, nil, &resp); err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return resp.AdminExists, nil
}

// Login authenticates with email and password. The session cookie arrives
// via the jar; the returned user is normalized from whichever envelope the
// backend used.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, "/auth/login", 0, body, &raw); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return extractUser(raw)
}

// Register creates a regular account. The backend assigns the ATTENDEE role.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) error {
	if err := c.do(ctx, http.MethodPost, "/auth/register", 0, in, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// RegisterFirstAdmin bootstraps the very first admin account. Once an admin
// exists the backend answers 403, which is mapped to domain.ErrAdminExists.
func (c *Client) RegisterFirstAdmin(ctx context.Context, in ports.RegisterInput) error {
	if err := c.do(ctx, http.MethodPost, "/auth/register-first-admin", 0, in, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
			return domain.ErrAdminExists
		}
		return fmt.Errorf("register first admin: %w", err)
	}
	return nil
}

// ForgotPassword asks the backend to send a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", 0, body, nil); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	return nil
}

// ValidateResetToken checks a reset token server-side. Any 4xx answer means
// the token is unknown or expired.
func (c *Client) ValidateResetToken(ctx context.Context, token string) error {
	path := "/auth/reset-password/" + url.PathEscape(token)
	if err := c.do(ctx, http.MethodGet, path, c.timings.ResetTokenTimeout, nil, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("validate reset token: %w", err)
	}
	return nil
}

// ResetPassword sets a new password using a validated token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	path := "/auth/reset-password/" + url.PathEscape(token)
	body := map[string]string{"password": password}
	if err := c.do(ctx, http.MethodPost, path, 0, body, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// Logout invalidates the server session. Callers treat failures as
// non-fatal and clear local state regardless.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", c.timings.LogoutTimeout, nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// GoogleLoginURL is the backend-constructed OAuth entry point. The agent
// opens it in a browser; the return leg lands on the agent's callback route.
func (c *Client) GoogleLoginURL() string {
	return c.baseURL + "/auth/login/google"
}

// extractUser tolerates both response shapes the backend uses: a {"user":
// {...}} envelope and user fields at the top level.
func extractUser(raw map[string]any) (*domain.User, error) {
	if sub, ok := raw["user"].(map[string]any); ok {
		return domain.NormalizeUser(sub)
	}
	return domain.NormalizeUser(raw)
}

var _ ports.AuthAPI = (*Client)(nil)
