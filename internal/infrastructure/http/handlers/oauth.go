package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GoogleFlow is the slice of the auth flow the callback route drives.
type GoogleFlow interface {
	HandleURL(ctx context.Context, raw string)
	IsOpen() bool
	Err() string
}

// OAuthHandler handles GET /oauth/google/callback — the return leg of the
// redirect-based Google sign-in. The backend appends google_auth=success to
// the redirect; the handler forwards the full URL to the flow, which
// finishes the session with a profile fetch.
type OAuthHandler struct {
	flow GoogleFlow
}

func NewOAuthHandler(flow GoogleFlow) *OAuthHandler {
	return &OAuthHandler{flow: flow}
}

func (h *OAuthHandler) GoogleCallback(c echo.Context) error {
	h.flow.HandleURL(c.Request().Context(), c.Request().URL.String())

	if h.flow.IsOpen() {
		msg := h.flow.Err()
		if msg == "" {
			msg = "sign-in did not complete"
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "signed in"})
}
