package authflow

import (
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
)

// ResetTokenFromURL extracts a password-reset token from a return URL.
// Both forms the backend emits are accepted: a ?token= query parameter and
// a /reset-password/<token> path segment. Empty string means no token.
func ResetTokenFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	if token := u.Query().Get("token"); token != "" {
		return token
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "reset-password" && i+1 < len(segments) && segments[i+1] != "" {
			return segments[i+1]
		}
	}
	return ""
}

// IsGoogleReturn reports whether the URL is the OAuth return leg.
func IsGoogleReturn(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Query().Get("google_auth") == "success"
}

// StripQueryParam removes one query parameter from a URL, mirroring the
// browser client's history rewrite after the OAuth return.
func StripQueryParam(raw, key string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Del(key)
	u.RawQuery = q.Encode()
	return u.String()
}

// precheckResetToken rejects a token locally when it is a JWT whose expiry
// has already passed, saving the server round-trip. Opaque tokens and JWTs
// without an exp claim pass through; the server check stays authoritative.
func precheckResetToken(token string, now time.Time) error {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil // not a JWT, let the server decide
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(now) {
		return domain.ErrInvalidToken
	}
	return nil
}
