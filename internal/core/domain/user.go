package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Role is the platform role carried on a user profile.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleOrganizer Role = "ORGANIZER"
	RoleAttendee  Role = "ATTENDEE"
	RoleSecurity  Role = "SECURITY"
)

// ParseRole maps a wire value to a known Role. Matching is case-insensitive
// because older backend builds emitted lowercase roles.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleOrganizer:
		return RoleOrganizer, true
	case RoleAttendee:
		return RoleAttendee, true
	case RoleSecurity:
		return RoleSecurity, true
	}
	return "", false
}

// User models the authenticated account as seen by the client. It is a
// read-through cache of the backend's user record, never persisted locally.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Valid reports whether the user carries the fields a session may rely on.
func (u *User) Valid() bool {
	if u == nil {
		return false
	}
	_, ok := ParseRole(string(u.Role))
	return u.Email != "" && ok
}

// NormalizeUser converts a raw profile payload into a canonical User. The
// backend is inconsistent about field names across endpoints, so aliases are
// accepted: id|user_id, name|full_name|username, phone_number|phone.
//
// A payload missing email or carrying an unknown role is rejected with
// ErrProfileIncomplete; a partially populated User is never returned.
func NormalizeUser(raw map[string]any) (*User, error) {
	if raw == nil {
		return nil, fmt.Errorf("normalize user: empty payload: %w", ErrProfileIncomplete)
	}

	email := stringField(raw, "email")
	if email == "" {
		return nil, fmt.Errorf("normalize user: missing email: %w", ErrProfileIncomplete)
	}

	role, ok := ParseRole(stringField(raw, "role"))
	if !ok {
		return nil, fmt.Errorf("normalize user: missing or unknown role: %w", ErrProfileIncomplete)
	}

	return &User{
		ID:          stringField(raw, "id", "user_id"),
		Name:        stringField(raw, "name", "full_name", "username"),
		Email:       email,
		Role:        role,
		PhoneNumber: stringField(raw, "phone_number", "phone"),
	}, nil
}

// stringField returns the first non-empty value among the named keys.
// Numeric IDs are rendered in decimal; other types are ignored.
func stringField(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatInt(int64(v), 10)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}
