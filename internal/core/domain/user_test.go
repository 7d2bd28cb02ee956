package domain

import (
	"errors"
	"testing"
)

func TestNormalizeUser_Aliases(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want User
	}{
		{
			name: "canonical fields",
			raw:  map[string]any{"id": "u1", "name": "Jane Doe", "email": "jane@x.com", "role": "ATTENDEE"},
			want: User{ID: "u1", Name: "Jane Doe", Email: "jane@x.com", Role: RoleAttendee},
		},
		{
			name: "aliased fields",
			raw:  map[string]any{"user_id": "u2", "full_name": "Bob", "email": "bob@x.com", "role": "ORGANIZER", "phone": "0712345678"},
			want: User{ID: "u2", Name: "Bob", Email: "bob@x.com", Role: RoleOrganizer, PhoneNumber: "0712345678"},
		},
		{
			name: "username fallback and numeric id",
			raw:  map[string]any{"id": float64(42), "username": "carol", "email": "carol@x.com", "role": "admin"},
			want: User{ID: "42", Name: "carol", Email: "carol@x.com", Role: RoleAdmin},
		},
		{
			name: "name preferred over username",
			raw:  map[string]any{"name": "Dave", "username": "dave99", "email": "dave@x.com", "role": "SECURITY"},
			want: User{Name: "Dave", Email: "dave@x.com", Role: RoleSecurity},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeUser(tt.raw)
			if err != nil {
				t.Fatalf("NormalizeUser returned error: %v", err)
			}
			if *got != tt.want {
				t.Fatalf("unexpected user: got %+v want %+v", *got, tt.want)
			}
		})
	}
}

func TestNormalizeUser_Incomplete(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"nil payload", nil},
		{"missing email", map[string]any{"id": "u1", "name": "x", "role": "ADMIN"}},
		{"blank email", map[string]any{"email": "   ", "role": "ADMIN"}},
		{"missing role", map[string]any{"email": "a@x.com"}},
		{"unknown role", map[string]any{"email": "a@x.com", "role": "SUPERUSER"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeUser(tt.raw)
			if !errors.Is(err, ErrProfileIncomplete) {
				t.Fatalf("expected ErrProfileIncomplete, got %v", err)
			}
			if got != nil {
				t.Fatalf("expected nil user on incomplete payload, got %+v", got)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" organizer "); !ok || r != RoleOrganizer {
		t.Fatalf("expected ORGANIZER, got %q ok=%v", r, ok)
	}
	if _, ok := ParseRole("guest"); ok {
		t.Fatalf("expected unknown role to be rejected")
	}
}

func TestUserValid(t *testing.T) {
	var nilUser *User
	if nilUser.Valid() {
		t.Fatalf("nil user must not be valid")
	}
	if (&User{Email: "a@x.com"}).Valid() {
		t.Fatalf("user without role must not be valid")
	}
	if !(&User{Email: "a@x.com", Role: RoleAttendee}).Valid() {
		t.Fatalf("user with email and role must be valid")
	}
}
