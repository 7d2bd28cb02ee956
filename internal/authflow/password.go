package authflow

import (
	"unicode"

	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
)

const minPasswordLength = 8

// ValidateNewPassword enforces the platform's minimum password rule: at
// least 8 characters with at least one letter and one digit.
func ValidateNewPassword(password string) error {
	if len(password) < minPasswordLength {
		return domain.ErrWeakPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return domain.ErrWeakPassword
	}
	return nil
}

// ValidatePasswordPair checks the new password and its confirmation field.
func ValidatePasswordPair(password, confirm string) error {
	if err := ValidateNewPassword(password); err != nil {
		return err
	}
	if password != confirm {
		return domain.ErrPasswordMismatch
	}
	return nil
}
