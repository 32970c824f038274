package password

import (
	"errors"
	"unicode"
)

var (
	// ErrTooShort is an exported constant or variable used by the authentication engine.
	ErrTooShort = errors.New("password is too short")
	// ErrTooLong is an exported constant or variable used by the authentication engine.
	ErrTooLong = errors.New("password is too long")
	// ErrMissingUpper is an exported constant or variable used by the authentication engine.
	ErrMissingUpper = errors.New("password must contain an uppercase letter")
	// ErrMissingLower is an exported constant or variable used by the authentication engine.
	ErrMissingLower = errors.New("password must contain a lowercase letter")
	// ErrMissingDigit is an exported constant or variable used by the authentication engine.
	ErrMissingDigit = errors.New("password must contain a digit")
)

// ValidatePolicy enforces the fixed character-class password rules:
// length bounds plus at least one uppercase letter, one lowercase
// letter, and one digit. There is no strength scoring beyond these
// rules.
func ValidatePolicy(password string, minLength, maxLength int) error {
	if len(password) < minLength {
		return ErrTooShort
	}
	if maxLength > 0 && len(password) > maxLength {
		return ErrTooLong
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		return ErrMissingUpper
	}
	if !hasLower {
		return ErrMissingLower
	}
	if !hasDigit {
		return ErrMissingDigit
	}

	return nil
}
