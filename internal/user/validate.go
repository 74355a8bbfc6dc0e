package user

import (
	"errors"
	"regexp"
	"strings"
)

// Validation errors carry a specific, user-presentable reason; the caller
// shows them verbatim.
var (
	ErrEmailRequired   = errors.New("email is required")
	ErrEmailFormat     = errors.New("invalid email format")
	ErrEmailTooLong    = errors.New("email is too long")
	ErrPasswordEmpty   = errors.New("password is required")
	ErrPasswordShort   = errors.New("password must be at least 8 characters")
	ErrPasswordLong    = errors.New("password is too long (max 128 characters)")
	ErrPasswordCommon  = errors.New("this password is too common, choose a stronger one")
	ErrPasswordUpper   = errors.New("password must contain at least one uppercase letter")
	ErrPasswordLower   = errors.New("password must contain at least one lowercase letter")
	ErrPasswordDigit   = errors.New("password must contain at least one number")
	ErrPasswordSymbol  = errors.New(`password must contain at least one special character (!@#$%^&*(),.?":{}|<>)`)
	ErrNameRequired    = errors.New("full name is required")
	ErrNameTooShort    = errors.New("full name must be at least 2 characters")
	ErrNameTooLong     = errors.New("full name is too long")
	ErrNameBadChars    = errors.New("full name can only contain letters, spaces, hyphens, and apostrophes")
)

// commonPasswords is the deny-list, matched case-insensitively.
var commonPasswords = []string{
	"password", "password123", "12345678", "qwerty123", "abc123456",
	"password1", "123456789", "iloveyou", "admin123", "letmein",
}

var (
	emailRe   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	symbolRe  = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	nameRe    = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
)

func isCommonPassword(password string) bool {
	lc := strings.ToLower(password)
	for _, p := range commonPasswords {
		if lc == p {
			return true
		}
	}
	return false
}

func ValidateEmail(email string) error {
	if len(email) < 3 {
		return ErrEmailRequired
	}
	if len(email) > 254 { // RFC 5321
		return ErrEmailTooLong
	}
	if !emailRe.MatchString(email) {
		return ErrEmailFormat
	}
	return nil
}

func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrPasswordEmpty
	case len(password) < 8:
		return ErrPasswordShort
	case len(password) > 128:
		return ErrPasswordLong
	case isCommonPassword(password):
		return ErrPasswordCommon
	case !upperRe.MatchString(password):
		return ErrPasswordUpper
	case !lowerRe.MatchString(password):
		return ErrPasswordLower
	case !digitRe.MatchString(password):
		return ErrPasswordDigit
	case !symbolRe.MatchString(password):
		return ErrPasswordSymbol
	}
	return nil
}

func ValidateFullName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrNameRequired
	}
	if len(trimmed) < 2 {
		return ErrNameTooShort
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	if !nameRe.MatchString(name) {
		return ErrNameBadChars
	}
	return nil
}

// PasswordStrength scores a password 0-100 and labels it weak / medium /
// strong / very strong. Additive: length tiers at 8/12/16 chars, 15 points
// per character class, a flat penalty for deny-listed passwords.
func PasswordStrength(password string) (label string, score int) {
	if password == "" {
		return "weak", 0
	}

	if len(password) >= 8 {
		score += 20
	}
	if len(password) >= 12 {
		score += 10
	}
	if len(password) >= 16 {
		score += 10
	}

	if lowerRe.MatchString(password) {
		score += 15
	}
	if upperRe.MatchString(password) {
		score += 15
	}
	if digitRe.MatchString(password) {
		score += 15
	}
	if symbolRe.MatchString(password) {
		score += 15
	}

	if isCommonPassword(password) {
		score -= 30
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	switch {
	case score < 40:
		return "weak", score
	case score < 60:
		return "medium", score
	case score < 80:
		return "strong", score
	default:
		return "very strong", score
	}
}
