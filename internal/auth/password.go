package auth

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// PasswordSymbols lists the punctuation accepted as a password symbol.
const PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

const minPasswordLength = 8

// Password policy violations, reported in rule order.
var (
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters long.")
	ErrPasswordNoUpper  = errors.New("Password must contain at least one uppercase letter (A-Z).")
	ErrPasswordNoLower  = errors.New("Password must contain at least one lowercase letter (a-z).")
	ErrPasswordNoDigit  = errors.New("Password must contain at least one number (0-9).")
	ErrPasswordNoSymbol = errors.New(`Password must contain at least one special character (!@#$%^&*(),.?":{}|<>).`)
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// CheckPasswordStrength returns the first policy rule password breaks.
func CheckPasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	switch {
	case !upper:
		return ErrPasswordNoUpper
	case !lower:
		return ErrPasswordNoLower
	case !digit:
		return ErrPasswordNoDigit
	case !symbol:
		return ErrPasswordNoSymbol
	}
	return nil
}
