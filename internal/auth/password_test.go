package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Abc123!@", nil},
		{"Admin@123", nil},
		{"abc12345", ErrPasswordNoUpper},
		{"Ab1!", ErrPasswordTooShort},
		{"Aa1!ééé", ErrPasswordTooShort},
		{"Aa1!éééé", nil},
		{"ABCDEFG1!", ErrPasswordNoLower},
		{"Abcdefgh!", ErrPasswordNoDigit},
		{"Abcdefg12", ErrPasswordNoSymbol},
		{"Abcdefg1_", ErrPasswordNoSymbol},
		{"Abcdefg1\"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPasswordStrength(tt.password))
		})
	}
}

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("Abc123!@", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Abc123!@", hash)
	assert.NoError(t, ComparePassword(hash, "Abc123!@"))
	assert.Error(t, ComparePassword(hash, "abc123!@"))
}
