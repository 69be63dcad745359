package gamestart

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)

	return token
}

// TestTokenExpiry tests reading exp from JWT and opaque tokens.
func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	expiresAt := time.Date(2030, time.January, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		token    string
		expected time.Time
		found    bool
	}{
		{
			name:     "jwt with exp",
			token:    signTestToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)}),
			expected: expiresAt,
			found:    true,
		},
		{
			name:  "jwt without exp",
			token: signTestToken(t, jwt.RegisteredClaims{Subject: "42"}),
		},
		{
			name:  "opaque token",
			token: "abc",
		},
		{
			name:  "empty token",
			token: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			expiry, found := TokenExpiry(tt.token)

			assert.Equal(t, tt.found, found)
			assert.True(t, tt.expected.Equal(expiry), "expected %v, got %v", tt.expected, expiry)
		})
	}
}
