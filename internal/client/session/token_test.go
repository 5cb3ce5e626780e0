package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestTokenExpired(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"opaque token", "not-a-jwt", false},
		{"no expiry claim", signedToken(t, jwt.MapClaims{"sub": "a1"}), false},
		{"future expiry", signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}), false},
		{"past expiry", signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()}), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tokenExpired(tc.token))
		})
	}
}
