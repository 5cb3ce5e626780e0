package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether the stored credential is a JWT whose expiry
// already passed. The signature is not verified — the server remains the
// authority — this only avoids a doomed network round-trip at startup.
// Tokens that do not parse as JWTs or carry no expiry are left for the
// server to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
