// Package testutil holds helpers shared by the HTTP-level tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TestSecret = "test-secret-key-for-testing-only"

// SignToken returns an HS256 token for userID that expires in 24 hours.
func SignToken(t testing.TB, secret, userID string) string {
	t.Helper()
	return SignClaims(t, secret, jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
}

func SignClaims(t testing.TB, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func BearerHeader(token string) string {
	return fmt.Sprintf("Bearer %s", token)
}
