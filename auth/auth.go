// Package auth issues and verifies the owner-facing bearer tokens and
// hashes account passwords.
package auth

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserIDClaim is the JWT claim carrying the account identifier.
const UserIDClaim = "userId"

type Tokens struct {
	ja  *jwtauth.JWTAuth
	ttl time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{
		ja:  jwtauth.New("HS256", []byte(secret), nil),
		ttl: ttl,
	}
}

// Issue signs a token for the given account.
func (t *Tokens) Issue(userID string) (string, error) {
	claims := map[string]any{UserIDClaim: userID}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, t.ttl)

	_, token, err := t.ja.Encode(claims)
	return token, err
}

// Auth exposes the underlying verifier for middleware wiring.
func (t *Tokens) Auth() *jwtauth.JWTAuth {
	return t.ja
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func CheckPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
