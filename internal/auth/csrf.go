package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CSRFTokens mints and checks anti-forgery tokens. A token is a signed JWT with a random
// id and an expiry, so a stale or forged cookie is rejected even when the form echoes it.
type CSRFTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCSRFTokens(secret string, ttl time.Duration) *CSRFTokens {
	return &CSRFTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (c *CSRFTokens) TTL() time.Duration { return c.ttl }

func (c *CSRFTokens) Issue() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	now := c.now()
	claims := jwt.RegisteredClaims{
		ID:        base64.RawURLEncoding.EncodeToString(nonce),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Valid reports whether token was signed by us and has not expired.
func (c *CSRFTokens) Valid(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	return err == nil && parsed.Valid && claims.ID != ""
}
