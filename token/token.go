package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind selects which secret a token is signed and verified with. Access and
// refresh tokens use distinct secrets so that compromise of one does not
// forge the other.
type Kind int

const (
	Access Kind = iota
	Refresh
)

var (
	// ErrExpired means the signature checked out but the token is past its
	// expiry. Callers may prompt a re-login.
	ErrExpired = errors.New("token expired")
	// ErrInvalidSignature means the token was tampered with, malformed, or
	// signed with the wrong secret.
	ErrInvalidSignature = errors.New("invalid token signature")
)

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Codec creates and verifies the signed tokens that carry a user identifier.
// It has no side effects and holds no per-request state.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type Option func(*Codec)

// WithNow sets the clock (for testing expiry boundaries).
func WithNow(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, opts ...Option) *Codec {
	c := &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *Codec) IssueAccessToken(userID string) (string, error) {
	return c.issue(userID, c.accessSecret, c.accessTTL)
}

func (c *Codec) IssueRefreshToken(userID string) (string, error) {
	return c.issue(userID, c.refreshSecret, c.refreshTTL)
}

func (c *Codec) issue(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := c.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// Verify checks the signature and expiry together and returns the user
// identifier carried by the token. A stale but correctly signed token fails
// with ErrExpired; anything else fails with ErrInvalidSignature.
func (c *Codec) Verify(tokenStr string, kind Kind) (string, error) {
	secret := c.accessSecret
	if kind == Refresh {
		secret = c.refreshSecret
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalidSignature
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return "", ErrInvalidSignature
	}
	return claims.UserID, nil
}
