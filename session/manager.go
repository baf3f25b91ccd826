package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dubeyRahul26/flexcart/token"
)

var (
	ErrNoToken         = errors.New("no refresh token provided")
	ErrInvalidToken    = errors.New("invalid refresh token")
	ErrSessionMismatch = errors.New("refresh token does not match active session")
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache is the key-value store holding the single currently valid refresh
// token per user. Implementations must apply the given TTL on Set and treat
// Del of a missing key as a no-op.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

func cacheKey(userID string) string {
	return "refresh_token:" + userID
}

// Manager orchestrates token issuance, refresh-token persistence and
// revocation. The cache's current value is the single source of truth for
// whether a refresh token is still valid; nothing is held in memory between
// calls.
type Manager struct {
	codec *token.Codec
	cache Cache
}

func NewManager(codec *token.Codec, cache Cache) *Manager {
	return &Manager{codec: codec, cache: cache}
}

// Create issues a new token pair and persists the refresh token under the
// user's key, overwriting any prior session. A second login therefore
// silently invalidates the first browser's refresh token; last write wins.
// The cache write must succeed before the pair is returned.
func (m *Manager) Create(ctx context.Context, userID string) (accessToken, refreshToken string, err error) {
	accessToken, err = m.codec.IssueAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err = m.codec.IssueRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}

	if err := m.cache.Set(ctx, cacheKey(userID), refreshToken, m.codec.RefreshTTL()); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

// Refresh re-validates a refresh token against the cache and issues a fresh
// access token. The refresh token itself is not rotated on this path.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrNoToken
	}

	userID, err := m.codec.Verify(refreshToken, token.Refresh)
	if err != nil {
		return "", ErrInvalidToken
	}

	stored, err := m.cache.Get(ctx, cacheKey(userID))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return "", ErrSessionMismatch
		}
		return "", fmt.Errorf("load stored refresh token: %w", err)
	}
	// A stored token that differs from the presented one means the session
	// was rotated by a later login; the old token is replayed or stolen.
	if stored != refreshToken {
		return "", ErrSessionMismatch
	}

	accessToken, err := m.codec.IssueAccessToken(userID)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

// Destroy deletes the user's session entry. Absence is not an error.
func (m *Manager) Destroy(ctx context.Context, userID string) error {
	if err := m.cache.Del(ctx, cacheKey(userID)); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
