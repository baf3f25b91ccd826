package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dubeyRahul26/flexcart/cache"
	"github.com/dubeyRahul26/flexcart/session"
	"github.com/dubeyRahul26/flexcart/token"
)

func newTestManager(t *testing.T) (*session.Manager, *token.Codec) {
	t.Helper()
	codec := token.NewCodec("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return session.NewManager(codec, cache.NewMemory()), codec
}

func TestCreateThenRefresh(t *testing.T) {
	ctx := context.Background()
	m, codec := newTestManager(t)

	_, refresh, err := m.Create(ctx, "user-1")
	require.NoError(t, err)

	access, err := m.Refresh(ctx, refresh)
	require.NoError(t, err)

	userID, err := codec.Verify(access, token.Access)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestRefreshWithoutToken(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Refresh(context.Background(), "")
	require.ErrorIs(t, err, session.ErrNoToken)
}

func TestRefreshWithGarbageToken(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Refresh(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestRefreshWithoutSession(t *testing.T) {
	ctx := context.Background()
	m, codec := newTestManager(t)

	// Correctly signed, but never persisted to the cache.
	refresh, err := codec.IssueRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.Refresh(ctx, refresh)
	require.ErrorIs(t, err, session.ErrSessionMismatch)
}

func TestSecondLoginRotatesSession(t *testing.T) {
	ctx := context.Background()

	// jwt timestamps have second precision; two logins in the same second
	// would produce byte-identical tokens, so drive the clock explicitly.
	now := time.Unix(1700000000, 0)
	codec := token.NewCodec("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour,
		token.WithNow(func() time.Time { return now }))
	m := session.NewManager(codec, cache.NewMemory())

	_, first, err := m.Create(ctx, "user-1")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, second, err := m.Create(ctx, "user-1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = m.Refresh(ctx, first)
	require.ErrorIs(t, err, session.ErrSessionMismatch)

	_, err = m.Refresh(ctx, second)
	require.NoError(t, err)
}

func TestDestroyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	_, refresh, err := m.Create(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, "user-1"))
	require.NoError(t, m.Destroy(ctx, "user-1"))

	_, err = m.Refresh(ctx, refresh)
	require.ErrorIs(t, err, session.ErrSessionMismatch)
}

type failingCache struct {
	err error
}

func (f failingCache) Get(context.Context, string) (string, error)               { return "", f.err }
func (f failingCache) Set(context.Context, string, string, time.Duration) error { return f.err }
func (f failingCache) Del(context.Context, string) error                        { return f.err }

func TestCreateFailsWhenCacheWriteFails(t *testing.T) {
	codec := token.NewCodec("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	m := session.NewManager(codec, failingCache{err: errors.New("connection refused")})

	_, _, err := m.Create(context.Background(), "user-1")
	require.Error(t, err)
}

func TestRefreshSurfacesCacheFailure(t *testing.T) {
	cacheErr := errors.New("connection refused")
	codec := token.NewCodec("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	m := session.NewManager(codec, failingCache{err: cacheErr})

	refresh, err := codec.IssueRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.Refresh(context.Background(), refresh)
	require.ErrorIs(t, err, cacheErr)
	require.NotErrorIs(t, err, session.ErrSessionMismatch)
}
