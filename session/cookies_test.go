package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dubeyRahul26/flexcart/session"
)

func recordedCookies(t *testing.T, write func(w http.ResponseWriter)) map[string]*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	write(rec)

	out := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestWritePairAttributes(t *testing.T) {
	ck := session.NewCookies(false, 15*time.Minute, 7*24*time.Hour)

	cookies := recordedCookies(t, func(w http.ResponseWriter) {
		ck.WritePair(w, "the-access-token", "the-refresh-token")
	})
	require.Len(t, cookies, 2)

	access := cookies["accessToken"]
	require.NotNil(t, access)
	require.Equal(t, "the-access-token", access.Value)
	require.Equal(t, 900, access.MaxAge)

	refresh := cookies["refreshToken"]
	require.NotNil(t, refresh)
	require.Equal(t, "the-refresh-token", refresh.Value)
	require.Equal(t, 604800, refresh.MaxAge)

	for _, c := range cookies {
		require.True(t, c.HttpOnly)
		require.False(t, c.Secure)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
		require.Equal(t, "/", c.Path)
	}
}

func TestSecureFlagInProduction(t *testing.T) {
	ck := session.NewCookies(true, 15*time.Minute, 7*24*time.Hour)

	cookies := recordedCookies(t, func(w http.ResponseWriter) {
		ck.WritePair(w, "a", "r")
	})
	for _, c := range cookies {
		require.True(t, c.Secure)
	}
}

func TestWriteAccessOnly(t *testing.T) {
	ck := session.NewCookies(false, 15*time.Minute, 7*24*time.Hour)

	cookies := recordedCookies(t, func(w http.ResponseWriter) {
		ck.WriteAccess(w, "fresh-access-token")
	})
	require.Len(t, cookies, 1)
	require.Equal(t, "fresh-access-token", cookies["accessToken"].Value)
}

func TestClearExpiresBothSlots(t *testing.T) {
	ck := session.NewCookies(false, 15*time.Minute, 7*24*time.Hour)

	cookies := recordedCookies(t, func(w http.ResponseWriter) {
		ck.Clear(w)
	})
	require.Len(t, cookies, 2)
	for _, name := range []string{"accessToken", "refreshToken"} {
		c := cookies[name]
		require.NotNil(t, c)
		require.Empty(t, c.Value)
		require.Negative(t, c.MaxAge)
	}
}

func TestReadTokensFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := session.ReadAccess(r)
	require.False(t, ok)
	_, ok = session.ReadRefresh(r)
	require.False(t, ok)

	r.AddCookie(&http.Cookie{Name: "accessToken", Value: "a-token"})
	r.AddCookie(&http.Cookie{Name: "refreshToken", Value: "r-token"})

	access, ok := session.ReadAccess(r)
	require.True(t, ok)
	require.Equal(t, "a-token", access)

	refresh, ok := session.ReadRefresh(r)
	require.True(t, ok)
	require.Equal(t, "r-token", refresh)
}
