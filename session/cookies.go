package session

import (
	"net/http"
	"time"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// Cookies maps session state onto the request/response boundary. The secure
// flag is tied to the production switch at construction time; everything else
// about the attribute policy is fixed by the wire contract.
type Cookies struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCookies(production bool, accessTTL, refreshTTL time.Duration) Cookies {
	return Cookies{secure: production, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (ck Cookies) WritePair(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, ck.cookie(accessCookieName, accessToken, ck.accessTTL))
	http.SetCookie(w, ck.cookie(refreshCookieName, refreshToken, ck.refreshTTL))
}

// WriteAccess sets only the access-token cookie, used on refresh.
func (ck Cookies) WriteAccess(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, ck.cookie(accessCookieName, accessToken, ck.accessTTL))
}

func (ck Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, ck.expired(accessCookieName))
	http.SetCookie(w, ck.expired(refreshCookieName))
}

func (ck Cookies) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   ck.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (ck Cookies) expired(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ck.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ReadAccess returns the access token from the inbound cookie set, if any.
func ReadAccess(r *http.Request) (string, bool) {
	return readCookie(r, accessCookieName)
}

// ReadRefresh returns the refresh token from the inbound cookie set, if any.
func ReadRefresh(r *http.Request) (string, bool) {
	return readCookie(r, refreshCookieName)
}

func readCookie(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
