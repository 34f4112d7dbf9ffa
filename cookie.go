package authgate

import (
	"time"

	"github.com/goliatone/go-router"
)

// DefaultCookieName is the session cookie carrying the signed token.
const DefaultCookieName = "jwt"

// CookieAdapter maps a session token to and from the HTTP cookie that
// transports it. The cookie's lifetime always mirrors the token's expiry,
// the two must never drift apart.
type CookieAdapter struct {
	name   string
	secure bool
}

// NewCookieAdapter builds an adapter from configuration. The cookie name
// comes from GetContextKey, the Secure flag from GetSecureCookie.
func NewCookieAdapter(cfg Config) *CookieAdapter {
	name := cfg.GetContextKey()
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieAdapter{
		name:   name,
		secure: cfg.GetSecureCookie(),
	}
}

func (a *CookieAdapter) Name() string {
	return a.name
}

// Attach sets the session cookie on the response. expires must be the
// claims' expiry so the browser drops the cookie the moment the token
// stops verifying.
func (a *CookieAdapter) Attach(c router.Context, token string, expires time.Time) {
	c.Cookie(&router.Cookie{
		Name:     a.name,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   a.secure,
		SameSite: "Strict",
	})
}

// Read extracts the raw token from the request cookie, reporting absence
// rather than treating it as an error.
func (a *CookieAdapter) Read(c router.Context) (string, bool) {
	raw := c.Cookies(a.name)
	return raw, raw != ""
}

// Clear issues a cookie deletion: empty value, expiry in the past. Logout
// is purely a cookie operation, the codec is never involved.
func (a *CookieAdapter) Clear(c router.Context) {
	c.Cookie(&router.Cookie{
		Name:     a.name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   a.secure,
		SameSite: "Strict",
	})
}
