package authgate

import (
	"net/http"

	"github.com/goliatone/go-router"
)

// RouteAuthenticator binds the Auther to the HTTP transport: it moves
// tokens in and out of the session cookie and gates protected routes.
type RouteAuthenticator struct {
	auth    Authenticator
	cfg     Config
	cookies *CookieAdapter
	Logger  Logger
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	return &RouteAuthenticator{
		auth:    auther,
		cfg:     cfg,
		cookies: NewCookieAdapter(cfg),
		Logger:  defLogger{},
	}, nil
}

func (a *RouteAuthenticator) WithLogger(l Logger) *RouteAuthenticator {
	if l != nil {
		a.Logger = l
	}
	return a
}

func (a *RouteAuthenticator) Cookies() *CookieAdapter {
	return a.cookies
}

// Login verifies credentials and, on success, attaches the session cookie.
// The cookie expiry is taken from the minted claims so the two lifetimes
// cannot drift apart. The token is never exposed in the response body.
func (a *RouteAuthenticator) Login(ctx router.Context, username, password string) error {
	token, claims, err := a.auth.Login(ctx.Context(), username, password)
	if err != nil {
		return err
	}

	a.cookies.Attach(ctx, token, claims.Expires())
	return nil
}

// Logout clears the session cookie unconditionally. There is no server-side
// token invalidation: a captured token stays valid until it expires.
func (a *RouteAuthenticator) Logout(ctx router.Context) {
	a.cookies.Clear(ctx)
}

// SessionFromRequest reads the session cookie and verifies its token. A
// missing cookie yields ErrUnableToFindSession, which callers treat as the
// ordinary unauthenticated outcome.
func (a *RouteAuthenticator) SessionFromRequest(ctx router.Context) (*SessionObject, error) {
	raw, ok := a.cookies.Read(ctx)
	if !ok {
		return nil, ErrUnableToFindSession
	}

	return a.auth.SessionFromToken(raw)
}

// RequireSession gates a route on a verified session cookie. The session is
// stored in Locals under the cookie name for downstream handlers; any
// rejection collapses to a single 401 shape.
func (a *RouteAuthenticator) RequireSession() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			session, err := a.SessionFromRequest(ctx)
			if err != nil {
				a.Logger.Debug("session rejected on %s: %v", ctx.Path(), err)
				return ctx.JSON(http.StatusUnauthorized, map[string]any{
					"authenticated": false,
				})
			}

			ctx.Locals(a.cookies.Name(), session)
			return next(ctx)
		}
	}
}

var _ Middleware = (*RouteAuthenticator)(nil)

// GetRouterSession retrieves the session a RequireSession middleware stored
// in the request Locals.
func GetRouterSession(c router.Context, key string) (*SessionObject, error) {
	val := c.Locals(key)
	if val == nil {
		return nil, ErrUnableToFindSession
	}

	session, ok := val.(*SessionObject)
	if session == nil || !ok {
		return nil, ErrUnableToDecodeSession
	}

	return session, nil
}
