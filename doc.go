// Package authgate implements cookie-transported session authentication:
// username/password login minting signed, time-bounded JWTs carried in an
// HttpOnly cookie, verified statelessly on every request.
//
// Sessions:
//   - Codec mints and verifies HS256 tokens. Claims are built fresh per
//     login (subject, jti, issuer, audience, iat, exp) and never stored
//     server side; logout only deletes the cookie, so a captured token
//     remains valid until its expiry.
//   - CookieAdapter owns the transport envelope. The cookie's lifetime
//     always equals the token's expiry.
//
// HTTP surface:
//   - AuthController exposes /auth/register, /auth/login, /auth/auth-state,
//     and /auth/logout as a JSON API. Login failures are uniform to prevent
//     username enumeration; auth-state always resolves to one of two shapes.
//   - RouteAuthenticator.RequireSession gates arbitrary routes on a valid
//     session cookie.
//
// The guard subpackage implements the client-side route guard that polls
// auth-state before allowing a navigation.
package authgate
