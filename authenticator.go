package authgate

import (
	"context"
	"reflect"
)

// Auther composes the identity provider and the token codec into the
// login and session-check operations. It holds no per-request state; one
// instance serves any number of concurrent requests.
type Auther struct {
	provider IdentityProvider
	codec    TokenCodec
	verifier TokenVerifier
	logger   Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(provider IdentityProvider, cfg Config) *Auther {
	codec := NewTokenCodec(cfg)

	return &Auther{
		provider: provider,
		codec:    codec,
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenCodec overrides the codec, mostly useful to inject a clock in tests.
func (s *Auther) WithTokenCodec(codec TokenCodec) *Auther {
	if codec != nil {
		s.codec = codec
	}
	return s
}

// WithTokenVerifier sets a custom verifier, e.g. a ChainVerifier carrying
// previous signing secrets during a rotation.
func (s *Auther) WithTokenVerifier(verifier TokenVerifier) *Auther {
	s.verifier = verifier
	return s
}

// Codec returns the TokenCodec instance used by this Auther
func (s *Auther) Codec() TokenCodec {
	return s.codec
}

// Login verifies the credentials and mints a signed session token. The
// returned claims carry the expiry the cookie must mirror. Failure is the
// uniform ErrInvalidCredentials regardless of cause.
func (s *Auther) Login(ctx context.Context, username, password string) (string, *SessionClaims, error) {
	identity, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Info("login rejected for %s: %v", username, err)
		return "", nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("login identity is nil or zero value")
		return "", nil, ErrInvalidCredentials
	}

	claims := s.codec.NewClaims(identity.Username())

	token, err := s.codec.Mint(claims)
	if err != nil {
		s.logger.Error("login failed to mint token: %v", err)
		return "", nil, err
	}

	return token, claims, nil
}

// SessionFromToken verifies a raw token and projects its claims. Rejection
// reasons (expired, bad signature, malformed) stay distinct here and are
// collapsed to unauthenticated by the HTTP layer.
func (s *Auther) SessionFromToken(raw string) (*SessionObject, error) {
	verifier := s.verifier
	if verifier == nil {
		verifier = s.codec
	}

	claims, err := verifier.Verify(raw)
	if err != nil {
		s.logger.Debug("session token rejected: %v", err)
		return nil, err
	}

	session, err := sessionFromClaims(claims)
	if err != nil {
		s.logger.Error("failed to create session from claims: %v", err)
		return nil, err
	}

	return session, nil
}

var _ Authenticator = (*Auther)(nil)
