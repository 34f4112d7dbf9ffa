package authgate

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// Codec implements TokenCodec using HMAC signed JWTs. The signing key is
// read once at construction and never mutated afterwards, so a single
// instance is safe for concurrent use.
type Codec struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
	now        func() time.Time
}

type CodecOption func(*Codec)

// WithCodecClock injects a custom clock (useful for tests)
func WithCodecClock(clock func() time.Time) CodecOption {
	return func(c *Codec) {
		if clock != nil {
			c.now = clock
		}
	}
}

func WithCodecLogger(logger Logger) CodecOption {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewTokenCodec creates a new Codec from configuration
func NewTokenCodec(cfg Config, opts ...CodecOption) *Codec {
	c := &Codec{
		signingKey: []byte(cfg.GetSigningKey()),
		ttl:        cfg.GetTokenExpiration(),
		issuer:     cfg.GetIssuer(),
		audience:   cfg.GetAudience(),
		logger:     defLogger{},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// NewClaims builds a fresh claims set for subject using codec defaults:
// issuer, audience, and expiry at now + TTL
func (c *Codec) NewClaims(subject string) *SessionClaims {
	return newSessionClaims(subject, c.issuer, c.audience, c.now(), c.ttl)
}

// Mint signs the claims set with the configured symmetric secret
func (c *Codec) Mint(claims *SessionClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign session token")
	}

	return signed, nil
}

// Verify parses and validates a raw token string, checking in order:
// signature, issuer, audience, expiry. Rejection reasons stay distinct for
// logging; callers collapse them to a single unauthenticated outcome at the
// HTTP boundary.
func (c *Codec) Verify(raw string) (*SessionClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 3)
	parserOptions = append(parserOptions, jwt.WithTimeFunc(c.now))
	if c.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(c.issuer))
	}
	if len(c.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(c.audience...))
	}

	token, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			c.logger.Error("codec verify encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.signingKey, nil
	}, parserOptions...)

	if err != nil {
		return nil, c.rejectionError(err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		c.logger.Error("codec verify could not decode claims")
		return nil, ErrUnableToDecodeSession
	}

	return claims, nil
}

func (c *Codec) rejectionError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return errors.Wrap(err, ErrTokenSignature.Category, ErrTokenSignature.Message).
			WithTextCode(ErrTokenSignature.TextCode).
			WithCode(ErrTokenSignature.Code)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return errors.Wrap(err, ErrTokenClaims.Category, ErrTokenClaims.Message).
			WithTextCode(ErrTokenClaims.TextCode).
			WithCode(ErrTokenClaims.Code)
	default:
		return errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(ErrTokenMalformed.Code)
	}
}

var _ TokenCodec = (*Codec)(nil)
