package authgate

import (
	"fmt"
	"time"
)

// SessionObject is the serializable projection of a verified claims set. It
// is what handlers see after a token passes verification; the raw token
// never leaves the cookie.
type SessionObject struct {
	Username       string     `json:"username,omitempty"`
	TokenID        string     `json:"token_id,omitempty"`
	Issuer         string     `json:"issuer,omitempty"`
	Audience       []string   `json:"audience,omitempty"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

func (s *SessionObject) GetUsername() string {
	return s.Username
}

func (s *SessionObject) GetTokenID() string {
	return s.TokenID
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s jti=%s iss=%s aud=%v iat=%s",
		s.Username,
		s.TokenID,
		s.Issuer,
		s.Audience,
		issuedAt,
	)
}

// sessionFromClaims creates a SessionObject from a verified claims set
func sessionFromClaims(claims *SessionClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrUnableToDecodeSession
	}

	var audience []string
	for _, aud := range claims.RegisteredClaims.Audience {
		audience = append(audience, aud)
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	return &SessionObject{
		Username:       claims.Subject(),
		TokenID:        claims.TokenID(),
		Issuer:         claims.RegisteredClaims.Issuer,
		Audience:       audience,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}, nil
}
