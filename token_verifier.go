package authgate

// TokenVerifierFunc adapts a function into a TokenVerifier.
type TokenVerifierFunc func(token string) (*SessionClaims, error)

// Verify satisfies the TokenVerifier interface.
func (f TokenVerifierFunc) Verify(token string) (*SessionClaims, error) {
	if f == nil {
		return nil, ErrUnableToDecodeSession
	}
	return f(token)
}

// ChainVerifier tries verifiers in order until one accepts the token. A
// signature failure means "try the next secret", which lets a deployment
// stage a signing secret rotation: tokens minted under the previous secret
// keep verifying until they expire. Expiry and claim mismatches fail fast
// since no other secret can fix them.
type ChainVerifier struct {
	verifiers []TokenVerifier
}

// NewChainVerifier filters nil verifiers and returns a composite verifier.
func NewChainVerifier(verifiers ...TokenVerifier) *ChainVerifier {
	filtered := make([]TokenVerifier, 0, len(verifiers))
	for _, v := range verifiers {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	return &ChainVerifier{verifiers: filtered}
}

// Verify satisfies the TokenVerifier interface.
func (m *ChainVerifier) Verify(token string) (*SessionClaims, error) {
	var lastErr error
	for _, v := range m.verifiers {
		claims, err := v.Verify(token)
		if err == nil {
			return claims, nil
		}
		if IsTokenSignatureError(err) || IsMalformedError(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrTokenSignature
}
