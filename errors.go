package authgate

import (
	"github.com/goliatone/go-errors"
)

// ErrInvalidCredentials is the uniform failure for unknown users and bad
// passwords alike, so callers cannot enumerate usernames.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired rejects tokens past their expiry window
var ErrTokenExpired = errors.New("session token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenSignature rejects tokens whose signature does not verify
// against the current signing secret
var ErrTokenSignature = errors.New("session token signature is invalid", errors.CategoryAuth).
	WithTextCode("TOKEN_SIGNATURE").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed rejects syntactically broken token strings
var ErrTokenMalformed = errors.New("session token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenClaims rejects tokens with a wrong issuer or audience
var ErrTokenClaims = errors.New("session token claims are invalid", errors.CategoryAuth).
	WithTextCode("TOKEN_CLAIMS").
	WithCode(errors.CodeUnauthorized)

// ErrUnableToFindSession is the error when our request has no cookie
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode("SESSION_NOT_FOUND").
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession unable to decode claims from session cookie
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithTextCode("SESSION_DECODE").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is returned when a password comparison fails
var ErrMismatchedHashAndPassword = errors.New("mismatched password", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// ErrConfigSigningSecret aborts startup when the signing secret is absent
// or shorter than 128 bits
var ErrConfigSigningSecret = errors.New("signing secret must be configured and at least 128 bits", errors.CategoryInternal).
	WithTextCode("CONFIG_SIGNING_SECRET").
	WithCode(errors.CodeInternal)

func isRichError(err error, target *errors.Error) bool {
	if err == nil || target == nil {
		return false
	}

	// walk the chain, a wrapper may carry no text code of its own
	for err != nil {
		var rich *errors.Error
		if !errors.As(err, &rich) {
			return false
		}
		if rich.TextCode == target.TextCode {
			return true
		}
		err = rich.Source
	}

	return false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return isRichError(err, ErrTokenExpired)
}

// IsTokenSignatureError will check for signature verification failures
func IsTokenSignatureError(err error) bool {
	return isRichError(err, ErrTokenSignature)
}

// IsMalformedError will check for garbled token strings
func IsMalformedError(err error) bool {
	return isRichError(err, ErrTokenMalformed)
}

// IsInvalidCredentialsError will check for the uniform login failure
func IsInvalidCredentialsError(err error) bool {
	return isRichError(err, ErrInvalidCredentials)
}
