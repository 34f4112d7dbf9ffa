package authgate_test

import (
	"context"
	"testing"
	"time"

	authgate "github.com/goliatone/go-authgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a token whose subject is the username", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "peperone", "super-secret").
			Return(TestIdentity{id: "u-1", username: "peperone", email: "p@example.com"}, nil)

		auther := authgate.NewAuthenticator(provider, testConfig())

		token, claims, err := auther.Login(ctx, "peperone", "super-secret")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.NotNil(t, claims)

		assert.Equal(t, "peperone", claims.Subject())
		assert.NotEmpty(t, claims.TokenID())

		decoded, err := auther.Codec().Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "peperone", decoded.Subject())
	})

	t.Run("claims expiry is issue time plus the configured TTL", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "peperone", "super-secret").
			Return(TestIdentity{username: "peperone"}, nil)

		now := time.Now().Truncate(time.Second)
		auther := authgate.NewAuthenticator(provider, testConfig()).
			WithTokenCodec(authgate.NewTokenCodec(testConfig(), authgate.WithCodecClock(func() time.Time {
				return now
			})))

		_, claims, err := auther.Login(ctx, "peperone", "super-secret")
		require.NoError(t, err)
		assert.Equal(t, now.Add(30*time.Minute), claims.Expires())
	})

	t.Run("provider rejection passes through unchanged", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, mock.Anything, mock.Anything).
			Return(nil, authgate.ErrInvalidCredentials)

		auther := authgate.NewAuthenticator(provider, testConfig())

		_, _, err := auther.Login(ctx, "peperone", "wrong")
		require.Error(t, err)
		assert.True(t, authgate.IsInvalidCredentialsError(err))
	})

	t.Run("nil identity with no error still rejects", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, mock.Anything, mock.Anything).
			Return(nil, nil)

		auther := authgate.NewAuthenticator(provider, testConfig())

		_, _, err := auther.Login(ctx, "peperone", "super-secret")
		require.Error(t, err)
		assert.True(t, authgate.IsInvalidCredentialsError(err))
	})
}

func TestAuther_SessionFromToken(t *testing.T) {
	ctx := context.Background()

	newAuther := func(t *testing.T) (*authgate.Auther, string) {
		t.Helper()

		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "peperone", "super-secret").
			Return(TestIdentity{username: "peperone"}, nil)

		auther := authgate.NewAuthenticator(provider, testConfig())

		token, _, err := auther.Login(ctx, "peperone", "super-secret")
		require.NoError(t, err)

		return auther, token
	}

	t.Run("projects verified claims into a session", func(t *testing.T) {
		auther, token := newAuther(t)

		session, err := auther.SessionFromToken(token)
		require.NoError(t, err)

		assert.Equal(t, "peperone", session.Username)
		assert.NotEmpty(t, session.TokenID)
		require.NotNil(t, session.ExpirationDate)
		assert.True(t, session.ExpirationDate.After(time.Now()))
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		auther, _ := newAuther(t)

		_, err := auther.SessionFromToken("garbage")
		assert.Error(t, err)
	})

	t.Run("uses the injected verifier when present", func(t *testing.T) {
		auther, token := newAuther(t)

		oldCfg := testConfig()
		oldCfg.SigningKey = "retired-secret-retired-secret-32"
		rotated := authgate.NewChainVerifier(
			authgate.NewTokenCodec(oldCfg),
			auther.Codec(),
		)
		auther.WithTokenVerifier(rotated)

		session, err := auther.SessionFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, "peperone", session.Username)
	})
}
