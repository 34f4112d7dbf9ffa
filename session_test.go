package authgate_test

import (
	"testing"
	"time"

	authgate "github.com/goliatone/go-authgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFromToken_Projection(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	codec := authgate.NewTokenCodec(testConfig(), authgate.WithCodecClock(func() time.Time {
		return now
	}))

	claims := codec.NewClaims("peperone")
	token, err := codec.Mint(claims)
	require.NoError(t, err)

	decoded, err := codec.Verify(token)
	require.NoError(t, err)

	t.Run("claims accessors", func(t *testing.T) {
		assert.Equal(t, "peperone", decoded.Subject())
		assert.Equal(t, claims.TokenID(), decoded.TokenID())
		assert.Equal(t, now, decoded.IssuedAt())
		assert.Equal(t, now.Add(30*time.Minute), decoded.Expires())
	})
}

func TestSessionObject_String(t *testing.T) {
	issued := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	session := authgate.SessionObject{
		Username: "peperone",
		TokenID:  "tok-1",
		Issuer:   "test-issuer",
		Audience: []string{"test-audience"},
		IssuedAt: &issued,
	}

	out := session.String()
	assert.Contains(t, out, "user=peperone")
	assert.Contains(t, out, "jti=tok-1")
	assert.Contains(t, out, "iss=test-issuer")
}

func TestGetRouterSession(t *testing.T) {
	t.Run("missing locals entry", func(t *testing.T) {
		ctx := &MockContext{}
		ctx.On("Locals", "jwt").Return(nil)

		_, err := authgate.GetRouterSession(ctx, "jwt")
		assert.ErrorIs(t, err, authgate.ErrUnableToFindSession)
	})

	t.Run("wrong type in locals", func(t *testing.T) {
		ctx := &MockContext{}
		ctx.On("Locals", "jwt").Return("not-a-session")

		_, err := authgate.GetRouterSession(ctx, "jwt")
		assert.ErrorIs(t, err, authgate.ErrUnableToDecodeSession)
	})

	t.Run("session present", func(t *testing.T) {
		want := &authgate.SessionObject{Username: "peperone"}

		ctx := &MockContext{}
		ctx.On("Locals", "jwt").Return(want)

		session, err := authgate.GetRouterSession(ctx, "jwt")
		require.NoError(t, err)
		assert.Equal(t, want, session)
	})
}
