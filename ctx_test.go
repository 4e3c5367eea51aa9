package auth

import (
	"context"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	identity := tokenIdentity{
		userID:   "user-1",
		username: "pmorales",
		tokenID:  "token-1",
	}

	ctx := WithContext(context.Background(), identity)

	found, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-1", found.UserID())
	assert.Equal(t, "pmorales", found.Username())
	assert.Equal(t, "token-1", found.TokenID())
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}

func TestGetRouterIdentity(t *testing.T) {
	identity := tokenIdentity{userID: "user-1", username: "pmorales", tokenID: "token-1"}

	t.Run("default key", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.LocalsMock["identity"] = identity

		found, ok := GetRouterIdentity(ctx, "")
		require.True(t, ok)
		assert.Equal(t, "pmorales", found.Username())
	})

	t.Run("custom key", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.LocalsMock["caller"] = identity

		found, ok := GetRouterIdentity(ctx, "caller")
		require.True(t, ok)
		assert.Equal(t, "user-1", found.UserID())
	})

	t.Run("missing value", func(t *testing.T) {
		ctx := router.NewMockContext()

		_, ok := GetRouterIdentity(ctx, "")
		assert.False(t, ok)
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.LocalsMock["identity"] = "not-an-identity"

		_, ok := GetRouterIdentity(ctx, "")
		assert.False(t, ok)
	})
}
