package tokenware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/goliatone/go-token-auth/middleware/tokenware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubIdentity struct {
	userID   string
	username string
	tokenID  string
}

func (s stubIdentity) UserID() string   { return s.userID }
func (s stubIdentity) Username() string { return s.username }
func (s stubIdentity) TokenID() string  { return s.tokenID }

type stubAuthenticator struct {
	identity   tokenware.Identity
	err        error
	lastHeader string
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, header string) (tokenware.Identity, error) {
	s.lastHeader = header
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func newRequestContext(header string) *router.MockContext {
	ctx := router.NewMockContext()
	ctx.HeadersM[router.HeaderAuthorization] = header
	ctx.On("Header", router.HeaderAuthorization).Return(header).Maybe()
	ctx.On("Context").Return(context.Background()).Maybe()
	ctx.On("Next").Return(nil).Maybe()
	return ctx
}

func runMiddleware(cfg tokenware.Config, ctx router.Context) error {
	handler := tokenware.New(cfg)(func(c router.Context) error {
		return c.Next()
	})
	return handler(ctx)
}

func TestTokenwareStoresIdentity(t *testing.T) {
	identity := stubIdentity{userID: "user-1", username: "pmorales", tokenID: "token-1"}
	authenticator := &stubAuthenticator{identity: identity}

	ctx := newRequestContext("Bearer abc")
	ctx.On("Locals", "identity", identity).Return(nil)

	err := runMiddleware(tokenware.Config{Authenticator: authenticator}, ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", authenticator.lastHeader)
	ctx.AssertCalled(t, "Locals", "identity", identity)
}

func TestTokenwareCustomContextKey(t *testing.T) {
	identity := stubIdentity{userID: "user-1"}
	authenticator := &stubAuthenticator{identity: identity}

	ctx := newRequestContext("Bearer abc")
	ctx.On("Locals", "caller", identity).Return(nil)

	err := runMiddleware(tokenware.Config{
		Authenticator: authenticator,
		ContextKey:    "caller",
	}, ctx)
	require.NoError(t, err)
	ctx.AssertCalled(t, "Locals", "caller", identity)
}

func TestTokenwareAuthFailure(t *testing.T) {
	authenticator := &stubAuthenticator{err: errors.New("bad token")}

	t.Run("default handler replies 401", func(t *testing.T) {
		ctx := newRequestContext("Bearer nope")

		var status int
		var payload map[string]string
		ctx.On("Status", router.StatusUnauthorized).Return(ctx)
		ctx.On("JSON", router.StatusUnauthorized, mock.Anything).Run(func(args mock.Arguments) {
			status = args.Int(0)
			payload = args.Get(1).(map[string]string)
		}).Return(nil)

		err := runMiddleware(tokenware.Config{Authenticator: authenticator}, ctx)
		require.NoError(t, err)
		assert.Equal(t, router.StatusUnauthorized, status)
		assert.Equal(t, "Unauthorized", payload["message"])
	})

	t.Run("custom handler observes the failure", func(t *testing.T) {
		ctx := newRequestContext("Bearer nope")

		var seen error
		err := runMiddleware(tokenware.Config{
			Authenticator: authenticator,
			ErrorHandler: func(c router.Context, err error) error {
				seen = err
				return nil
			},
		}, ctx)
		require.NoError(t, err)
		assert.EqualError(t, seen, "bad token")
	})
}

func TestTokenwareFilterSkipsAuthentication(t *testing.T) {
	authenticator := &stubAuthenticator{err: errors.New("must not run")}

	ctx := newRequestContext("")

	err := runMiddleware(tokenware.Config{
		Authenticator: authenticator,
		Filter: func(router.Context) bool {
			return true
		},
	}, ctx)
	require.NoError(t, err)
	assert.Empty(t, authenticator.lastHeader)
}

func TestTokenwareContextEnricher(t *testing.T) {
	identity := stubIdentity{userID: "user-1"}
	authenticator := &stubAuthenticator{identity: identity}

	type enrichedKey struct{}

	ctx := newRequestContext("Bearer abc")
	ctx.On("Locals", "identity", identity).Return(nil)

	var enriched context.Context
	ctx.On("SetContext", mock.Anything).Run(func(args mock.Arguments) {
		enriched = args.Get(0).(context.Context)
	}).Return(nil)

	err := runMiddleware(tokenware.Config{
		Authenticator: authenticator,
		ContextEnricher: func(c context.Context, identity tokenware.Identity) context.Context {
			return context.WithValue(c, enrichedKey{}, identity.UserID())
		},
	}, ctx)
	require.NoError(t, err)
	require.NotNil(t, enriched)
	assert.Equal(t, "user-1", enriched.Value(enrichedKey{}))
}

func TestTokenwareValidationListeners(t *testing.T) {
	identity := stubIdentity{userID: "user-1"}
	authenticator := &stubAuthenticator{identity: identity}

	t.Run("listeners run after authentication", func(t *testing.T) {
		ctx := newRequestContext("Bearer abc")
		ctx.On("Locals", "identity", identity).Return(nil)

		var seen tokenware.Identity
		err := runMiddleware(tokenware.Config{
			Authenticator: authenticator,
			ValidationListeners: []tokenware.ValidationListener{
				func(c router.Context, identity tokenware.Identity) error {
					seen = identity
					return nil
				},
			},
		}, ctx)
		require.NoError(t, err)
		assert.Equal(t, "user-1", seen.UserID())
	})

	t.Run("listener failure aborts the request", func(t *testing.T) {
		ctx := newRequestContext("Bearer abc")

		var seen error
		err := runMiddleware(tokenware.Config{
			Authenticator: authenticator,
			ValidationListeners: []tokenware.ValidationListener{
				func(router.Context, tokenware.Identity) error {
					return errors.New("listener rejected")
				},
			},
			ErrorHandler: func(c router.Context, err error) error {
				seen = err
				return nil
			},
		}, ctx)
		require.NoError(t, err)
		assert.EqualError(t, seen, "listener rejected")
	})
}
