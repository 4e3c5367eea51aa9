package auth

import (
	"context"

	"github.com/goliatone/go-router"
	"github.com/goliatone/go-token-auth/middleware/tokenware"
)

// MiddlewareValidationListener aliases the tokenware listener so consumers can
// use auth helpers directly.
type MiddlewareValidationListener = tokenware.ValidationListener

// middlewareAuthenticator bridges the package Authenticator to the
// tokenware contract; the interfaces are structurally identical but the
// return types differ.
type middlewareAuthenticator struct {
	auth Authenticator
}

func (a middlewareAuthenticator) Authenticate(ctx context.Context, header string) (tokenware.Identity, error) {
	identity, err := a.auth.Authenticate(ctx, header)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// ContextEnricherAdapter stores the authenticated identity in the standard
// context for downstream usage via FromContext.
func ContextEnricherAdapter(c context.Context, identity tokenware.Identity) context.Context {
	return WithContext(c, identity)
}

// ProtectedRoute guards a route with the token middleware. A nil
// errorHandler falls back to the tokenware default 401 reply.
func ProtectedRoute(cfg Config, authenticator Authenticator, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	contextKey := "identity"
	if cfg != nil {
		contextKey = cfg.GetContextKey()
	}

	return tokenware.New(tokenware.Config{
		Authenticator:   middlewareAuthenticator{auth: authenticator},
		ContextKey:      contextKey,
		ErrorHandler:    errorHandler,
		ContextEnricher: ContextEnricherAdapter,
	})
}
