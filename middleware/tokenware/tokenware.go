package tokenware

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Identity interface for an authenticated caller without import cycles.
// This mirrors the Identity interface from the auth package.
type Identity interface {
	UserID() string
	Username() string
	TokenID() string
}

// Authenticator interface for validating Authorization headers without
// import cycles. This mirrors the Authenticator from the auth package.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (Identity, error)
}

// ValidationListener is invoked after a header has been authenticated but
// before the request proceeds.
type ValidationListener func(ctx router.Context, identity Identity) error

type Config struct {
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	ContextKey     string

	// Authenticator is required, it decides every request
	Authenticator Authenticator

	// ContextEnricher is an optional function to propagate the identity to
	// the standard Go context. If provided, it will be called after a
	// successful authentication.
	ContextEnricher func(c context.Context, identity Identity) context.Context

	// ValidationListeners are invoked after authentication succeeds. Use them
	// to emit events or perform bookkeeping before the request proceeds.
	ValidationListeners []ValidationListener
}

func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			header := ctx.Header(router.HeaderAuthorization)

			identity, err := cfg.Authenticator.Authenticate(ctx.Context(), header)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if err := cfg.runValidationListeners(ctx, identity); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, identity)

			// if a context enricher we use it to propagate the identity to the standard context
			if cfg.ContextEnricher != nil {
				stdCtx := ctx.Context()
				stdCtxWithIdentity := cfg.ContextEnricher(stdCtx, identity)
				ctx.SetContext(stdCtxWithIdentity)
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	if cfg.Authenticator == nil {
		panic("AUTH: token middleware configuration: Authenticator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "identity"
	}

	return cfg
}

func (cfg *Config) runValidationListeners(ctx router.Context, identity Identity) error {
	for _, listener := range cfg.ValidationListeners {
		if listener == nil {
			continue
		}
		if err := listener(ctx, identity); err != nil {
			return err
		}
	}
	return nil
}

// defaultErrorHandler replies 401 with the failure message. Every
// authentication failure maps to the same status, the message is the
// only thing that varies.
func defaultErrorHandler(c router.Context, err error) error {
	message := "Unauthorized"

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		message = richErr.Message
	}

	return c.Status(router.StatusUnauthorized).JSON(router.StatusUnauthorized, map[string]string{
		"message": message,
	})
}
