package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity is the assertion produced by a successful authentication
// check. It carries only the owning user and the token row that proved
// possession; there are no other claims.
type Identity interface {
	UserID() string
	Username() string
	TokenID() string
}

// Authenticator decides authentication for a raw Authorization header
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (Identity, error)
}

// SessionFlows are the issuance operations exposed to the request layer
type SessionFlows interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, header string) error
	Refresh(ctx context.Context, header string) (*LoginResult, error)
}

// Config holds auth options
type Config interface {
	GetContextKey() string
	GetTokenExpiresIn() int64
}

// SimpleConfig is a literal Config for hosts without a config container
type SimpleConfig struct {
	ContextKey     string
	TokenExpiresIn int64
}

func (c SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "identity"
	}
	return c.ContextKey
}

func (c SimpleConfig) GetTokenExpiresIn() int64 {
	if c.TokenExpiresIn <= 0 {
		return DefaultTokenExpiresIn
	}
	return c.TokenExpiresIn
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
