package gate

import (
	"context"
	"errors"

	"github.com/pecadorcelestial/panda-proxy/internal/token"
)

type ctxKey int

const (
	ctxUser ctxKey = iota
	ctxCallerType
)

// WithCaller stores the authenticated identity in context for downstream
// handlers and the proxy.
func WithCaller(ctx context.Context, user string, caller token.CallerType) context.Context {
	ctx = context.WithValue(ctx, ctxUser, user)
	ctx = context.WithValue(ctx, ctxCallerType, caller)
	return ctx
}

// User returns the caller identity placed by the gate.
func User(ctx context.Context) (string, error) {
	if s, ok := ctx.Value(ctxUser).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("user not in context")
}

// Caller returns the caller type placed by the gate.
func Caller(ctx context.Context) (token.CallerType, error) {
	if t, ok := ctx.Value(ctxCallerType).(token.CallerType); ok && t != "" {
		return t, nil
	}
	return "", errors.New("caller type not in context")
}
