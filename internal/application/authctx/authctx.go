// Package authctx carries the authenticated caller through context.Context.
package authctx

import (
	"context"

	"file-uploader/internal/domain/user"
)

type ctxKey struct{}

// Principal is the caller resolved from a valid session.
type Principal struct {
	UserID user.ID
	Email  string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext reports false for anonymous requests.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
