package ctxutil

import (
	"context"

	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

type principalKey struct{}

// WithPrincipal stores a copy of p; later changes to the caller's value are not visible.
func WithPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func GetPrincipal(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}
