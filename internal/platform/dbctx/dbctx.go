package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// A nil Tx means the repository uses its own connection.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// With returns a copy bound to tx.
func (c Context) With(tx *gorm.DB) Context {
	return Context{Ctx: c.Ctx, Tx: tx}
}

// DB resolves the handle a repository should query through.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	t := c.Tx
	if t == nil {
		t = fallback
	}
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return t.WithContext(ctx)
}
