package global

import (
	"context"
	"time"
)

const DefaultTimeout = 10 * time.Second

// WithDefaultTimer bounds a remote call made on behalf of ctx
func WithDefaultTimer(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultTimeout)
}
