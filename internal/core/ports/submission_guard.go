package ports

import (
	"context"
	"time"
)

// SubmissionGuard rejects repeated reservation submissions within a window.
type SubmissionGuard interface {
	// Claim records key and reports true when it was not already claimed.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees key so the same submission can be retried.
	Release(ctx context.Context, key string) error
}
