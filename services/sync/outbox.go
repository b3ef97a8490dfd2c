// Package sync implements the four local-first repositories (watchlist,
// watch progress, viewing history, profile). Every write lands in the local
// store before any remote call, so reads reflect user actions immediately;
// remote pushes are best-effort and tracked per record through an explicit
// outbox status instead of being silently absorbed.
package sync

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const defaultRemoteTimeout = 10 * time.Second

// RetryPolicy controls how a pending record is pushed to the remote store.
// The caller owns the policy: background pushes default to a single attempt
// so they stay best-effort, while an explicit sync call may opt into
// exponential backoff.
type RetryPolicy struct {
	MaxAttempts    uint
	InitialBackoff time.Duration
}

// DefaultRetryPolicy is a single attempt with no backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// push runs fn under the policy, honoring ctx cancellation between attempts.
func (p RetryPolicy) push(ctx context.Context, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	backoff := p.InitialBackoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}

	return retry.Do(
		func() error { return fn(ctx) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(backoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// withTimeout bounds one remote call the way every repository does.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultRemoteTimeout)
}
