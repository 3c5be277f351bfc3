package service

import (
	"context"
	"errors"
	"time"

	"github.com/eehealth/api/internal/apperr"
	"github.com/sethvargo/go-retry"
)

const DefaultMaxRetries = 8

// withConflictRetry reruns fn while it fails with apperr.ErrConflict, up to
// maxRetries extra attempts. Any other error stops immediately, and exhausted
// attempts surface the last conflict.
func withConflictRetry(ctx context.Context, maxRetries int, fn func(ctx context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := retry.WithMaxRetries(uint64(maxRetries),
		retry.WithJitter(time.Millisecond, retry.NewConstant(2*time.Millisecond)))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, apperr.ErrConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}
