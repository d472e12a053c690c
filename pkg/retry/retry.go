// Package retry provides a bounded retry helper for calls that cross the
// network: downloads, transcription, and model invocation. Policy is a
// single retry with exponential backoff; anything needing more belongs to
// the caller's own loop.
package retry

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

const maxRetries = 1

// Do runs op and retries it once with exponential backoff if it fails.
// Context cancellation stops waiting immediately. Errors wrapped with
// Permanent are never retried.
func Do[T any](ctx context.Context, op func() (T, error)) (T, error) {
	var result T

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries),
		ctx,
	)

	err := backoff.Retry(func() error {
		var err error
		result, err = op()
		return err
	}, policy)

	return result, err
}

// Permanent marks err as non-retryable for Do.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}
