// Package storage fetches schedule files from object storage.
package storage

import (
	"context"
	"errors"
	"math"
	"time"
)

// Common errors for storage operations.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrDownloadFailed = errors.New("download failed")
)

// ObjectStorage is the read side of an object store holding schedule files.
// Implementations include S3 and the local filesystem.
type ObjectStorage interface {
	// Download copies objectPath to localPath, creating parent directories.
	Download(ctx context.Context, objectPath, localPath string) error

	// Exists reports whether objectPath is present.
	Exists(ctx context.Context, objectPath string) (bool, error)

	// ListObjects returns all object paths under the given prefix.
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// Locator is implemented by stores whose objects are already plain files,
// so callers can read them in place instead of downloading a copy.
type Locator interface {
	Locate(objectPath string) string
}

// RetryPolicy controls retries of transient storage failures.
type RetryPolicy struct {
	MaxRetries  int
	BaseBackoff time.Duration
}

// DefaultRetryPolicy returns three retries starting at 100ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseBackoff: 100 * time.Millisecond}
}

// retryWithBackoff executes the operation with exponential backoff retry.
// ErrObjectNotFound is returned immediately.
func retryWithBackoff(ctx context.Context, policy RetryPolicy, operation func() error) error {
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil || errors.Is(lastErr, ErrObjectNotFound) {
			return lastErr
		}

		if attempt < policy.MaxRetries {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * policy.BaseBackoff
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
