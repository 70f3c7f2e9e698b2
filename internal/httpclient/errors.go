package httpclient

import (
	"context"
	"errors"
	"fmt"
)

// ErrAborted is returned when the caller's context ends before a request
// settles. Such requests are never replayed.
var ErrAborted = errors.New("request was aborted by caller")

// StatusError is returned for any non-2xx response that is not recovered by
// a credential refresh.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

func abortedErr(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrAborted, context.Cause(ctx))
}
