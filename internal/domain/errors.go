package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors checked with errors.Is across the pipeline.
var (
	// ErrInvalidURL marks a malformed source or article URL; never retried.
	ErrInvalidURL = errors.New("invalid url")

	// ErrFeedParse marks a feed that could not be fetched or parsed; it
	// aborts the scan of that source.
	ErrFeedParse = errors.New("feed parse failed")

	// ErrNoContent marks extraction that returned no usable body, or text
	// that stripped down to zero words. Retrying cannot change the source
	// material, so it is never retried.
	ErrNoContent = errors.New("no content extracted")

	// ErrExtractTimeout marks an extraction call that exceeded its deadline;
	// retried like a server error.
	ErrExtractTimeout = errors.New("extraction timed out")

	// ErrStorage marks an unreachable article or source store.
	ErrStorage = errors.New("storage unavailable")
)

// HTTPError is a non-2xx response from the extraction service.
type HTTPError struct {
	Status     int
	RetryAfter time.Duration // from a Retry-After header, zero when absent
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("extraction service returned %d", e.Status)
}

// FailureKind buckets a per-item failure for the scan breakdown.
type FailureKind int

const (
	FailureOther FailureKind = iota
	FailureServerError
	FailureAccessDenied
	FailureRateLimited
	FailureTimeout
	FailureNoContent
)

// ClassifyFailure maps an item error to its breakdown bucket.
func ClassifyFailure(err error) FailureKind {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		switch {
		case httpErr.Status == http.StatusTooManyRequests:
			return FailureRateLimited
		case httpErr.Status == http.StatusUnauthorized || httpErr.Status == http.StatusForbidden:
			return FailureAccessDenied
		case httpErr.Status >= 500:
			return FailureServerError
		}
		return FailureOther
	case errors.Is(err, ErrExtractTimeout):
		return FailureTimeout
	case errors.Is(err, ErrNoContent):
		return FailureNoContent
	}
	return FailureOther
}

// Retryable reports whether a second extraction attempt could help:
// server errors, rate limiting, and timeouts qualify.
func Retryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status >= 500 || httpErr.Status == http.StatusTooManyRequests
	}
	return errors.Is(err, ErrExtractTimeout)
}
