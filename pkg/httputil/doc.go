// Package httputil provides retry helpers for outbound HTTP clients.
//
// # Overview
//
// [Retry] re-runs an operation with exponential backoff, but only for errors
// the caller marked as transient by wrapping them in [RetryableError]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// A wrapped [errors.RateLimitedError] with a Retry-After value replaces the
// backoff delay for that attempt.
//
// [errors.RateLimitedError]: github.com/cyzmcl/Lunarian/pkg/errors.RateLimitedError
package httputil
