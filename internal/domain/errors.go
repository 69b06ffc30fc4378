package domain

import "errors"

// Error taxonomy for one harvest run. Nothing below the coordinator level
// aborts a run; these are classified, recorded, and the run proceeds.
var (
	// ErrTransientNetwork covers timeouts, resets and other 5xx responses.
	ErrTransientNetwork = errors.New("transient network error")

	// ErrRateLimited is a 429 or 503 response; retried honoring Retry-After.
	ErrRateLimited = errors.New("rate limited")

	// ErrFatalRequest is a non-retryable 4xx; the request is abandoned but
	// the path continues.
	ErrFatalRequest = errors.New("fatal request error")

	// ErrDecode means the response body was not in the expected shape.
	ErrDecode = errors.New("response decode error")

	// ErrPathStalled means the offset ceiling was reached before the source
	// signaled end-of-data.
	ErrPathStalled = errors.New("pagination stalled at offset ceiling")

	// ErrDiscoveryFailed means the category tree root was unreachable; the
	// run proceeds with zero paths.
	ErrDiscoveryFailed = errors.New("category discovery failed")
)
