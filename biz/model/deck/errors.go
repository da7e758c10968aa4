package deck

import "errors"

// Error kinds surfaced by the pipeline. Handlers map these to HTTP
// status codes; everything else is an internal error.
var (
	// ErrInvalidRequest marks payloads that failed validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidAssetRef marks asset references with an unsupported
	// URI scheme or hostname.
	ErrInvalidAssetRef = errors.New("invalid asset reference")

	// ErrAssetUnavailable marks a fetch that failed after retry.
	ErrAssetUnavailable = errors.New("asset unavailable")

	// ErrTimeout marks a request that exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrInternal marks serialization or upload failures.
	ErrInternal = errors.New("internal error")
)
