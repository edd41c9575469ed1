package shared

import (
	"fmt"
	"time"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Error taxonomy for catalog operations. Every error surfaced by the
	// engine matches exactly one of these via errors.Is.
	ErrAuth           = fmt.Errorf("authentication failed")
	ErrRateLimited    = fmt.Errorf("rate limit retry budget exhausted")
	ErrCatalogRequest = fmt.Errorf("catalog request failed")
	ErrValidation     = fmt.Errorf("invalid review decision input")
	ErrPartialCommit  = fmt.Errorf("partial playlist commit")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// AuthError indicates an expired or invalid credential after the single
// in-place refresh attempt has already been made.
type AuthError struct {
	Op  string // catalog operation that observed the failure
	Err error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth failed during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("auth failed during %s", e.Op)
}

func (e *AuthError) Unwrap() error        { return e.Err }
func (e *AuthError) Is(target error) bool { return target == ErrAuth }

// RateLimitError is surfaced when the bounded retry budget for 429
// responses is exhausted.
type RateLimitError struct {
	Endpoint  string
	Attempts  int
	LastDelay time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited on %s after %d attempts (last delay %s)", e.Endpoint, e.Attempts, e.LastDelay)
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// CatalogError carries the status and body of a non-retriable upstream
// failure for caller inspection.
type CatalogError struct {
	Endpoint string
	Status   int
	Body     []byte
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog request %s returned status %d", e.Endpoint, e.Status)
}

func (e *CatalogError) Is(target error) bool { return target == ErrCatalogRequest }

// ValidationError names the offending review row so the caller can fix
// the batch and re-import. The whole import fails atomically.
type ValidationError struct {
	Row      int    // zero-based row index within the batch
	Field    string // offending field name
	Value    string // offending value as received
	Expected string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: field %q has invalid value %q (expected %s)", e.Row, e.Field, e.Value, e.Expected)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
