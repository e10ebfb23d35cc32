package forms

import (
	"errors"
	"fmt"
)

// ErrMisconfigured is returned when the record store credentials are absent.
// It is terminal for the request: no remote call is attempted.
var ErrMisconfigured = errors.New("record store credentials are not configured")

// ValidationKind identifies why a submitted field was rejected
type ValidationKind string

const (
	// ValidationMissing means the field was absent, empty, or
	// whitespace-only
	ValidationMissing ValidationKind = "missing"

	// ValidationInvalidEmail means the field did not match the email
	// pattern
	ValidationInvalidEmail ValidationKind = "invalid_email"
)

// ValidationError rejects a single submitted field. It identifies the first
// missing or malformed field; validation stops there.
type ValidationError struct {
	Field string
	Kind  ValidationKind
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ValidationInvalidEmail:
		return fmt.Sprintf("field %q is not a valid email address", e.Field)
	default:
		return fmt.Sprintf("field %q is required", e.Field)
	}
}

// UpstreamError is a failed remote call to the record store. Write
// distinguishes a failed record creation (which carries the upstream payload
// for diagnostics) from a failed read.
type UpstreamError struct {
	Op    string // "duplicate check", "signup count", "create record"
	Write bool
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
