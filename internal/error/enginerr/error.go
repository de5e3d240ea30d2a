// Package enginerr is the scenario engine's error type: every façade
// operation that can fail returns one of these (or wraps one via errors.As)
// instead of a bare error, so the HTTP edge can always render spec §7's
// {error, details?, required_anchor?} shape without re-classifying errors
// at the last moment.
package enginerr

import (
	"errors"
	"fmt"

	"github.com/AvnerHilu2025/ginom-mockup/internal/error/code"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/logging"
)

// Error is a coded, user-facing failure.
type Error struct {
	Code           int
	Details        string
	RequiredAnchor string
	Cause          error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", code.Kind(e.Code), e.Details)
	}
	return code.Kind(e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// Kind returns the wire error kind, e.g. "BAD_INPUT".
func (e *Error) Kind() string { return code.Kind(e.Code) }

// HTTPStatus returns the HTTP status the edge should answer with.
func (e *Error) HTTPStatus() int { return code.GetStatus(e.Code) }

// BadInput builds a BAD_INPUT error with a human-readable reason.
func BadInput(details string) *Error {
	return &Error{Code: code.ErrBadInput, Details: details}
}

// UnknownScenario builds an UNKNOWN_SCENARIO error naming the bad key.
func UnknownScenario(scenario string) *Error {
	return &Error{Code: code.ErrUnknownScenario, Details: fmt.Sprintf("no template mapped for scenario %q", scenario)}
}

// MissingAnchor builds a MISSING_ANCHOR error naming the required type.
func MissingAnchor(requiredAnchor string) *Error {
	return &Error{
		Code:           code.ErrMissingAnchor,
		Details:        fmt.Sprintf("hazard requires an anchor of type %q", requiredAnchor),
		RequiredAnchor: requiredAnchor,
	}
}

// NotFound builds a NOT_FOUND error naming what was looked up.
func NotFound(details string) *Error {
	return &Error{Code: code.ErrNotFound, Details: details}
}

// Conflict builds a CONFLICT error. Reserved — the core never emits one
// today (prepare always allocates a new instance id), kept for edge
// collaborators that may introduce one.
func Conflict(details string) *Error {
	return &Error{Code: code.ErrConflict, Details: details}
}

// Internal wraps an unexpected failure (store error, invariant break) and
// logs it at error level.
func Internal(cause error) *Error {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	logging.Error("internal error: %s", details)
	return &Error{Code: code.ErrInternal, Details: details, Cause: cause}
}

// As extracts an *Error from err, if any is in its chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
