// Package code defines the scenario engine's coded error kinds and their
// HTTP status mapping.
package code

// HTTP status codes used across the error-kind mapping.
const (
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusInternalServerError = 500
)

// Error kinds, per spec §7. ErrSuccess is not a failure kind; it marks a
// successful response in the shared envelope.
const (
	// ErrSuccess - 200: the call completed normally.
	ErrSuccess int = iota + 100000
	// ErrBadInput - 400: schema/shape violation; never retried by the core.
	ErrBadInput
	// ErrUnknownScenario - 400: the UI scenario key has no template mapping.
	ErrUnknownScenario
	// ErrMissingAnchor - 400: the hazard requires an anchor type the caller
	// did not supply.
	ErrMissingAnchor
	// ErrNotFound - 404: unknown asset id, instance id, or run id.
	ErrNotFound
	// ErrConflict - 409: reserved; prepare always creates a new instance id.
	ErrConflict
	// ErrInternal - 500: store failure or unexpected invariant break.
	ErrInternal
)

var codeStatusMap = map[int]int{
	ErrSuccess:         StatusOK,
	ErrBadInput:        StatusBadRequest,
	ErrUnknownScenario: StatusBadRequest,
	ErrMissingAnchor:   StatusBadRequest,
	ErrNotFound:        StatusNotFound,
	ErrConflict:        StatusConflict,
	ErrInternal:        StatusInternalServerError,
}

// GetStatus returns the HTTP status for a coded error kind.
func GetStatus(c int) int {
	if s, ok := codeStatusMap[c]; ok {
		return s
	}
	return StatusInternalServerError
}

// Kind is the wire name used in the {error: <kind>, ...} response shape.
func Kind(c int) string {
	switch c {
	case ErrBadInput:
		return "BAD_INPUT"
	case ErrUnknownScenario:
		return "UNKNOWN_SCENARIO"
	case ErrMissingAnchor:
		return "MISSING_ANCHOR"
	case ErrNotFound:
		return "NOT_FOUND"
	case ErrConflict:
		return "CONFLICT"
	case ErrInternal:
		return "INTERNAL"
	default:
		return "INTERNAL"
	}
}
