package code

var codeMessageMap = map[int]string{
	ErrSuccess:         "ok",
	ErrBadInput:        "request did not satisfy the expected shape or bounds",
	ErrUnknownScenario: "scenario key has no template mapping",
	ErrMissingAnchor:   "hazard requires an anchor the instance does not have",
	ErrNotFound:        "resource not found",
	ErrConflict:        "conflicting operation",
	ErrInternal:        "internal error",
}

// GetMessage returns the default message for a coded error kind.
func GetMessage(c int) string {
	if m, ok := codeMessageMap[c]; ok {
		return m
	}
	return "unknown error"
}
