package vcg

// ValidationError is a malformed or semantically invalid user command.
// The reason is shown to the end user as-is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func newValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// FormatError is a malformed date, time or timezone literal.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return e.Reason
}
