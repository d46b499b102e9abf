package fitness

// ValidationError reports user input that is out of bounds or unparseable.
// Message is meant to be shown to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
