package model

// ValidationError reports input that cannot be simulated. It is raised
// before any calculation starts and should be surfaced as a client error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
