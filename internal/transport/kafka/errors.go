package kafka

// PermanentError marks a handler failure that redelivery can never fix.
// The consumer acknowledges the message instead of retrying it.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent wraps an error as permanent.
func Permanent(err error) error {
	return PermanentError{Err: err}
}
