package errmsg

// StatusError is the unit of the error taxonomy: an HTTP status paired with
// the exact client-facing message. The outbox routes send the message as a
// plain-text body; everything else wraps it in JSON.
type StatusError struct {
	StatusCode int
	Message    string
}

func NewStatusError(statusCode int, message string) StatusError {
	return StatusError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func (se StatusError) Error() string {
	return se.Message
}
