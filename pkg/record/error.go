package record

import (
	"errors"
	"fmt"
)

// Error is a failed backend response. Status carries the HTTP status code
// so callers can distinguish client errors (which must not be retried)
// from transient failures.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("record: backend responded %d: %s", e.Status, e.Message)
}

// IsClientError reports whether err is a backend 4xx response — a request
// the system cannot fix by repeating it (bad auth, validation, not-found).
func IsClientError(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Status >= 400 && re.Status < 500
	}
	return false
}

// StatusOf returns the backend status code of err, or 0 for transport-level
// failures that never produced a response.
func StatusOf(err error) int {
	var re *Error
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
