package booking

import "fmt"

// NotFoundError means an appointment id or category cannot be resolved.
type NotFoundError struct {
	Code    string
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{
		Code:    "notFound",
		Message: msg,
	}
}
