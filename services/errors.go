package services

import "net/http"

// WorkflowError is a domain error carrying the HTTP status the handler should
// respond with. Anything else bubbling out of a service is a datastore or
// infrastructure failure and is reported as a generic 500 at the boundary.
type WorkflowError struct {
	Status  int
	Message string
}

func (e *WorkflowError) Error() string {
	return e.Message
}

func Unauthorized(msg string) error {
	return &WorkflowError{Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) error {
	return &WorkflowError{Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) error {
	return &WorkflowError{Status: http.StatusNotFound, Message: msg}
}

func Invalid(msg string) error {
	return &WorkflowError{Status: http.StatusBadRequest, Message: msg}
}

func Conflict(msg string) error {
	return &WorkflowError{Status: http.StatusConflict, Message: msg}
}
