package efa

import (
	"errors"
	"fmt"
	"net/http"
)

const unknownErrorMessage = "Unknown error occurred"

// APIError is returned for every failed call against the EFA service.
// Failures that did not come with an HTTP status are reported as 500.
type APIError struct {
	Status     int
	StatusText string
	Message    string

	Err error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newStatusError(status int, statusText string) *APIError {
	if statusText == "" {
		statusText = http.StatusText(status)
	}

	return &APIError{
		Status:     status,
		StatusText: statusText,
		Message:    fmt.Sprintf("API request failed: %s", statusText),
	}
}

// NewInternalError normalises any error into a 500 APIError.
// An error that already is an APIError is returned unchanged.
func NewInternalError(err error) *APIError {
	var apiError *APIError
	if errors.As(err, &apiError) {
		return apiError
	}

	message := unknownErrorMessage
	if err != nil && err.Error() != "" {
		message = err.Error()
	}

	return &APIError{
		Status:     http.StatusInternalServerError,
		StatusText: "Internal Error",
		Message:    message,
		Err:        err,
	}
}
