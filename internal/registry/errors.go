package registry

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound  = errors.New("registry: not found")
	ErrForbidden = errors.New("registry: forbidden")
	ErrFailure   = errors.New("registry: request failed")
)

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNotFound
	OutcomeForbidden
	OutcomeFailure
)

// Classify maps an HTTP status onto the outcomes the tools speak about.
func Classify(status int) Outcome {
	switch status {
	case http.StatusOK:
		return OutcomeSuccess
	case http.StatusNotFound:
		return OutcomeNotFound
	case http.StatusForbidden:
		return OutcomeForbidden
	default:
		return OutcomeFailure
	}
}

// StatusError is a non-200 answer from the registry.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: registry returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	switch Classify(e.StatusCode) {
	case OutcomeNotFound:
		return ErrNotFound
	case OutcomeForbidden:
		return ErrForbidden
	default:
		return ErrFailure
	}
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
