package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// InvalidRequestError is a locally detected caller mistake (malformed dates,
// checkout before checkin, guest count out of range). Maps to HTTP 400.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return e.Reason
}

func NewInvalidRequest(format string, args ...any) *InvalidRequestError {
	return &InvalidRequestError{Reason: fmt.Sprintf(format, args...)}
}

// AsInvalidRequest returns the typed error if err is one, nil otherwise.
func AsInvalidRequest(err error) *InvalidRequestError {
	var invalid *InvalidRequestError
	if stderrors.As(err, &invalid) {
		return invalid
	}
	return nil
}

// UnavailableError is an expected business outcome, not a system fault:
// the requested window cannot be served. Never logged as an error.
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	return e.Reason
}

func NewUnavailable(format string, args ...any) *UnavailableError {
	return &UnavailableError{Reason: fmt.Sprintf(format, args...)}
}

// NewInsufficientCapacity names the first date of the window that cannot
// hold the requested party.
func NewInsufficientCapacity(date time.Time) *UnavailableError {
	return NewUnavailable("no capacity on %s", date.Format("2006-01-02"))
}

func AsUnavailable(err error) *UnavailableError {
	var unavailable *UnavailableError
	if stderrors.As(err, &unavailable) {
		return unavailable
	}
	return nil
}
