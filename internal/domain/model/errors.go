package model

import (
	"errors"
	"fmt"
)

// ErrSourceIDRequired is matched by every ConfigurationError raised for a
// missing source identifier.
var ErrSourceIDRequired = errors.New("to start a replication job, please provide the source identifier")

// ConfigurationError reports a call that was rejected before any network I/O
// because required input was missing.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// RemoteErrorKind distinguishes the two ways a Stitch call can fail.
type RemoteErrorKind string

const (
	// RemoteErrorTransport covers unexpected HTTP statuses, failed round trips
	// and undecodable bodies.
	RemoteErrorTransport RemoteErrorKind = "transport"
	// RemoteErrorApplication covers bodies carrying an "error" object,
	// whatever the HTTP status.
	RemoteErrorApplication RemoteErrorKind = "application"
)

// RemoteCallError is returned when Stitch could not be reached or refused the
// request. Reason is set for the transport kind; Type and Message mirror the
// nested error object for the application kind.
type RemoteCallError struct {
	Kind       RemoteErrorKind
	StatusCode int
	Reason     string
	Type       string
	Message    string
	Err        error
}

func (e *RemoteCallError) Error() string {
	if e.Kind == RemoteErrorApplication {
		return fmt.Sprintf("Stitch API responded with error: %s", e.Message)
	}
	return fmt.Sprintf("There was an error while calling Stitch API: %s", e.Reason)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}
