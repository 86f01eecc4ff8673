package domain

import (
	"errors"
	"fmt"
)

// ProbeErrorKind classifies why a database probe failed. The waiter's retry
// policy branches on the kind, not on error text.
type ProbeErrorKind int

const (
	// ProbeStartingUp means the server is not yet accepting connections or
	// the database is still booting. Expected while a fork provisions.
	ProbeStartingUp ProbeErrorKind = iota
	// ProbeBadCredentials means the server rejected the credentials. Seen
	// transiently on freshly created forks before credentials settle.
	ProbeBadCredentials
	// ProbeHostNotFound means the hostname did not resolve, typically DNS
	// not yet propagated for a newly created resource.
	ProbeHostNotFound
	// ProbeConnectionFailed is any other failure to establish a connection.
	ProbeConnectionFailed
	// ProbeQueryFailed means the connection succeeded but the recovery-state
	// query did not.
	ProbeQueryFailed
)

func (k ProbeErrorKind) String() string {
	switch k {
	case ProbeStartingUp:
		return "starting-up"
	case ProbeBadCredentials:
		return "bad-credentials"
	case ProbeHostNotFound:
		return "host-not-found"
	case ProbeConnectionFailed:
		return "connection-failed"
	case ProbeQueryFailed:
		return "query-failed"
	default:
		return "unknown"
	}
}

// ProbeError is a classified failure from a database probe attempt.
type ProbeError struct {
	Kind ProbeErrorKind
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Kind, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// NewProbeError wraps err with a classification kind.
func NewProbeError(kind ProbeErrorKind, err error) *ProbeError {
	return &ProbeError{Kind: kind, Err: err}
}

// AsProbeError extracts a ProbeError from err's chain.
func AsProbeError(err error) (*ProbeError, bool) {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
