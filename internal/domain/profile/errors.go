package profile

import (
	"errors"
	"fmt"

	"github.com/nuemind/student-profile/internal/domain/shared"
)

// LoadErrorKind is the taxonomy of profile load failures.
type LoadErrorKind string

const (
	// KindNotFound means the backend returned no current record.
	KindNotFound LoadErrorKind = "not_found"

	// KindNetworkFailure covers transport errors and timeouts.
	KindNetworkFailure LoadErrorKind = "network_failure"

	// KindUnknown is everything else; the message is forwarded as-is.
	KindUnknown LoadErrorKind = "unknown"
)

// DefaultLoadErrorMessage is stored when a failure carries no message.
const DefaultLoadErrorMessage = "failed to load profile data"

// LoadError is returned by a failed profile load.
type LoadError struct {
	Kind LoadErrorKind
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return DefaultLoadErrorMessage
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError classifies err and wraps it. A nil err yields nil.
func NewLoadError(err error) error {
	if err == nil {
		return nil
	}
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return &LoadError{Kind: Classify(err), Err: err}
}

// Classify maps an error onto the load taxonomy.
func Classify(err error) LoadErrorKind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}

	switch {
	case shared.IsNotFound(err):
		return KindNotFound
	case shared.IsExternalService(err):
		return KindNetworkFailure
	default:
		return KindUnknown
	}
}

// Message returns the human-readable text stored on the container.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var le *LoadError
	if errors.As(err, &le) && le.Err != nil {
		err = le.Err
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultLoadErrorMessage
}
