package planner

import (
	"errors"
	"fmt"

	"github.com/bububa/trip-agents/schema"
)

var (
	// ErrValidation the trip request was rejected before any agent ran
	ErrValidation = errors.New("invalid trip request")
	// ErrConfiguration the orchestrator could not be built from the given credential or model family
	ErrConfiguration = errors.New("invalid configuration")
	// ErrTimeout the planning run did not finish in time
	ErrTimeout = errors.New("trip planning timed out")
)

// ValidationError lists the request fields that failed validation.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Fields schema.ValidationErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrValidation, e.Fields)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Fields}
}

// ConfigurationError explains why the orchestrator could not be built.
// errors.Is(err, ErrConfiguration) holds for every ConfigurationError.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %v", ErrConfiguration, e.Reason, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}

func configurationError(reason string, err error) error {
	return &ConfigurationError{Reason: reason, Err: err}
}
