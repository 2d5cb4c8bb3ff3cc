package mdp

import (
	"errors"
	"fmt"
)

var (
	// ErrModelValidation marks malformed model input: probability rows that do not
	// sum to one, unknown labels or mismatched table dimensions.
	ErrModelValidation = errors.New("model validation error")
	// ErrConfiguration marks a model or solver setting that cannot be solved:
	// states without legal actions, a discount outside [0,1], a non-absorbing
	// chain under an undiscounted objective.
	ErrConfiguration = errors.New("configuration error")
)

// ValidationError describes what was wrong with a model and where.
// Kind is one of ErrModelValidation or ErrConfiguration.
type ValidationError struct {
	Kind   error
	State  State
	Action Action
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.State != "" && e.Action != "":
		return fmt.Sprintf("%v: state %q action %q: %s", e.Kind, e.State, e.Action, e.Reason)
	case e.State != "":
		return fmt.Sprintf("%v: state %q: %s", e.Kind, e.State, e.Reason)
	case e.Action != "":
		return fmt.Sprintf("%v: action %q: %s", e.Kind, e.Action, e.Reason)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalid(s State, a Action, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: ErrModelValidation, State: s, Action: a, Reason: fmt.Sprintf(format, args...)}
}

func misconfigured(s State, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: ErrConfiguration, State: s, Reason: fmt.Sprintf(format, args...)}
}

// Misconfigured builds a configuration error that is not tied to a state,
// used by callers that validate solver settings.
func Misconfigured(format string, args ...interface{}) error {
	return misconfigured("", format, args...)
}
