package calculator

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("calculator: invalid configuration")
	ErrEigenSolve           = errors.New("calculator: generalized eigensolve failed")
	ErrBandGapInconsistency = errors.New("calculator: malformed band extrema")
)

// ConfigError names the parameter that failed validation. It matches
// ErrInvalidConfiguration with errors.Is.
type ConfigError struct {
	Param  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("calculator: invalid %s = %v: %s", e.Param, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

func invalid(param string, value interface{}, reason string) error {
	return &ConfigError{Param: param, Value: value, Reason: reason}
}
