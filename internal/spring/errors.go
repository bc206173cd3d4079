package spring

import (
	"errors"
	"fmt"
)

// ErrInvalidTarget indicates a target that is neither a finite plain value
// nor a well-formed spring.
var ErrInvalidTarget = errors.New("spring: invalid target")

// TargetError wraps ErrInvalidTarget with the offending key.
type TargetError struct {
	Key    string
	Reason string
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%v: key %q: %s", ErrInvalidTarget, e.Key, e.Reason)
}

func (e *TargetError) Unwrap() error {
	return ErrInvalidTarget
}
