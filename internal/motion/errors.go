package motion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/motion/internal/spring"
)

var (
	// ErrInvalidTarget indicates a malformed target; see spring.TargetError.
	ErrInvalidTarget = spring.ErrInvalidTarget

	// ErrKeyMismatch indicates a style whose keys differ from the driver's.
	ErrKeyMismatch = errors.New("motion: style keys do not match driver keys")

	// ErrDestroyed indicates an operation on a destroyed driver.
	ErrDestroyed = errors.New("motion: driver destroyed")

	// ErrNilScheduler indicates New was called without a scheduler.
	ErrNilScheduler = errors.New("motion: nil scheduler")
)

// KeyError wraps ErrKeyMismatch with the differing keys.
type KeyError struct {
	Missing []string
	Extra   []string
}

func (e *KeyError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ","))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Extra, ","))
	}
	return fmt.Sprintf("%v: %s", ErrKeyMismatch, strings.Join(parts, "; "))
}

func (e *KeyError) Unwrap() error {
	return ErrKeyMismatch
}

func checkKeys[A, B any](want map[string]A, have map[string]B) error {
	missing, extra := spring.DiffKeys(want, have)
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return &KeyError{Missing: missing, Extra: extra}
}
