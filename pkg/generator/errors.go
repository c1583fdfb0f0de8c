package generator

import (
	"errors"
	"fmt"

	"github.com/aretw0/voxgen/pkg/schema"
)

var (
	// ErrNoMain is returned when the script defines no callable global main.
	ErrNoMain = errors.New("no main function found")
	// ErrTimeout is returned when the watchdog stops a run.
	ErrTimeout = errors.New("generator run timed out")
	// ErrInvalidKind is returned when a parameter cannot be coerced because its kind is invalid.
	ErrInvalidKind = schema.ErrInvalidKind
	// ErrSanityCheck is returned when the call frame for main is malformed.
	ErrSanityCheck = errors.New("sanity check failed")
	// ErrNoVolume is returned when a request carries no volume.
	ErrNoVolume = errors.New("no volume given")
	// ErrNoOverlap is returned when the request region lies outside the volume.
	ErrNoOverlap = errors.New("region does not overlap the volume")
	// ErrUnknownMode is returned for catalog modes other than exec and static.
	ErrUnknownMode = errors.New("unknown catalog mode")
)

// ExecutionError is a failure raised while running the script body or main.
// Message is what the script raised, or "Unknown Error".
type ExecutionError struct {
	Script  string
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("generator script %s: %s", e.Script, e.Message)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
