package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind is returned by ParseKind for type strings outside the closed set.
	ErrUnknownKind = errors.New("unknown parameter type")
	// ErrInvalidKind is returned by Coerce for a Parameter whose Kind is not one of the declared constants.
	ErrInvalidKind = errors.New("invalid parameter kind")
)

// ExtractionError reports why a script's parameter declarations were rejected.
// Index is the zero-based entry in the arguments() list, or -1 when the failure is not tied to one entry.
type ExtractionError struct {
	Index  int
	Param  string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("arguments: %s", e.Reason)
	case e.Param != "":
		return fmt.Sprintf("argument %d (%q): %s", e.Index, e.Param, e.Reason)
	default:
		return fmt.Sprintf("argument %d: %s", e.Index, e.Reason)
	}
}

func (e *ExtractionError) Unwrap() error { return e.Err }
