package scripting

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// UnknownError is reported when a script raises a non-string error value.
const UnknownError = "Unknown Error"

// ErrRuntimeClosed is returned when a closed Runtime is used.
var ErrRuntimeClosed = errors.New("runtime closed")

// ErrorMessage extracts the message a script raised.
// Errors raised with a string or number keep their text; anything else is UnknownError.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if apiErr.Object != nil && lua.LVCanConvToString(apiErr.Object) {
		return apiErr.Object.String()
	}
	if apiErr.Cause != nil {
		return apiErr.Cause.Error()
	}
	return UnknownError
}

// SyntaxError reports whether err was raised while compiling a chunk.
func SyntaxError(err error) bool {
	var apiErr *lua.ApiError
	return errors.As(err, &apiErr) && apiErr.Type == lua.ApiErrorSyntax
}

func wrapLoad(name string, err error) error {
	return fmt.Errorf("load %s: %w", name, err)
}
