package glfw

import (
	"errors"
	"fmt"

	"github.com/bnema/nativewindow/internal/native"
)

// ErrorCode is an error category reported by the native library.
type ErrorCode int32

const (
	NotInitialized     ErrorCode = ErrorCode(native.NotInitialized)
	NoCurrentContext   ErrorCode = ErrorCode(native.NoCurrentContext)
	InvalidEnum        ErrorCode = ErrorCode(native.InvalidEnum)
	InvalidValue       ErrorCode = ErrorCode(native.InvalidValue)
	OutOfMemory        ErrorCode = ErrorCode(native.OutOfMemory)
	APIUnavailable     ErrorCode = ErrorCode(native.APIUnavailable)
	VersionUnavailable ErrorCode = ErrorCode(native.VersionUnavailable)
	PlatformError      ErrorCode = ErrorCode(native.PlatformError)
	FormatUnavailable  ErrorCode = ErrorCode(native.FormatUnavailable)
	NoWindowContext    ErrorCode = ErrorCode(native.NoWindowContext)

	// Unknown stands for any reported code outside the documented set.
	Unknown ErrorCode = -1
)

var codeNames = map[ErrorCode]string{
	NotInitialized:     "not initialized",
	NoCurrentContext:   "no current context",
	InvalidEnum:        "invalid enum",
	InvalidValue:       "invalid value",
	OutOfMemory:        "out of memory",
	APIUnavailable:     "API unavailable",
	VersionUnavailable: "version unavailable",
	PlatformError:      "platform error",
	FormatUnavailable:  "format unavailable",
	NoWindowContext:    "no window context",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	if c == Unknown {
		return "unknown error"
	}
	return fmt.Sprintf("unknown error 0x%x", int32(c))
}

// Known reports whether c is one of the documented categories.
func (c ErrorCode) Known() bool {
	_, ok := codeNames[c]
	return ok
}

// Error is a failure reported by the native library.
type Error struct {
	Code        ErrorCode
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return "glfw: " + e.Code.String()
	}
	return fmt.Sprintf("glfw: %s: %s", e.Code, e.Description)
}

// Is matches any *Error with the same code, so the sentinels below work
// with errors.Is regardless of description. A NotInitialized report also
// matches ErrNotInitialized, and any undocumented code matches ErrUnknown.
func (e *Error) Is(target error) bool {
	if target == ErrNotInitialized {
		return e.Code == NotInitialized
	}
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if t.Code == Unknown {
		return !e.Code.Known()
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is against native failures.
var (
	ErrNoCurrentContext   = &Error{Code: NoCurrentContext}
	ErrInvalidEnum        = &Error{Code: InvalidEnum}
	ErrInvalidValue       = &Error{Code: InvalidValue}
	ErrOutOfMemory        = &Error{Code: OutOfMemory}
	ErrAPIUnavailable     = &Error{Code: APIUnavailable}
	ErrVersionUnavailable = &Error{Code: VersionUnavailable}
	ErrPlatform           = &Error{Code: PlatformError}
	ErrFormatUnavailable  = &Error{Code: FormatUnavailable}
	ErrNoWindowContext    = &Error{Code: NoWindowContext}
	ErrUnknown            = &Error{Code: Unknown}
)

var (
	// ErrNotInitialized is returned when the runtime has not been initialized
	ErrNotInitialized = errors.New("glfw: not initialized")
	// ErrAlreadyInitialized is returned by a second Init without Terminate
	ErrAlreadyInitialized = errors.New("glfw: already initialized")
	// ErrWindowDestroyed is returned by operations on a destroyed window
	ErrWindowDestroyed = errors.New("glfw: window destroyed")
	// ErrNoneHandle is returned when the native library hands back a none handle
	ErrNoneHandle = errors.New("glfw: native library returned a none handle")
)
