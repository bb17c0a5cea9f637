package dwf

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure reported by the WaveForms SDK.
type ErrorCode int

const (
	// CodeUnknown is an unknown error reported by the SDK.
	CodeUnknown ErrorCode = iota
	// CodeAPILockTimeout means the SDK could not take its API lock in time.
	CodeAPILockTimeout
	// CodeAlreadyOpened means the device is in use by this or another program.
	CodeAlreadyOpened
	// CodeNotSupported means the call is not supported by this device.
	CodeNotSupported
	// CodeInvalidParameter means the N-th parameter of a call was rejected.
	// Error.Param carries N.
	CodeInvalidParameter
	// CodeOther is an SDK error code this package does not know about.
	CodeOther
	// CodeUnknownVariant means the SDK returned an enum value this package
	// does not know about, usually because the SDK is newer.
	CodeUnknownVariant
)

func (c ErrorCode) String() string {
	switch c {
	case CodeUnknown:
		return "unknown"
	case CodeAPILockTimeout:
		return "api lock timeout"
	case CodeAlreadyOpened:
		return "already opened"
	case CodeNotSupported:
		return "not supported"
	case CodeInvalidParameter:
		return "invalid parameter"
	case CodeOther:
		return "other"
	case CodeUnknownVariant:
		return "unknown variant"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// SDK error codes as defined by dwf.h (DWFERC).
const (
	sdkNoError           = 0
	sdkUnknownError      = 1
	sdkAPILockTimeout    = 2
	sdkAlreadyOpened     = 3
	sdkNotSupported      = 4
	sdkInvalidParameter0 = 0x10
	sdkInvalidParameter4 = 0x14
)

// Error is any failure returned by the wrapped SDK, with the SDK's own
// descriptive message in Reason.
type Error struct {
	Code   ErrorCode
	Param  int // parameter index, only meaningful for CodeInvalidParameter
	Reason string
}

func (e *Error) Error() string {
	code := e.Code.String()
	if e.Code == CodeInvalidParameter {
		code = fmt.Sprintf("invalid parameter %d", e.Param)
	}
	if e.Reason == "" {
		return "dwf: " + code
	}
	return fmt.Sprintf("dwf: %s: %s", code, e.Reason)
}

// Is reports whether target is an *Error with the same code. For
// CodeInvalidParameter a target Param of -1 matches any parameter index.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	if e.Code == CodeInvalidParameter && t.Param >= 0 {
		return t.Param == e.Param
	}
	return true
}

// Sentinels for errors.Is matching on the SDK error code.
var (
	ErrUnknown          = &Error{Code: CodeUnknown}
	ErrAPILockTimeout   = &Error{Code: CodeAPILockTimeout}
	ErrAlreadyOpened    = &Error{Code: CodeAlreadyOpened}
	ErrNotSupported     = &Error{Code: CodeNotSupported}
	ErrInvalidParameter = &Error{Code: CodeInvalidParameter, Param: -1}
	ErrUnknownVariant   = &Error{Code: CodeUnknownVariant}
)

var (
	// ErrHandleClosed is returned by instrument calls made after the device
	// handle was closed.
	ErrHandleClosed = errors.New("dwf: device handle closed")

	// ErrNativeUnavailable is returned by NewNativeDriver when the binary
	// was built without the dwf build tag.
	ErrNativeUnavailable = errors.New("dwf: native SDK support not compiled in (build with -tags dwf)")

	// ErrNotFound is returned when no device matches a selector.
	ErrNotFound = errors.New("dwf: device not found")
)

// ErrorFromSDK translates a raw DWFERC code and message into an *Error.
// It returns nil for the SDK's "no error" code.
func ErrorFromSDK(code int, msg string) *Error {
	e := &Error{Reason: msg}
	switch {
	case code == sdkNoError:
		return nil
	case code == sdkUnknownError:
		e.Code = CodeUnknown
	case code == sdkAPILockTimeout:
		e.Code = CodeAPILockTimeout
	case code == sdkAlreadyOpened:
		e.Code = CodeAlreadyOpened
	case code == sdkNotSupported:
		e.Code = CodeNotSupported
	case code >= sdkInvalidParameter0 && code <= sdkInvalidParameter4:
		e.Code = CodeInvalidParameter
		e.Param = code - sdkInvalidParameter0
	default:
		e.Code = CodeOther
	}
	return e
}

func invalidParam(n int, format string, args ...any) *Error {
	return &Error{Code: CodeInvalidParameter, Param: n, Reason: fmt.Sprintf(format, args...)}
}

func unknownVariant(kind string, v int) *Error {
	return &Error{Code: CodeUnknownVariant, Reason: fmt.Sprintf("%s value %d is not known to this version", kind, v)}
}
