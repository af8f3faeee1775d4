// Package ffdc defines the error taxonomy shared by the correlation core,
// the repository bindings and the REST layer.
//
// Every failure surfaced by a public operation is an *Error of one of four
// kinds. The core never translates an *Error returned by a collaborator; it
// passes it through so the caller sees the original code and message.
package ffdc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind categorises an Error.
type Kind int

const (
	// KindInvalidParameter is raised before any repository call when a
	// user id, name or type is missing or malformed.
	KindInvalidParameter Kind = iota + 1

	// KindUserNotAuthorized is raised by the repository when the caller
	// lacks rights for the requested operation.
	KindUserNotAuthorized

	// KindPropertyServer covers every other repository failure.
	KindPropertyServer

	// KindFunctionNotSupported marks operations that are rejected
	// unconditionally. It is never transient.
	KindFunctionNotSupported
)

// String returns the exception class name reported to REST callers.
func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "InvalidParameterException"
	case KindUserNotAuthorized:
		return "UserNotAuthorizedException"
	case KindPropertyServer:
		return "PropertyServerException"
	case KindFunctionNotSupported:
		return "FunctionNotSupportedException"
	default:
		return "UnknownException"
	}
}

// Error is a structured failure carrying a catalogued error code.
type Error struct {
	Kind Kind

	// Code is the catalogue entry the message was built from.
	Code ErrorCode

	// Message is the formatted message text, without the code id.
	Message string

	// ActionDescription names the operation that failed.
	ActionDescription string

	// Parameters holds diagnostic name/value pairs.
	Parameters map[string]string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface. The message is prefixed with the
// code id so callers can match on it. The cause is not repeated.
func (e *Error) Error() string {
	return e.Code.ID + " " + e.Message
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error with the same kind and code id.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code.ID == t.Code.ID
}

// HTTPCode returns the HTTP status that should accompany this error.
func (e *Error) HTTPCode() int {
	return e.Code.HTTPCode
}

// ParameterString renders Parameters deterministically, for logs.
func (e *Error) ParameterString() string {
	if len(e.Parameters) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Parameters))
	for k := range e.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Parameters[k])
	}
	return strings.Join(parts, ", ")
}

func newError(kind Kind, code ErrorCode, action string, cause error, args ...any) *Error {
	return &Error{
		Kind:              kind,
		Code:              code,
		Message:           code.Format(args...),
		ActionDescription: action,
		Cause:             cause,
	}
}

// WithParameter attaches a diagnostic parameter and returns e.
func (e *Error) WithParameter(name, value string) *Error {
	if e.Parameters == nil {
		e.Parameters = make(map[string]string)
	}
	e.Parameters[name] = value
	return e
}

// NewInvalidParameter builds a KindInvalidParameter error.
func NewInvalidParameter(code ErrorCode, action string, args ...any) *Error {
	return newError(KindInvalidParameter, code, action, nil, args...)
}

// NewUserNotAuthorized builds a KindUserNotAuthorized error.
func NewUserNotAuthorized(code ErrorCode, action string, args ...any) *Error {
	return newError(KindUserNotAuthorized, code, action, nil, args...)
}

// NewPropertyServer builds a KindPropertyServer error wrapping cause.
func NewPropertyServer(code ErrorCode, action string, cause error, args ...any) *Error {
	return newError(KindPropertyServer, code, action, cause, args...)
}

// NewFunctionNotSupported builds a KindFunctionNotSupported error.
func NewFunctionNotSupported(code ErrorCode, action string, args ...any) *Error {
	return newError(KindFunctionNotSupported, code, action, nil, args...)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// IsInvalidParameter reports whether err is an invalid parameter failure.
func IsInvalidParameter(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindInvalidParameter
}

// IsUserNotAuthorized reports whether err is an authorization denial.
func IsUserNotAuthorized(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindUserNotAuthorized
}

// IsPropertyServer reports whether err is a repository failure.
func IsPropertyServer(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindPropertyServer
}

// IsFunctionNotSupported reports whether err is an unsupported operation.
func IsFunctionNotSupported(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindFunctionNotSupported
}

// Wrap converts an arbitrary collaborator error into a property server
// error. *Error values are returned unchanged.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return NewPropertyServer(RepositoryFailure, action, err, action, err.Error())
}

// Errorf is a convenience for building an unexpected property server
// failure from a format string.
func Errorf(action, format string, args ...any) *Error {
	return NewPropertyServer(RepositoryFailure, action, fmt.Errorf(format, args...), action, fmt.Sprintf(format, args...))
}
