package pkg

import (
	"fmt"
	"strings"
)

// Error is a chain of errors, innermost first.
type Error []error

// Sentinel errors shared by the command-line packages.
var (
	// ErrReadInput is wrapped around failures reading a script or expression.
	ErrReadInput = MakeErrorf("failed to read input")
	// ErrReadStdin is wrapped around failures reading standard input.
	ErrReadStdin = MakeErrorf("failed to read stdin")
	// ErrInvalidFormat reports an unknown output format.
	ErrInvalidFormat = MakeErrorf("invalid format")
	// ErrInvalidDefine reports a malformed NAME=VALUE definition.
	ErrInvalidDefine = MakeErrorf("invalid definition")
	// ErrWriteConfig is wrapped around failures writing a configuration file.
	ErrWriteConfig = MakeErrorf("failed to write configuration")
	// ErrConfigExists reports an existing configuration file that would be
	// overwritten.
	ErrConfigExists = MakeErrorf("configuration file exists")
)

// MakeError constructs an Error from errs, flattening any wrapped chains.
// Nil errors are skipped.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error joins the messages of the chain with ": ", innermost first.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range e {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap appends errs to a copy of the chain.
func (e Error) Wrap(errs ...error) Error {
	return append(e[:len(e):len(e)], errs...)
}

// Wrapf appends a formatted error to a copy of the chain.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the errors of the chain.
func (e Error) Unwrap() []error {
	return e
}

// Is reports whether target is a chain whose errors all appear, in order,
// at the start of e. A sentinel therefore matches every chain built from it.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i := range t {
		if t[i] != e[i] {
			return false
		}
	}

	return true
}

// UnwrapErrors flattens an error tree into a chain, innermost first.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	// A chain is already flat.
	if e, ok := err.(Error); ok {
		return append(Error(nil), e...)
	}

	chain := Error{}

	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	} else if e, ok := err.(interface{ Unwrap() error }); ok {
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
