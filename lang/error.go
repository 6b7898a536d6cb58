package lang

//go:generate go tool stringer --type Kind --output kind_string.go

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Kind classifies an [Error]. The numeric value of each kind is also the
// process exit status used by the command-line runner.
type Kind int

const (
	InternalError    Kind = iota + 2 // interpreter bug
	FileDoesNotExist                 // script path or entry file missing
	SyntaxError                      // malformed source
	TypeError                        // operand or path type mismatch
	AccessViolation                  // superglobal write, null function call
	UserError                        // raised by fatal()
	ArithmeticError                  // divide or modulo by zero
	RangeError                       // list index out of bounds
)

// Sentinel errors for use with [errors.Is]. Any [Error] matches the sentinel
// of the same kind.
var (
	ErrInternal         = &Error{kind: InternalError}
	ErrFileDoesNotExist = &Error{kind: FileDoesNotExist}
	ErrSyntax           = &Error{kind: SyntaxError}
	ErrType             = &Error{kind: TypeError}
	ErrAccessViolation  = &Error{kind: AccessViolation}
	ErrUser             = &Error{kind: UserError}
	ErrArithmetic       = &Error{kind: ArithmeticError}
	ErrRange            = &Error{kind: RangeError}
)

// Error is an exception raised while parsing or evaluating a script.
type Error struct {
	kind  Kind
	msg   string
	file  string
	line  int
	err   error
	attrs []slog.Attr
}

func newError(kind Kind, format string, args ...any) *Error {
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}

	return &Error{kind: kind, msg: format}
}

// NewError returns an error of the given kind. Native functions use it to
// raise script-visible exceptions.
func NewError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// WrapError converts err into an [*Error]. Errors that already are (or wrap)
// an [*Error] are returned as-is; anything else becomes an InternalError
// carrying err as its cause.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{kind: InternalError, msg: err.Error(), err: err}
}

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// ExitCode returns the process exit status for the error.
func (e *Error) ExitCode() int { return int(e.kind) }

// File returns the script path the error is attributed to, if any.
func (e *Error) File() string { return e.file }

// Line returns the 1-based source line the error is attributed to, or 0.
func (e *Error) Line() int { return e.line }

// Message returns the kind-specific description without location.
func (e *Error) Message() string {
	if e.kind == FileDoesNotExist {
		return "file '" + e.msg + "' does not exist"
	}

	return e.msg
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Message())

	if e.file != "" && e.line > 0 {
		sb.WriteString(" at line ")
		sb.WriteString(strconv.Itoa(e.line))
		sb.WriteString(" of '")
		sb.WriteString(e.file)
		sb.WriteString("'")
	}

	return sb.String()
}

// Print writes the user-facing form of the error, terminated by a period.
func (e *Error) Print(w io.Writer) error {
	_, err := fmt.Fprintln(w, e.Error()+".")

	return err
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an [*Error] sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.kind == e.kind && (t.msg == "" || t.msg == e.msg)
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)
	attrs = append(attrs,
		slog.String("kind", e.kind.String()),
		slog.String("error", e.Message()),
	)

	if e.file != "" {
		attrs = append(attrs, slog.String("file", e.file))
	}

	if e.line > 0 {
		attrs = append(attrs, slog.Int("line", e.line))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e carrying err as its cause.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with additional structured logging attributes.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	c.attrs = append(append(c.attrs, e.attrs...), attrs...)

	return &c
}

// at returns a copy of e attributed to file and line. Location already
// present is kept.
func (e *Error) at(file string, line int) *Error {
	c := *e

	if c.line == 0 {
		c.line = line
	}

	if c.file == "" {
		c.file = file
	}

	return &c
}

// attribute converts any error into an attributed [*Error].
func attribute(err error, file string, line int) *Error {
	return WrapError(err).at(file, line)
}
