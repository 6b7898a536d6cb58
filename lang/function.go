package lang

import (
	"context"
	"log/slog"
)

// MaxCallDepth bounds the number of scope frames, which limits recursion
// through user functions.
const MaxCallDepth = 1024

// NativeFunc is a host-provided callable. this is the invocation context
// (the container the function was reached through) or nil; args holds the
// named arguments, with a positional first argument stored under "0".
type NativeFunc func(ctx context.Context, s *Stack, this Value, args Map) (Value, error)

// Function is either a native callable or a user-defined function whose body
// is re-evaluated from source on every call.
type Function struct {
	native NativeFunc
	body   string
	file   string
	line   int
	user   bool
}

// Native wraps fn as a [*Function].
func Native(fn NativeFunc) *Function {
	return &Function{native: fn}
}

// UserFunction returns a function whose body is the given source text,
// attributed to file starting at line.
func UserFunction(body, file string, line int) *Function {
	return &Function{body: body, file: file, line: line, user: true}
}

func (*Function) Type() Type { return TypeFunction }

func (f *Function) raw() string {
	if f.IsNative() {
		return "<NativeFunction>"
	}

	return "<Function>"
}

func (f *Function) pretty() string { return f.raw() }

// IsNative reports whether f is implemented by the host.
func (f *Function) IsNative() bool { return f != nil && f.native != nil }

// Source returns the body, file and line of a user-defined function.
func (f *Function) Source() (body, file string, line int) {
	return f.body, f.file, f.line
}

// Call invokes f. Native functions receive the arguments directly. User
// functions run in a fresh frame holding only this, __arguments and one
// binding per argument; the frame is popped on every exit path and a
// return inside the body ends only this call.
func (f *Function) Call(
	ctx context.Context,
	s *Stack,
	this Value,
	args Map,
) (Value, error) {
	if f == nil || (f.native == nil && !f.user) {
		return nil, newError(AccessViolation, "cannot call null function")
	}

	if args == nil {
		args = Map{}
	}

	s.logger.TraceContext(ctx, "call",
		slog.Bool("native", f.IsNative()),
		slog.Int("args", len(args)),
		slog.Int("depth", s.Depth()),
	)

	if f.native != nil {
		return f.native(ctx, s, this, args)
	}

	if s.Depth() >= MaxCallDepth {
		return nil, newError(InternalError, "maximum call depth of %d exceeded", MaxCallDepth)
	}

	s.Push()
	defer s.Pop()

	if this != nil {
		s.SetLocal("this", this)
	}

	s.SetLocal("__arguments", args)

	for name, v := range args {
		s.SetLocal(name, v)
	}

	v, err := EvalString(ctx, s, f.body, f.file, f.line)
	if err != nil {
		return nil, err
	}

	// References to arguments and locals resolve before the frame is popped.
	return s.Realize(ctx, v)
}
