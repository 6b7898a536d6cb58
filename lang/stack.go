package lang

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/phoenix/log"
)

// Stack holds all interpreter state: the scope frames, the superglobal
// frame, the directory-context stack, the list of input files and the
// function registry. A Stack is not safe for concurrent use.
type Stack struct {
	frames    []Map
	super     Map
	dirs      []string
	inputs    []string
	functions map[string]*Function
	programs  map[string]*vm.Program

	stdout  io.Writer
	logger  log.Logger
	version string
	environ []string
	legacy  bool

	// members counts templates being realized for a member lookup.
	members int
}

// Option configures a [Stack].
type Option func(*Stack)

// WithOutput sets the writer used by print() and dump().
func WithOutput(w io.Writer) Option {
	return func(s *Stack) {
		if w == nil {
			w = io.Discard
		}

		s.stdout = w
	}
}

// WithLogger sets the structured logger used for trace-level diagnostics.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(s *Stack) { s.logger = logger }
}

// WithVersion overrides the interpreter version reported to scripts and
// checked by $Phoenix.checkVersion.
func WithVersion(version string) Option {
	return func(s *Stack) { s.version = strings.TrimSpace(version) }
}

// WithEnviron sets the process environment visible to $Phoenix.eval.
// If envList is nil, os.Environ() is used.
func WithEnviron(envList []string) Option {
	return func(s *Stack) { s.environ = envList }
}

// WithLegacy enables the legacy entry file name "Phoenixfile".
func WithLegacy(legacy bool) Option {
	return func(s *Stack) { s.legacy = legacy }
}

// WithSuperglobal registers an additional superglobal.
func WithSuperglobal(name string, value Value) Option {
	return func(s *Stack) { s.AddSuperglobal(name, value) }
}

// WithFunction registers an additional global function.
func WithFunction(name string, fn *Function) Option {
	return func(s *Stack) { s.Register(name, fn) }
}

// New returns a Stack with one frame, the builtin functions and the
// conventional superglobals registered. Functions and superglobals supplied
// as options take precedence over the builtins of the same name.
func New(opts ...Option) *Stack {
	s := &Stack{
		super:     Map{},
		functions: map[string]*Function{},
		programs:  map[string]*vm.Program{},
		stdout:    os.Stdout,
		version:   DefaultVersion,
	}

	s.Push()

	for _, opt := range opts {
		opt(s)
	}

	registerBuiltins(s)

	return s
}

// Push appends a new innermost frame.
func (s *Stack) Push() {
	s.frames = append(s.frames, Map{})

	s.logger.Trace("push", slog.Int("depth", len(s.frames)))
}

// Pop removes the innermost frame. The outermost frame is never removed.
func (s *Stack) Pop() {
	if len(s.frames) > 1 {
		s.frames[len(s.frames)-1] = nil
		s.frames = s.frames[:len(s.frames)-1]

		s.logger.Trace("pop", slog.Int("depth", len(s.frames)))
	}
}

// Depth returns the number of frames.
func (s *Stack) Depth() int { return len(s.frames) }

// Globals returns a copy of the outermost frame.
func (s *Stack) Globals() Map {
	return Copy(s.frames[0]).(Map)
}

// Locals returns a copy of the innermost frame.
func (s *Stack) Locals() Map {
	return Copy(s.frames[len(s.frames)-1]).(Map)
}

// Superglobals returns a copy of the superglobal frame.
func (s *Stack) Superglobals() Map {
	return Copy(s.super).(Map)
}

// Names returns every variable, superglobal (with a '$' prefix) and global
// function name currently visible, sorted.
func (s *Stack) Names() []string {
	seen := map[string]struct{}{}

	for _, f := range s.frames {
		for k := range f {
			seen["$"+k] = struct{}{}
		}
	}

	for k := range s.super {
		seen["$$"+k] = struct{}{}
	}

	for k := range s.functions {
		seen[k] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen))
}

// AddSuperglobal stores a copy of value in the superglobal frame. Scripts
// can read superglobals but never write them.
func (s *Stack) AddSuperglobal(name string, value Value) {
	s.super[name] = Copy(value)
}

// Register adds or replaces a global function.
func (s *Stack) Register(name string, fn *Function) {
	s.functions[name] = fn
}

// Function returns the global function registered under name.
func (s *Stack) Function(name string) (*Function, bool) {
	fn, ok := s.functions[name]

	return fn, ok
}

// frameOf returns the innermost frame defining name, or the innermost frame
// if no frame does.
func (s *Stack) frameOf(name string) Map {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i][name]; ok {
			return s.frames[i]
		}
	}

	return s.frames[len(s.frames)-1]
}

// Get resolves a variable path and returns a copy of the value found.
// Missing variables yield Undefined.
func (s *Stack) Get(path ...string) (Value, error) {
	v, err := s.lookup(path)
	if err != nil {
		return nil, err
	}

	return Copy(v), nil
}

// lookup resolves path without copying the result.
func (s *Stack) lookup(path []string) (Value, error) {
	if len(path) == 0 {
		return Undefined{}, nil
	}

	var (
		cur Value
		ok  bool
	)

	if name, super := strings.CutPrefix(path[0], "$"); super {
		cur, ok = s.super[name]
	} else {
		cur, ok = s.frameOf(path[0])[path[0]]
	}

	if !ok {
		return Undefined{}, nil
	}

	for i := 1; i < len(path); i++ {
		if t, ok := cur.(Template); ok {
			r, err := s.memberTemplate(t)
			if err != nil {
				return nil, err
			}

			cur = String(r)
		}

		if m, ok := primitiveMember(cur, path[i]); ok {
			return m, nil
		}

		switch c := cur.(type) {
		case Map:
			if cur, ok = c[path[i]]; !ok {
				return Undefined{}, nil
			}

		case List:
			idx, err := listIndex(path[i])
			if err != nil {
				return nil, err
			}

			if idx < 0 || idx >= len(c) {
				return nil, newError(RangeError,
					"index %d is out of bounds for '%s' (length %d)",
					idx, path[i-1], len(c))
			}

			cur = c[idx]

		default:
			return nil, newError(TypeError,
				"'%s' should be either 'List' or 'Map' but is neither", path[i-1])
		}
	}

	return cur, nil
}

// memberTemplate realizes a template whose member is looked up.
func (s *Stack) memberTemplate(t Template) (string, error) {
	if s.members >= maxTemplateDepth {
		return "", newError(TypeError, "template references itself").at(templateFile, t.Line)
	}

	s.members++
	defer func() { s.members-- }()

	return s.realizeTemplate(context.Background(), t, 0)
}

// primitiveMember implements the read-only members every String, List and
// Map exposes.
func primitiveMember(v Value, name string) (Value, bool) {
	if name != "length" {
		return nil, false
	}

	switch v := v.(type) {
	case String:
		return Integer(len(v)), true
	case List:
		return Integer(len(v)), true
	case Map:
		if _, shadowed := v[name]; !shadowed {
			return Integer(len(v)), true
		}
	}

	return nil, false
}

func listIndex(seg string) (int, error) {
	n, err := strconv.ParseInt(seg, 10, 32)
	if err != nil {
		return 0, newError(SyntaxError, "expected integer, got '%s'", seg)
	}

	return int(n), nil
}

// Set assigns a copy of value to path. A single-segment path updates the
// innermost frame already defining the name, or creates it in the innermost
// frame. Longer paths write into the container named by the prefix.
func (s *Stack) Set(path []string, value Value) error {
	if len(path) == 0 {
		return newError(InternalError, "empty variable path")
	}

	if strings.HasPrefix(path[0], "$") {
		return newError(AccessViolation, "superglobals are read-only")
	}

	frame := s.frameOf(path[0])

	if len(path) == 1 {
		frame[path[0]] = Copy(value)

		return nil
	}

	root, ok := frame[path[0]]
	if !ok {
		root = Undefined{}
	}

	updated, err := assign(root, path, 1, value)
	if err != nil {
		return err
	}

	frame[path[0]] = updated

	return nil
}

// assign stores value at path[i:] inside container and returns the
// container. Containers are modified in place.
func assign(container Value, path []string, i int, value Value) (Value, error) {
	seg := path[i]
	last := i == len(path)-1

	switch c := container.(type) {
	case Map:
		if last {
			c[seg] = Copy(value)

			return c, nil
		}

		next, ok := c[seg]
		if !ok {
			next = Undefined{}
		}

		updated, err := assign(next, path, i+1, value)
		if err != nil {
			return nil, err
		}

		c[seg] = updated

		return c, nil

	case List:
		idx, err := listIndex(seg)
		if err != nil {
			return nil, err
		}

		if last && idx == len(c) {
			return append(c, Copy(value)), nil
		}

		if idx < 0 || idx >= len(c) {
			return nil, newError(RangeError,
				"index %d is out of bounds for '%s' (length %d)",
				idx, path[i-1], len(c))
		}

		if last {
			c[idx] = Copy(value)

			return c, nil
		}

		updated, err := assign(c[idx], path, i+1, value)
		if err != nil {
			return nil, err
		}

		c[idx] = updated

		return c, nil

	default:
		return nil, newError(TypeError,
			"'%s' should be either 'List' or 'Map' but is neither", path[i-1])
	}
}

// SetLocal binds name in the innermost frame regardless of outer frames.
func (s *Stack) SetLocal(name string, value Value) {
	s.frames[len(s.frames)-1][name] = Copy(value)
}

// PushDir makes dir the current directory context.
func (s *Stack) PushDir(dir string) {
	s.dirs = append(s.dirs, dir)
}

// PopDir restores the previous directory context.
func (s *Stack) PopDir() {
	if len(s.dirs) > 0 {
		s.dirs = s.dirs[:len(s.dirs)-1]
	}
}

// CurrentDir returns the directory of the script currently executing, or
// the process working directory outside of any script.
func (s *Stack) CurrentDir() string {
	if len(s.dirs) > 0 {
		return s.dirs[len(s.dirs)-1]
	}

	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return "."
}

// InputFiles returns every script file read by [Run], in order.
func (s *Stack) InputFiles() []string {
	return slices.Clone(s.inputs)
}

func (s *Stack) addInputFile(path string) {
	s.inputs = append(s.inputs, path)

	s.logger.Debug("input file", slog.String("file", path))
}
