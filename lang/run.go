package lang

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ScriptExt is the file extension of Phoenix scripts.
	ScriptExt = ".phnx"

	// EntryFile is the script executed when [Run] is given a directory.
	EntryFile = "Phoenixfile" + ScriptExt

	// LegacyEntryFile is accepted in place of [EntryFile] when the stack is
	// configured with [WithLegacy].
	LegacyEntryFile = "Phoenixfile"
)

// ResolveScript returns the script file for path: path itself if it is a
// regular file, otherwise the entry file inside the directory path.
func (s *Stack) ResolveScript(path string) (string, error) {
	candidates := []string{path, filepath.Join(path, EntryFile)}
	if s.legacy {
		candidates = append(candidates, filepath.Join(path, LegacyEntryFile))
	}

	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}

	return "", newError(FileDoesNotExist, "%s", path)
}

// Run executes the script at path (a file, or a directory holding an entry
// file). The directory of the script is the current directory for the
// duration of the run. A top-level return ends the script and its value
// is returned.
func Run(ctx context.Context, s *Stack, path string) (Value, error) {
	file, err := s.ResolveScript(path)
	if err != nil {
		return nil, err
	}

	code, err := os.ReadFile(file)
	if err != nil {
		return nil, NewError(InternalError, "unable to read script").Wrap(err).
			With(slog.String("file", file))
	}

	dir := filepath.Dir(file)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	s.addInputFile(file)
	s.PushDir(dir)

	defer s.PopDir()

	s.logger.DebugContext(ctx, "run", slog.String("file", file), slog.String("dir", dir))

	v, err := EvalString(ctx, s, string(code), file, 1)
	if err != nil {
		return nil, err
	}

	s.logger.TraceContext(ctx, "run finished", slog.String("file", file))

	return v, nil
}

// EvalString executes code as a sequence of statements attributed to file
// starting at line. It returns the value of a top-level return, or
// Undefined.
func EvalString(ctx context.Context, s *Stack, code, file string, line int) (Value, error) {
	f, err := exec(ctx, s, code, file, line)
	if err != nil {
		return nil, err
	}

	if f.signal == sigReturn {
		return f.value, nil
	}

	return Undefined{}, nil
}

// Eval executes code like [EvalString] but returns the value of the last
// statement when the code does not return.
func Eval(ctx context.Context, s *Stack, code, file string) (Value, error) {
	f, err := exec(ctx, s, code, file, 1)
	if err != nil {
		return nil, err
	}

	if f.value == nil {
		return Undefined{}, nil
	}

	return f.value, nil
}

// EvalReader reads all of r and executes it with [Eval].
func EvalReader(ctx context.Context, s *Stack, r io.Reader, file string) (Value, error) {
	code, err := io.ReadAll(r)
	if err != nil {
		return nil, NewError(InternalError, "unable to read input").Wrap(err)
	}

	return Eval(ctx, s, string(code), file)
}

func exec(ctx context.Context, s *Stack, code, file string, line int) (flow, error) {
	in := &interp{ctx: ctx, s: s}
	c := newCursor(code, file, line)

	f, err := in.block(c)
	if err != nil {
		return flow{}, attribute(err, file, c.line)
	}

	switch f.signal {
	case sigBreak:
		return flow{}, newError(SyntaxError, "unexpected 'break'").at(file, f.line)
	case sigContinue:
		return flow{}, newError(SyntaxError, "unexpected 'continue'").at(file, f.line)
	}

	return f, nil
}
