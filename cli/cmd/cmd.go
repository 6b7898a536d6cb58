package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/phoenix/lang"
	"github.com/ardnew/phoenix/log"
	"github.com/ardnew/phoenix/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the output writer of the application in ctx, or
// [os.Stdout].
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource names standard input in place of a file path.
const stdinSource = "-"

// Script holds the flags shared by the commands that execute a script.
type Script struct {
	Path   string   `arg:"" default:"."     help:"Script file, or directory holding ${entry}" optional:"" type:"path"`
	Legacy bool     `       help:"Also accept a '${legacy}' entry file"`
	Define []string `       help:"Define superglobal NAME as VALUE"          placeholder:"NAME=VALUE" short:"D" sep:"none"`
}

// stack returns a new interpreter configured from the flags, writing
// script output to w.
func (s *Script) stack(w io.Writer, opts ...lang.Option) (*lang.Stack, error) {
	defs, err := parseDefines(s.Define)
	if err != nil {
		return nil, err
	}

	return newStack(w, append(append(opts, lang.WithLegacy(s.Legacy)), defs...)...), nil
}

// run executes the script and returns its result along with the stack it
// ran on.
func (s *Script) run(
	ctx context.Context,
	w io.Writer,
	opts ...lang.Option,
) (lang.Value, *lang.Stack, error) {
	st, err := s.stack(w, opts...)
	if err != nil {
		return nil, nil, err
	}

	v, err := lang.Run(ctx, st, s.Path)

	return v, st, err
}

// newStack returns an interpreter that logs through the package-level
// logger and reports the version of this build.
func newStack(w io.Writer, opts ...lang.Option) *lang.Stack {
	base := []lang.Option{
		lang.WithOutput(w),
		lang.WithLogger(log.With(slog.String("component", "lang"))),
		lang.WithVersion(pkg.Version),
	}

	return lang.New(append(base, opts...)...)
}

// parseDefines converts NAME=VALUE pairs into superglobal options. VALUE
// is a Boolean for "true" or "false", an Integer if it parses as one, and
// a String otherwise.
func parseDefines(defs []string) ([]lang.Option, error) {
	opts := make([]lang.Option, 0, len(defs))

	for _, def := range defs {
		name, value, ok := strings.Cut(def, "=")
		name = strings.TrimPrefix(strings.TrimSpace(name), "$")

		if !ok || name == "" {
			return nil, ErrDefine.
				With(slog.String("define", def)).
				Wrap(pkg.ErrInvalidDefine.Wrapf("%q", def))
		}

		opts = append(opts, lang.WithSuperglobal(name, defineValue(value)))
	}

	return opts, nil
}

func defineValue(s string) lang.Value {
	switch s {
	case "true":
		return lang.Boolean(true)
	case "false":
		return lang.Boolean(false)
	}

	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return lang.Integer(n)
	}

	return lang.String(s)
}

// Vars returns the kong variables referenced by the command help.
func Vars() kong.Vars {
	return kong.Vars{
		"entry":  lang.EntryFile,
		"legacy": lang.LegacyEntryFile,
	}
}
