package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/phoenix/lang"
	"github.com/ardnew/phoenix/log"
)

// sourceName is the file name that errors in typed input are attributed to.
const sourceName = "(repl)"

// commandPrefix introduces a session command instead of source text.
const commandPrefix = ":"

// commands are the session commands, without the prefix.
var commands = []string{"help", "vars", "clear", "quit"}

func helpMessage() string {
	return `
Commands:

  :help    Print this help
  :vars    List variables and their values
  :clear   Clear the screen
  :quit    Exit

Anything else is evaluated as Phoenix source and the value of the last
statement is printed. Variables persist between inputs.

Keys:
  Tab / Shift-Tab   cycle through completions
  Up / Down         history
  Ctrl-C            clear the line, or exit on an empty line
  Ctrl-D            exit on an empty line
`
}

// Session evaluates input against one interpreter stack. Output written by
// print() and dump() is collected per input.
type Session struct {
	stack  *lang.Stack
	out    *bytes.Buffer
	logger log.Logger
}

// NewSession returns a session on a new stack configured with opts.
func NewSession(logger log.Logger, opts ...lang.Option) *Session {
	out := new(bytes.Buffer)

	return &Session{
		stack:  lang.New(append(opts, lang.WithOutput(out))...),
		out:    out,
		logger: logger,
	}
}

// Stack returns the interpreter stack of the session.
func (s *Session) Stack() *lang.Stack { return s.stack }

// Result is the outcome of one input.
type Result struct {
	// Output is what the input printed.
	Output string
	// Value is the pretty form of the value of the last statement, or
	// the text produced by a command.
	Value string
	// Err is the evaluation error, if any.
	Err error
	// Clear and Quit are set by the corresponding commands.
	Clear, Quit bool
}

// Eval evaluates one line of input.
func (s *Session) Eval(ctx context.Context, input string) Result {
	input = strings.TrimSpace(input)

	if cmd, ok := strings.CutPrefix(input, commandPrefix); ok {
		return s.command(ctx, cmd)
	}

	s.out.Reset()

	v, err := lang.Eval(ctx, s.stack, input, sourceName)
	if err == nil {
		v, err = s.stack.Realize(ctx, v)
	}

	r := Result{Output: s.out.String(), Err: err}
	if err == nil {
		r.Value = lang.Pretty(v)
	}

	s.logger.TraceContext(ctx, "repl eval",
		slog.String("input", input),
		slog.Bool("failed", err != nil))

	return r
}

func (s *Session) command(ctx context.Context, input string) Result {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Result{Value: helpMessage()}
	}

	s.logger.TraceContext(ctx, "repl command", slog.String("command", fields[0]))

	switch fields[0] {
	case "h", "help":
		return Result{Value: helpMessage()}
	case "v", "vars":
		return Result{Value: s.vars()}
	case "c", "clear":
		return Result{Clear: true}
	case "q", "quit", "exit":
		return Result{Quit: true}
	default:
		return Result{Err: fmt.Errorf("unknown command %q (try :help)", fields[0])}
	}
}

// vars lists the global variables, one per line, with a shortened preview.
func (s *Session) vars() string {
	globals := s.stack.Globals()

	var sb strings.Builder

	for _, k := range globals.Keys() {
		fmt.Fprintf(&sb, "$%s = %s\n", k, preview(globals[k]))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// preview returns the raw form of v, shortened to one line.
func preview(v lang.Value) string {
	const limit = 60

	s := strings.ReplaceAll(lang.Raw(v), "\n", `\n`)
	if len(s) > limit {
		return s[:limit-3] + "..."
	}

	return s
}
