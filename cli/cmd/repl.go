package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/ardnew/phoenix/cli/cmd/repl"
	"github.com/ardnew/phoenix/lang"
	"github.com/ardnew/phoenix/log"
	"github.com/ardnew/phoenix/pkg"
)

// Repl starts an interactive session.
type Repl struct {
	Define    []string `help:"Define superglobal NAME as VALUE" placeholder:"NAME=VALUE" short:"D" sep:"none"`
	NoHistory bool     `help:"Do not read or write the history file"`
}

// Run executes the repl command. Input that is not a terminal is evaluated
// line by line without the interactive editor.
func (r *Repl) Run(ctx context.Context) error {
	defs, err := parseDefines(r.Define)
	if err != nil {
		return err
	}

	logger := log.With(slog.String("component", "repl"))

	session := repl.NewSession(logger, append([]lang.Option{
		lang.WithLogger(log.With(slog.String("component", "lang"))),
		lang.WithVersion(pkg.Version),
	}, defs...)...)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return repl.RunLines(ctx, session, os.Stdin, stdout(ctx))
	}

	return repl.Run(ctx, session, repl.NewHistory(r.historyPath(ctx)))
}

// historyPath returns the history file in the cache directory of the
// application, or "" if history is disabled.
func (r *Repl) historyPath(ctx context.Context) string {
	if r.NoHistory {
		return ""
	}

	dir := pkg.CacheDir()
	if ktx := kongContextFrom(ctx); ktx != nil {
		if d, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			dir = d
		}
	}

	return filepath.Join(dir, repl.HistoryFile)
}
