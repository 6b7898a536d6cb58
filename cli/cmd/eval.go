package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/ardnew/phoenix/lang"
	"github.com/ardnew/phoenix/log"
	"github.com/ardnew/phoenix/pkg"
)

// Eval evaluates source text and prints the value of its last statement.
type Eval struct {
	Expr   []string `arg:"" help:"Source text; read from --source if omitted" optional:""`
	Source string   `       help:"Source file or '-' for stdin"              default:"-" short:"f"`
	Define []string `       help:"Define superglobal NAME as VALUE"          placeholder:"NAME=VALUE" short:"D" sep:"none"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) error {
	w := stdout(ctx)

	code, file, err := e.read(ctx)
	if err != nil {
		return err
	}

	defs, err := parseDefines(e.Define)
	if err != nil {
		return err
	}

	st := newStack(w, defs...)

	// Relative paths in the source resolve against its directory.
	if file != stdinName && file != exprName {
		if dir, err := filepath.Abs(filepath.Dir(file)); err == nil {
			st.PushDir(dir)
		}
	}

	v, err := lang.Eval(ctx, st, code, file)
	if err != nil {
		return err
	}

	if v, err = st.Realize(ctx, v); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, lang.Pretty(v)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

const (
	stdinName = "(stdin)"
	exprName  = "(command line)"
)

// read returns the source text and the file name errors are attributed to.
func (e *Eval) read(ctx context.Context) (code, file string, err error) {
	if len(e.Expr) > 0 {
		return strings.Join(e.Expr, " "), exprName, nil
	}

	var (
		r    io.Reader
		name string
	)

	if e.Source == stdinSource {
		r, name = os.Stdin, stdinName

		if term.IsTerminal(int(os.Stdin.Fd())) {
			log.InfoContext(ctx, "reading source from the terminal; end with Ctrl-D")
		}
	} else {
		f, err := os.Open(e.Source)
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", lang.NewError(lang.FileDoesNotExist, e.Source)
		}

		if err != nil {
			return "", "", ErrReadSource.
				With(slog.String("file", e.Source)).
				Wrap(pkg.ErrReadInput.Wrap(err))
		}
		defer f.Close()

		r, name = f, e.Source
	}

	buf, err := io.ReadAll(r)
	if err != nil {
		sentinel := pkg.ErrReadInput
		if name == stdinName {
			sentinel = pkg.ErrReadStdin
		}

		return "", "", ErrReadSource.
			With(slog.String("file", name)).
			Wrap(sentinel.Wrap(err))
	}

	return string(buf), name, nil
}
