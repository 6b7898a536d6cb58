package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/phoenix/lang"
	"github.com/ardnew/phoenix/log"
)

// Run executes a script or a directory holding an entry script.
type Run struct {
	Script `embed:""`

	Print bool `help:"Print the value returned by the script" short:"p"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) error {
	w := stdout(ctx)

	v, st, err := r.run(ctx, w)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "script finished",
		slog.String("path", r.Path),
		slog.String("type", lang.TypeOf(v).String()))

	if r.Print {
		if v, err = st.Realize(ctx, v); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, lang.Pretty(v)); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
