package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/phoenix/pkg"
)

// Dump runs a script and writes its top-level variables as YAML or JSON.
type Dump struct {
	Script `embed:""`

	Format string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})"           short:"F"`
	Indent int    `default:"2"                     help:"Indentation; 0 for a compact form" short:"i"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) error {
	w := stdout(ctx)

	_, st, err := d.run(ctx, nil)
	if err != nil {
		return err
	}

	globals := st.Globals()

	switch d.Format {
	case "yaml":
		err = st.FormatYAML(ctx, w, globals, d.Indent)
	case "json":
		err = st.FormatJSON(ctx, w, globals, d.Indent)
	default:
		err = pkg.ErrInvalidFormat.Wrapf("%q", d.Format)
	}

	if err != nil {
		return ErrDump.With(slog.String("format", d.Format)).Wrap(err)
	}

	return nil
}
