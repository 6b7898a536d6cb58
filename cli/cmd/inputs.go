package cmd

import (
	"context"
	"fmt"
)

// Inputs runs a script and lists every script file it read, in order.
type Inputs struct {
	Script `embed:""`
}

// Run executes the inputs command.
func (i *Inputs) Run(ctx context.Context) error {
	w := stdout(ctx)

	// Script output would be mixed into the list.
	_, st, err := i.run(ctx, nil)
	if err != nil {
		return err
	}

	for _, file := range st.InputFiles() {
		if _, err := fmt.Fprintln(w, file); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
