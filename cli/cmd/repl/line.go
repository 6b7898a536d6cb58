package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/ardnew/phoenix/lang"
)

// RunLines evaluates r one line at a time, writing what each line prints
// and its value to w. It is used when the input is not a terminal. An
// error in one line is written to w and does not stop the session.
func RunLines(ctx context.Context, s *Session, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if isBlank(line) {
			continue
		}

		res := s.Eval(ctx, line)
		if res.Quit {
			return nil
		}

		if err := writeResult(w, res); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func writeResult(w io.Writer, res Result) error {
	if _, err := io.WriteString(w, res.Output); err != nil {
		return err
	}

	var err error

	switch {
	case res.Err != nil:
		_, err = fmt.Fprintln(w, errorText(res.Err))
	case res.Value != "":
		_, err = fmt.Fprintln(w, res.Value)
	}

	return err
}

// errorText formats an evaluation error the way the runner prints it.
func errorText(err error) string {
	if e := lang.WrapError(err); e.Kind() != lang.InternalError {
		return e.Kind().String() + ": " + e.Error() + "."
	}

	return "error: " + err.Error()
}

func isBlank(s string) bool {
	for i := range len(s) {
		if s[i] != ' ' && s[i] != '\t' && s[i] != '\r' {
			return false
		}
	}

	return true
}
