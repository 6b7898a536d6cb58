package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/phoenix/lang"
)

func TestEval_Expr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		expr   []string
		define []string
		want   string
	}{
		{
			name: "arithmetic",
			expr: []string{"return", "1 + 2 * 3;"},
			want: "<Integer:7>\n",
		},
		{
			name: "print and value",
			expr: []string{`print("hi"); return "x";`},
			want: "hi\n<String:\"x\">\n",
		},
		{
			name:   "superglobal",
			expr:   []string{`return $$N + 1;`},
			define: []string{"N=41"},
			want:   "<Integer:42>\n",
		},
		{
			name: "last statement",
			expr: []string{`$x = 2;`, `$x * 5`},
			want: "<Integer:10>\n",
		},
		{
			name: "template value",
			expr: []string{`$x = 1;`, `"v$x"`},
			want: "<String:\"v1\">\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, out := testContext(t, nil)

			e := &Eval{Expr: tt.expr, Source: stdinSource, Define: tt.define}
			if err := e.Run(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEval_Source(t *testing.T) {
	t.Parallel()

	dir := writeScript(t, "data.txt", "payload")

	src := filepath.Join(dir, "eval.phnx")
	if err := os.WriteFile(src, []byte(`$f = File("data.txt"); return $f.getContents();`), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, out := testContext(t, nil)

	if err := (&Eval{Source: src}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := out.String(); got != "<String:\"payload\">\n" {
		t.Errorf("expected paths relative to the source file, got %q", got)
	}
}

func TestEval_Errors(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t, nil)

	err := (&Eval{Source: filepath.Join(t.TempDir(), "missing.phnx")}).Run(ctx)
	if !errors.Is(err, lang.ErrFileDoesNotExist) {
		t.Errorf("expected FileDoesNotExist, got %v", err)
	}

	err = (&Eval{Expr: []string{"fatal(\"boom\");"}}).Run(ctx)

	var e *lang.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *lang.Error, got %v", err)
	}

	if e.File() != exprName {
		t.Errorf("expected error attributed to %q, got %q", exprName, e.File())
	}

	if !strings.Contains(e.Error(), "boom") {
		t.Errorf("expected message, got %q", e.Error())
	}
}
