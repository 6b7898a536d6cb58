package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ardnew/phoenix/lang"
	"github.com/ardnew/phoenix/log"
)

func TestSession_Eval(t *testing.T) {
	t.Parallel()

	s := NewSession(log.Logger{}, lang.WithSuperglobal("N", lang.Integer(3)))

	tests := []struct {
		input   string
		output  string
		value   string
		wantErr bool
	}{
		{input: `$x = 2;;`, value: "<Undefined>"},
		{input: `$x * $$N`, value: "<Integer:6>"},
		{input: `print("x is $x"); return $x;`, output: "x is 2\n", value: "<Integer:2>"},
		{input: `$x = $x + 1; $x`, value: "<Integer:3>"},
		{input: `fatal("stop");`, wantErr: true},
		{input: `$after = $x;;`, value: "<Undefined>"},
		{input: `"n$x"`, value: `<String:"n3">`},
	}

	for _, tt := range tests {
		res := s.Eval(t.Context(), tt.input)

		if (res.Err != nil) != tt.wantErr {
			t.Fatalf("%q: unexpected error state: %v", tt.input, res.Err)
		}

		if res.Output != tt.output {
			t.Errorf("%q: output %q, want %q", tt.input, res.Output, tt.output)
		}

		if res.Value != tt.value {
			t.Errorf("%q: value %q, want %q", tt.input, res.Value, tt.value)
		}
	}

	if v, _ := s.Stack().Get("after"); v != lang.Integer(3) {
		t.Errorf("expected variables to persist after an error, got %s", lang.Pretty(v))
	}
}

func TestSession_Commands(t *testing.T) {
	t.Parallel()

	s := NewSession(log.Logger{})

	if res := s.Eval(t.Context(), `$name = "app"; $long = "`+strings.Repeat("x", 100)+`";`); res.Err != nil {
		t.Fatal(res.Err)
	}

	vars := s.Eval(t.Context(), ":vars").Value
	if !strings.Contains(vars, "$name = app") {
		t.Errorf("expected $name in %q", vars)
	}

	if !strings.Contains(vars, "$long = "+strings.Repeat("x", 57)+"...") {
		t.Errorf("expected a shortened preview in %q", vars)
	}

	if res := s.Eval(t.Context(), ":help"); !strings.Contains(res.Value, ":quit") {
		t.Errorf("unexpected help %q", res.Value)
	}

	if res := s.Eval(t.Context(), ":c"); !res.Clear {
		t.Error("expected :c to clear")
	}

	if res := s.Eval(t.Context(), " :quit "); !res.Quit {
		t.Error("expected :quit to quit")
	}

	if res := s.Eval(t.Context(), ":frobnicate"); res.Err == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestRunLines(t *testing.T) {
	t.Parallel()

	s := NewSession(log.Logger{})

	in := strings.NewReader(`print("hello");

$n = 20 + 1;;
$n * 2
$n / 0
:quit
print("unreachable");
`)

	var out bytes.Buffer

	if err := RunLines(t.Context(), s, in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()

	for _, want := range []string{
		"hello\n<Undefined>\n",
		"<Integer:42>\n",
		"ArithmeticError: ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}

	if strings.Contains(got, "unreachable") {
		t.Errorf("expected input after :quit to be ignored:\n%s", got)
	}
}

func TestErrorText(t *testing.T) {
	t.Parallel()

	if got := errorText(lang.NewError(lang.TypeError, "bad operand")); got != "TypeError: bad operand." {
		t.Errorf("got %q", got)
	}

	if got := errorText(ErrOutOfBounds); got != "error: index out of range" {
		t.Errorf("got %q", got)
	}
}
