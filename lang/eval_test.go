package lang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// newTestStack returns a stack whose print output is captured.
func newTestStack(t *testing.T, opts ...Option) (*Stack, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	return New(append([]Option{WithOutput(&out)}, opts...)...), &out
}

// evalPretty evaluates code and returns the realized result in its
// annotated form.
func evalPretty(t *testing.T, s *Stack, code string) (string, error) {
	t.Helper()

	v, err := Eval(t.Context(), s, code, "test.phnx")
	if err != nil {
		return "", err
	}

	r, err := s.Realize(t.Context(), v)
	if err != nil {
		return "", err
	}

	return Pretty(r), nil
}

func TestEval_Expressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want string
	}{
		{"integer", `42`, `<Integer:42>`},
		{"division truncates", `7 / 2`, `<Integer:3>`},
		{"modulo", `7 % 2`, `<Integer:1>`},
		{"multiplication binds tighter", `1 + 2 * 3`, `<Integer:7>`},
		{"parentheses", `(1 + 2) * 3`, `<Integer:9>`},
		{"left associative", `10 - 2 - 3`, `<Integer:5>`},
		{"string concat integer", `"x" + 1`, `<String:"x1">`},
		{"integer concat string", `1 + "x"`, `<String:"1x">`},
		{"single quotes are literal", `'$x'`, `<String:"$x">`},
		{"escaped dollar", `"cost: \$5"`, `<String:"cost: $5">`},
		{"escapes", `"a\tb"`, "<String:\"a\tb\">"},
		{"boolean and", `1 == 1 && 2 == 3`, `<Boolean:false>`},
		{"boolean or", `1 == 2 || 2 == 2`, `<Boolean:true>`},
		{"not", `!true`, `<Boolean:false>`},
		{"double not", `!!1`, `<Boolean:true>`},
		{"not binds tighter than and", `!0 && 1`, `<Boolean:true>`},
		{"comparison", `3 >= 3`, `<Boolean:true>`},
		{"list equality", `[1, 2] == [1, 2]`, `<Boolean:true>`},
		{"map equality", `Map(a: 1) == Map(a: 1)`, `<Boolean:true>`},
		{"undefined equality", `undefined == undefined`, `<Boolean:true>`},
		{"undefined is not zero", `undefined == 0`, `<Boolean:false>`},
		{"mixed equality compares text", `"1" == 1`, `<Boolean:true>`},
		{"inequality", `1 != 2`, `<Boolean:true>`},
		{"empty list", `[]`, `<List:[]>`},
		{"trailing comma", `[1, 2,]`, `<List:[<Integer:1>, <Integer:2>]>`},
		{"list append", `[1] + 2`, `<List:[<Integer:1>, <Integer:2>]>`},
		{"assignment value", `$a = 1 + 2; $a`, `<Integer:3>`},
		{"compound add", `$a = 1; $a += 4; $a`, `<Integer:5>`},
		{"compound multiply", `$a = 3; $a *= 4; $a`, `<Integer:12>`},
		{"compound divide", `$a = 9; $a /= 2; $a`, `<Integer:4>`},
		{"compound subtract", `$a = 9; $a -= 2; $a`, `<Integer:7>`},
		{"increment", `$i = 1; $i++`, `<Integer:2>`},
		{"decrement", `$i = 5; $i--; $i`, `<Integer:4>`},
		{"missing variable", `$nothing`, `<Undefined>`},
		{"list copy semantics", `$a = [1, 2]; $b = $a; $b = $b + 3; $a`,
			`<List:[<Integer:1>, <Integer:2>]>`},
		{"list copy appended", `$a = [1, 2]; $b = $a; $b = $b + 3; $b`,
			`<List:[<Integer:1>, <Integer:2>, <Integer:3>]>`},
		{"map member assignment", `$m = Map(a: 1); $m.b = 2; $m`,
			`<Map:{a: <Integer:1>, b: <Integer:2>}>`},
		{"list index append", `$l = [1]; $l[1] = 2; $l`,
			`<List:[<Integer:1>, <Integer:2>]>`},
		{"nested index", `$l = [1, [2, 3]]; $l[1][0]`, `<Integer:2>`},
		{"dotted index", `$l = [1, [2, 3]]; $l.1.1`, `<Integer:3>`},
		{"expression index", `$m = Map(k: 7); $key = "k"; $m[$key]`, `<Integer:7>`},
		{"template index", `$m = Map(k1: 7); $n = 1; $m["k$n"]`, `<Integer:7>`},
		{"string length", `$s = "abc"; $s.length`, `<Integer:3>`},
		{"list length", `$l = [1, 2]; $l.length`, `<Integer:2>`},
		{"template length", `$s = "a$x"; $x = 1; $s.length`, `<Integer:2>`},
		{"nested template length", `$m = Map(a: 1); $m.s = "$x/bin"; $x = "usr"; $m.s.length`, `<Integer:7>`},
		{"guarded name", `${a-b} = 3; ${a-b}`, `<Integer:3>`},
		{"comment", "$a = 1; # $a = 2;\n$a", `<Integer:1>`},
		{"superglobal", `$$OS.length > 0`, `<Boolean:true>`},
		{"parseInt", `parseInt("42") + 1`, `<Integer:43>`},
		{"parseInt invalid", `parseInt("4x")`, `<Undefined>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newTestStack(t)

			got, err := evalPretty(t, s, tt.code)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEval_Functions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want string
	}{
		{
			"named arguments",
			`$f = function { return $a + $b; }; $f(a: 1, b: 2)`,
			`<Integer:3>`,
		},
		{
			"positional argument",
			`$f = function { return $0; }; $f(5)`,
			`<Integer:5>`,
		},
		{
			"positional then named",
			`$f = function { return [$0, $n]; }; $f("x", n: 2)`,
			`<List:[<String:"x">, <Integer:2>]>`,
		},
		{
			"boolean shorthand",
			`$f = function { return $recursive; }; $f(recursive)`,
			`<Boolean:true>`,
		},
		{
			"arguments map",
			`$f = function { return $__arguments; }; $f(x: 1)`,
			`<Map:{x: <Integer:1>}>`,
		},
		{
			"invocation context",
			`$o = Map(n: 4, get: function { return $this.n; }); $o.get()`,
			`<Integer:4>`,
		},
		{
			"no return",
			`$f = function { $x = 1; }; $f()`,
			`<Undefined>`,
		},
		{
			"return ends only the call",
			`$f = function { return 1; $x = 2; }; $f(); $x`,
			`<Undefined>`,
		},
		{
			"frame is discarded",
			`$f = function { $inner = 1; }; $f(); $inner`,
			`<Undefined>`,
		},
		{
			"outer variables are visible",
			`$g = 10; $f = function { return $g + 1; }; $f()`,
			`<Integer:11>`,
		},
		{
			"recursion",
			`$fact = function { if ($0 <= 1) { return 1; } return $0 * $fact($0 - 1); }; $fact(5)`,
			`<Integer:120>`,
		},
		{
			"call result in expression",
			`$f = function { return 2; }; $f() * 3`,
			`<Integer:6>`,
		},
		{
			"quoted parameter name",
			`$f = function { return ${odd-name}; }; $f("odd-name": 1)`,
			`<Integer:1>`,
		},
		{
			"returned template sees arguments",
			`$f = function { return "lib$0"; }; $r = $f("core"); $r`,
			`<String:"libcore">`,
		},
		{
			"returned template sees locals",
			`$f = function { $n = $0; return "lib$n-x"; }; $f("core")`,
			`<String:"libcore-x">`,
		},
		{
			"returned list is realized",
			`$f = function { return ["-I$0"]; }; $f("inc")`,
			`<List:[<String:"-Iinc">]>`,
		},
		{
			"Map builtin",
			`Map(b: 2, a: [1])`,
			`<Map:{a: <List:[<Integer:1>]>, b: <Integer:2>}>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newTestStack(t)

			got, err := evalPretty(t, s, tt.code)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEval_Templates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want string
	}{
		{"realized late", `$x = 5; $s = "value=$x"; $x = 6; $s`, `<String:"value=6">`},
		{"concatenation stays lazy", `$a = "a$b"; $b = "1"; $c = $a + "-$b"; $b = "2"; $c`,
			`<String:"a2-2">`},
		{"self reference extends", `$p = "x"; $p = "$p/bin"; $p`, `<String:"x/bin">`},
		{"self reference keeps others", `$p = "x"; $p = "$p/$q"; $q = "y"; $p`,
			`<String:"x/y">`},
		{"integer suffix", `$x = 1; $t = "a$x" + 2; $x = 3; $t`, `<String:"a32">`},
		{"path reference", `$m = Map(k: "v"); "[$m.k]"`, `<String:"[v]">`},
		{"guarded reference", `$a = "b"; "${a}c"`, `<String:"bc">`},
		{"superglobal reference", `"$$OS" == $$OS`, `<Boolean:true>`},
		{"lone dollar", `"$ 5"`, `<String:"$ 5">`},
		{"missing reference", `"[$none]"`, `<String:"[<Undefined>]">`},
		{"nested in list", `$x = 1; $l = ["$x"]; $x = 2; $l`, `<List:[<String:"2">]>`},
		{"appended elements are frozen",
			`$i = 0; $l = []; while ($i < 2) { $l = $l + "item$i"; $i++; } $i = 9; $l`,
			`<List:[<String:"item0">, <String:"item1">]>`},
		{"appended to literal",
			`$x = 1; $l = ["a$x"] + "b$x"; $x = 2; $l`,
			`<List:[<String:"a2">, <String:"b1">]>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newTestStack(t)

			got, err := evalPretty(t, s, tt.code)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEval_TemplateUnrealized(t *testing.T) {
	t.Parallel()

	s, _ := newTestStack(t)

	v, err := Eval(t.Context(), s, `$x = 1; "v$x"`, "test.phnx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tmpl, ok := v.(Template)
	if !ok {
		t.Fatalf("expected Template, got %T", v)
	}

	if tmpl.Source != "v$x" {
		t.Errorf("expected source 'v$x', got %q", tmpl.Source)
	}

	if tmpl.Type() != TypeString {
		t.Errorf("expected type String, got %s", tmpl.Type())
	}
}

func TestEval_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		kind Kind
		msg  string
	}{
		{"type mismatch", `1 / "a"`, TypeError,
			"right-hand side of '/' should be of type 'Integer' but is of type 'String'"},
		{"division by zero", `1 / 0`, ArithmeticError, "division by zero"},
		{"modulo by zero", `1 % 0`, ArithmeticError, "modulo by zero"},
		{"superglobal write", `$$OS = 1`, AccessViolation, "superglobals are read-only"},
		{"unknown function", `nope(1)`, SyntaxError,
			"attempted to call function 'nope' which does not exist"},
		{"float", `1.5`, TypeError, "floating-point unsupported"},
		{"invalid integer", `5-3`, SyntaxError, "invalid integer '5-3'"},
		{"trailing operator", `1 +`, SyntaxError, "incorrectly placed operator"},
		{"leading operator", `+ 1`, SyntaxError, "incorrectly placed operator"},
		{"unknown operator", `1 ** 2`, SyntaxError, "unknown operator '**'"},
		{"assign to literal", `1 = 2`, TypeError, "the left-hand side of '=' must be a variable"},
		{"break outside loop", `break;`, SyntaxError, "unexpected 'break'"},
		{"continue outside loop", `continue;`, SyntaxError, "unexpected 'continue'"},
		{"reserved parameter", `print(if: 1)`, SyntaxError, "'if' is an illegal parameter name"},
		{"index out of range", `$l = [1]; $l[5]`, RangeError,
			"index 5 is out of bounds for 'l' (length 1)"},
		{"non-integer index", `$l = [1]; $l.x`, SyntaxError, "expected integer, got 'x'"},
		{"member of scalar", `$s = 1; $s.x`, TypeError,
			"'s' should be either 'List' or 'Map' but is neither"},
		{"fatal", `fatal("boom")`, UserError, "boom"},
		{"null function", `$u()`, AccessViolation, "cannot call null function"},
		{"not a function", `$u = 1; $u()`, TypeError,
			"referenced variable should be of type 'Function' but is of type 'Integer'"},
		{"unterminated block", `if (true) {`, SyntaxError, "unexpected end of file"},
		{"unterminated group", `(1`, SyntaxError, "unexpected end of file"},
		{"unterminated string", `"abc`, SyntaxError, "unexpected end of file"},
		{"stray parenthesis", `1 + 2)`, SyntaxError, "unexpected token ')'"},
		{"keyword in expression", `$x = 1 + if`, SyntaxError, "incorrectly placed 'if'"},
		{"dangling else", `else { }`, SyntaxError, "unexpected 'else'"},
		{"undefined addition", `undefined + undefined`, TypeError,
			"undefined cannot be added to undefined"},
		{"incomparable", `true < 1`, TypeError,
			"unexpected operand types for less-than operation (left type 'Boolean', right type 'Integer')"},
		{"increment non-integer", `$s = "a"; $s++`, TypeError,
			"operand of '++' should be of type 'Integer' but is of type 'String'"},
		{"self-referencing template", `$a = "$b"; $b = "$a"; print($a)`, TypeError,
			"template references itself"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newTestStack(t)

			_, err := evalPretty(t, s, tt.code)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.msg)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}

			if e.Kind() != tt.kind {
				t.Errorf("expected kind %s, got %s (%v)", tt.kind, e.Kind(), err)
			}

			if !strings.Contains(e.Message(), tt.msg) {
				t.Errorf("expected message containing %q, got %q", tt.msg, e.Message())
			}
		})
	}
}

func TestEval_ErrorLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		line int
	}{
		{"top level", "\n\n1 / 0;", 3},
		{"inside function", "$f = function {\n  fatal(\"x\");\n};\n$f();", 2},
		{"inside block", "if (true) {\n\n  $l = [];\n  $l[3];\n}", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newTestStack(t)

			_, err := Eval(t.Context(), s, tt.code, "test.phnx")

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %v", err)
			}

			if e.Line() != tt.line {
				t.Errorf("expected line %d, got %d (%v)", tt.line, e.Line(), err)
			}

			if e.File() != "test.phnx" {
				t.Errorf("expected file 'test.phnx', got %q", e.File())
			}
		})
	}
}

func TestEval_CallDepth(t *testing.T) {
	t.Parallel()

	s, _ := newTestStack(t)

	_, err := Eval(t.Context(), s, `$f = function { return $f(); }; $f()`, "test.phnx")
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}

	if s.Depth() != 1 {
		t.Errorf("expected frames to unwind to 1, got %d", s.Depth())
	}
}

func TestEval_Cancelled(t *testing.T) {
	t.Parallel()

	s, _ := newTestStack(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Eval(ctx, s, `$i = 0; while (true) { $i++; }`, "test.phnx")
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
