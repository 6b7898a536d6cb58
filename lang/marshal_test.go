package lang

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestFormatJSON(t *testing.T) {
	t.Parallel()

	s, _ := newTestStack(t)
	s.SetLocal("x", String("v"))

	v := Map{
		"a": List{Integer(1), Template{Source: "$x!"}},
		"b": Boolean(true),
		"c": Undefined{},
	}

	tests := []struct {
		indent int
		want   string
	}{
		{0, `{"a":[1,"v!"],"b":true,"c":null}` + "\n"},
		{2, "{\n  \"a\": [\n    1,\n    \"v!\"\n  ],\n  \"b\": true,\n  \"c\": null\n}\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		if err := s.FormatJSON(t.Context(), &buf, v, tt.indent); err != nil {
			t.Fatalf("format: %v", err)
		}

		if buf.String() != tt.want {
			t.Errorf("indent %d: got %q, want %q", tt.indent, buf.String(), tt.want)
		}
	}
}

func TestFormatYAML(t *testing.T) {
	t.Parallel()

	s, _ := newTestStack(t)
	s.SetLocal("x", String("v"))

	v := Map{
		"a": List{Integer(1), Template{Source: "$x!"}},
		"b": Map{"c": Boolean(false)},
	}

	for _, indent := range []int{0, 2, 4} {
		var buf bytes.Buffer

		if err := s.FormatYAML(t.Context(), &buf, v, indent); err != nil {
			t.Fatalf("format: %v", err)
		}

		var decoded any
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("indent %d: decode %q: %v", indent, buf.String(), err)
		}

		got, err := FromNative(decoded)
		if err != nil {
			t.Fatalf("indent %d: %v", indent, err)
		}

		want := `<Map:{a: <List:[<Integer:1>, <String:"v!">]>, b: <Map:{c: <Boolean:false>}>}>`
		if Pretty(got) != want {
			t.Errorf("indent %d: got %s, want %s", indent, Pretty(got), want)
		}
	}
}

func TestFormatScript_RoundTrip(t *testing.T) {
	t.Parallel()

	vars := Map{
		"name":     String(`say "$5" \ now`),
		"lines":    String("a\nb\tc"),
		"tmpl":     Template{Source: `\"$name\" \$`},
		"n":        Integer(-3),
		"flags":    List{String("-O2"), Boolean(false), Undefined{}},
		"nested":   Map{"odd-key": Integer(1), "if": Integer(2), "list": List{}},
		"odd-name": Boolean(true),
		"fn":       UserFunction(" return $0 * 2; ", "x.phnx", 1),
		"native":   Native(builtinMap),
	}

	var buf bytes.Buffer

	if err := FormatScript(&buf, vars); err != nil {
		t.Fatalf("format: %v", err)
	}

	if strings.Contains(buf.String(), "$native") {
		t.Errorf("native functions must be skipped:\n%s", buf.String())
	}

	s, _ := newTestStack(t)

	if _, err := Eval(t.Context(), s, buf.String(), "generated.phnx"); err != nil {
		t.Fatalf("eval generated script: %v\n%s", err, buf.String())
	}

	globals := s.Globals()

	for _, k := range []string{"name", "lines", "tmpl", "n", "flags", "nested", "odd-name"} {
		if Pretty(globals[k]) != Pretty(vars[k]) {
			t.Errorf("%s: got %s, want %s", k, Pretty(globals[k]), Pretty(vars[k]))
		}
	}

	got, err := evalPretty(t, s, `$fn(21)`)
	if err != nil || got != `<Integer:42>` {
		t.Errorf("fn: got %s (%v)", got, err)
	}
}

func TestFromNative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
		err  error
	}{
		{nil, `<Undefined>`, nil},
		{int64(7), `<Integer:7>`, nil},
		{uint64(7), `<Integer:7>`, nil},
		{[]string{"a"}, `<List:[<String:"a">]>`, nil},
		{map[string]string{"k": "v"}, `<Map:{k: <String:"v">}>`, nil},
		{1.5, "", ErrType},
		{int64(1) << 40, "", ErrRange},
		{[]any{true, map[string]any{"x": 1.0}}, "", ErrType},
	}

	for _, tt := range tests {
		v, err := FromNative(tt.in)

		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%v: expected %v, got %v", tt.in, tt.err, err)
			}

			continue
		}

		if err != nil {
			t.Errorf("%v: unexpected error %v", tt.in, err)

			continue
		}

		if Pretty(v) != tt.want {
			t.Errorf("%v: got %s, want %s", tt.in, Pretty(v), tt.want)
		}
	}
}
