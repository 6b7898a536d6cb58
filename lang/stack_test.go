package lang

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestStack_GetSet(t *testing.T) {
	t.Parallel()

	s := New(WithOutput(nil))

	if err := s.Set([]string{"cfg"}, Map{"flags": List{String("-O2")}}); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := s.Set([]string{"cfg", "flags", "1"}, String("-g")); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := s.Set([]string{"cfg", "name"}, String("app")); err != nil {
		t.Fatalf("set member: %v", err)
	}

	got, err := s.Get("cfg")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	want := `<Map:{flags: <List:[<String:"-O2">, <String:"-g">]>, name: <String:"app">}>`
	if Pretty(got) != want {
		t.Errorf("got %s, want %s", Pretty(got), want)
	}

	v, err := s.Get("cfg", "flags", "0")
	if err != nil {
		t.Fatalf("get element: %v", err)
	}

	if v != String("-O2") {
		t.Errorf("expected -O2, got %s", Pretty(v))
	}
}

func TestStack_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := New(WithOutput(nil))

	if err := s.Set([]string{"l"}, List{Integer(1)}); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, err := s.Get("l")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	v.(List)[0] = Integer(9)

	again, _ := s.Get("l", "0")
	if again != Integer(1) {
		t.Errorf("stored list was modified through a copy: %s", Pretty(again))
	}
}

func TestStack_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		get    []string
		set    []string
		target error
	}{
		{name: "superglobal write", set: []string{"$OS"}, target: ErrAccessViolation},
		{name: "index out of range", get: []string{"l", "3"}, target: ErrRange},
		{name: "index not integer", get: []string{"l", "x"}, target: ErrSyntax},
		{name: "member of integer", get: []string{"n", "x"}, target: ErrType},
		{name: "set past end", set: []string{"l", "5"}, target: ErrRange},
		{name: "set member of integer", set: []string{"n", "x"}, target: ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := New(WithOutput(nil))
			s.SetLocal("l", List{Integer(1)})
			s.SetLocal("n", Integer(1))

			var err error
			if tt.set != nil {
				err = s.Set(tt.set, Integer(0))
			} else {
				_, err = s.Get(tt.get...)
			}

			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestStack_Scopes(t *testing.T) {
	t.Parallel()

	s := New(WithOutput(nil))
	s.SetLocal("outer", Integer(1))

	s.Push()

	if err := s.Set([]string{"outer"}, Integer(2)); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := s.Set([]string{"inner"}, Integer(3)); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, ok := s.Locals()["inner"]; !ok {
		t.Error("expected inner in the innermost frame")
	}

	s.Pop()

	if v, _ := s.Get("outer"); v != Integer(2) {
		t.Errorf("expected outer frame updated to 2, got %s", Pretty(v))
	}

	if v, _ := s.Get("inner"); !isUndefined(v) {
		t.Errorf("expected inner to be discarded, got %s", Pretty(v))
	}

	s.Pop()

	if s.Depth() != 1 {
		t.Errorf("the outermost frame must never be popped, depth %d", s.Depth())
	}
}

func TestStack_Superglobals(t *testing.T) {
	t.Parallel()

	s := New(
		WithOutput(nil),
		WithSuperglobal("Answer", Integer(42)),
		WithSuperglobal("OS", String("Plan9")),
		WithVersion("2.3.4"),
	)

	if v, _ := s.Get("$Answer"); v != Integer(42) {
		t.Errorf("expected 42, got %s", Pretty(v))
	}

	if v, _ := s.Get("$OS"); v != String("Plan9") {
		t.Errorf("option superglobal should take precedence, got %s", Pretty(v))
	}

	if v, _ := s.Get("$Phoenix", "version"); v != String("2.3.4") {
		t.Errorf("expected version 2.3.4, got %s", Pretty(v))
	}

	names := s.Names()
	for _, want := range []string{"$$Answer", "$$Phoenix", "print", "Map"} {
		if !slices.Contains(names, want) {
			t.Errorf("expected %q in %v", want, names)
		}
	}

	if !slices.IsSorted(names) {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestStack_Dirs(t *testing.T) {
	t.Parallel()

	s := New(WithOutput(nil))

	s.PushDir("/a")
	s.PushDir("/a/b")

	if got := s.CurrentDir(); got != "/a/b" {
		t.Errorf("expected /a/b, got %s", got)
	}

	s.PopDir()

	if got := s.CurrentDir(); got != "/a" {
		t.Errorf("expected /a, got %s", got)
	}

	s.PopDir()
	s.PopDir()

	if s.CurrentDir() == "" {
		t.Error("expected the working directory outside of any script")
	}
}

func TestStack_FunctionOverride(t *testing.T) {
	t.Parallel()

	called := false

	s := New(WithOutput(nil), WithFunction("print", Native(
		func(_ context.Context, _ *Stack, _ Value, _ Map) (Value, error) {
			called = true

			return Undefined{}, nil
		})))

	if _, err := Eval(t.Context(), s, `print("x")`, "test.phnx"); err != nil {
		t.Fatalf("eval: %v", err)
	}

	if !called {
		t.Error("expected the registered function to replace the builtin")
	}
}
