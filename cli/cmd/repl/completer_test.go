package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/phoenix/lang"
	"github.com/ardnew/phoenix/log"
)

func TestWordBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"variable", "$cfg", 4, "$cfg", 0, 4},
		{"superglobal", "$$Pho", 5, "$$Pho", 0, 5},
		{"member", "$cfg.fl", 7, "fl", 5, 7},
		{"after paren", "print($na", 9, "$na", 6, 9},
		{"after comma", "Map(a: 1, b", 11, "b", 10, 11},
		{"after operator", "$a+$b", 5, "$b", 3, 5},
		{"mid word", "foobar", 3, "foobar", 0, 6},
		{"empty at boundary", "$a + ", 5, "", 5, 5},
		{"empty after dot", "$cfg.", 5, "", 5, 5},
		{"command", ":he", 3, ":he", 0, 3},
		{"colon inside", "Map(a:b", 7, "b", 6, 7},
		{"cursor clamped", "abc", 10, "abc", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top level", "fo", 0, ""},
		{"simple chain", "$cfg.", 5, "$cfg"},
		{"deep chain", "$a.b.c.", 7, "$a.b.c"},
		{"after operator", "1 + $cfg.flags.", 15, "$cfg.flags"},
		{"after paren", "print($cfg.", 11, "$cfg"},
		{"superglobal", "$$Phoenix.", 10, "$$Phoenix"},
		{"not a variable", "foo.", 4, ""},
		{"no dot", "$a + ", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := parentPath(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestStackPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		chain string
		want  []string
	}{
		{"$cfg", []string{"cfg"}},
		{"$cfg.flags", []string{"cfg", "flags"}},
		{"$$Phoenix", []string{"$Phoenix"}},
		{"$$Phoenix.host", []string{"$Phoenix", "host"}},
	}

	for _, tt := range tests {
		if got := stackPath(tt.chain); !slices.Equal(got, tt.want) {
			t.Errorf("stackPath(%q) = %q, want %q", tt.chain, got, tt.want)
		}
	}
}

func TestCandidates(t *testing.T) {
	t.Parallel()

	s := NewSession(log.Logger{}, lang.WithSuperglobal("Target", lang.String("arm")))

	res := s.Eval(t.Context(), `$cfg = Map(name: "app", flags: ["-O2"]); $count = 1;`)
	if res.Err != nil {
		t.Fatal(res.Err)
	}

	tests := []struct {
		name    string
		word    string
		parent  string
		want    []string
		exclude []string
	}{
		{
			name:    "variables",
			word:    "$c",
			want:    []string{"$cfg", "$count", "$$Target", "$$Phoenix"},
			exclude: []string{"print"},
		},
		{
			name:    "functions and keywords",
			word:    "pr",
			want:    []string{"print", "parseInt", "while", "function"},
			exclude: []string{"$cfg"},
		},
		{
			name:   "map members",
			parent: "$cfg",
			want:   []string{"flags", "name", "length"},
		},
		{
			name:   "list members",
			parent: "$cfg.flags",
			want:   []string{"length"},
		},
		{
			name:   "superglobal members",
			parent: "$$Phoenix",
			want:   []string{"version", "checkVersion"},
		},
		{
			name:   "commands",
			word:   ":q",
			want:   []string{":help", ":vars", ":clear", ":quit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := candidates(s.Stack(), tt.word, tt.parent)

			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("expected %q in %q", w, got)
				}
			}

			for _, x := range tt.exclude {
				if slices.Contains(got, x) {
					t.Errorf("unexpected %q in %q", x, got)
				}
			}
		})
	}

	if got := candidates(s.Stack(), "", "$missing"); got != nil {
		t.Errorf("expected no members of an undefined variable, got %q", got)
	}
}
