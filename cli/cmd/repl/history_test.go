package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_WriteLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), HistoryFile)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("loading a missing file: %v", err)
	}

	for _, entry := range []string{
		"$a = 1;",
		"  ",
		"$b = 2;",
		"$b = 2;",
		"multi\nline",
		"$a = 1;",
	} {
		if err := h.Write(entry); err != nil {
			t.Fatalf("write %q: %v", entry, err)
		}
	}

	want := []string{"$b = 2;", "$a = 1;"}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	again := NewHistory(path)
	if err := again.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := again.Entries(); !slices.Equal(got, want) {
		t.Errorf("persisted %q, want %q", got, want)
	}

	if err := again.Write(":vars"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "$b = 2;\n$a = 1;\n:vars\n" {
		t.Errorf("unexpected file contents %q", data)
	}
}

func TestHistory_GetLine(t *testing.T) {
	t.Parallel()

	h := NewHistory("")

	for _, e := range []string{"one", "two"} {
		if err := h.Write(e); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", h.Len())
	}

	if line, err := h.GetLine(1); err != nil || line != "two" {
		t.Errorf("GetLine(1) = %q, %v", line, err)
	}

	for _, i := range []int{-1, 2} {
		if _, err := h.GetLine(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("GetLine(%d): expected ErrOutOfBounds, got %v", i, err)
		}
	}
}
