package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/phoenix/lang"
)

const dumpScript = `
	$name = "app";
	$flags = ["-O2", "-g"];
	$path = "/usr/$name";
	print("ignored");
`

func TestDump_JSON(t *testing.T) {
	t.Parallel()

	dir := writeScript(t, lang.EntryFile, dumpScript)
	ctx, out := testContext(t, nil)

	d := &Dump{Script: Script{Path: dir}, Format: "json", Indent: 0}
	if err := d.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"flags":["-O2","-g"],"name":"app","path":"/usr/app"}` + "\n"
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDump_YAML(t *testing.T) {
	t.Parallel()

	dir := writeScript(t, lang.EntryFile, dumpScript)
	ctx, out := testContext(t, nil)

	d := &Dump{Script: Script{Path: dir}, Format: "yaml", Indent: 2}
	if err := d.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()

	for _, want := range []string{"name: app", "path: /usr/app", "O2", "flags:"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}

	if strings.Contains(got, "ignored") {
		t.Errorf("script output must not be mixed into the dump:\n%s", got)
	}
}

func TestDump_Error(t *testing.T) {
	t.Parallel()

	dir := writeScript(t, lang.EntryFile, `$x = 1;`)
	ctx, _ := testContext(t, nil)

	err := (&Dump{Script: Script{Path: dir}, Format: "toml"}).Run(ctx)
	if !errors.Is(err, ErrDump) {
		t.Errorf("expected ErrDump, got %v", err)
	}
}
