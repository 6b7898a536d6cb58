package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/phoenix/cli/cmd"
	"github.com/ardnew/phoenix/lang"
	"github.com/ardnew/phoenix/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written as Phoenix scripts.
//
// The script runs on a fresh interpreter with output discarded, and each
// top-level variable it assigns supplies the flag of the same name, with
// '-' in the flag name written as '_':
//
//	$log_level = "debug";
//	$log_pretty = false;
//	$define = ["CC=clang", "OPT=2"];
//
// Command-line flags override configuration values. A script that fails
// to evaluate is ignored with a warning.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		name := "(config)"
		if n, ok := r.(interface{ Name() string }); ok {
			name = n.Name()
		}

		c, err := loadConfig(ctx, r, name)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("file", name),
				slog.Any("error", lang.WrapError(err)))

			return config{}, nil
		}

		return c, nil
	}
}

// loadConfig evaluates a configuration script and returns its top-level
// variables as kong values.
func loadConfig(ctx context.Context, r io.Reader, name string) (config, error) {
	st := lang.New(
		lang.WithOutput(nil),
		lang.WithLogger(log.With(slog.String("component", "config"))),
	)

	if _, err := lang.EvalReader(ctx, st, r, name); err != nil {
		return nil, err
	}

	globals, err := st.Realize(ctx, st.Globals())
	if err != nil {
		return nil, err
	}

	native, _ := lang.ToNative(globals).(map[string]any)

	c := make(config, len(native))
	for k, v := range native {
		c[k] = flagNative(v)
	}

	return c, nil
}

// flagNative converts integers to strings, which kong parses into the
// type of the flag.
func flagNative(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case []any:
		for i, e := range v {
			v[i] = flagNative(e)
		}

		return v
	default:
		return v
	}
}

// config implements [kong.Resolver] for Phoenix configuration scripts.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[cmd.ConfigName(flag.Name)]; ok {
		return value, nil
	}

	// Not found; kong uses the default.
	return nil, nil
}
