package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/phoenix/lang"
	"github.com/ardnew/phoenix/log"
	"github.com/ardnew/phoenix/pkg"
	"github.com/ardnew/phoenix/profile"
)

// Init writes a configuration script holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(lang.NewError(lang.InternalError, "no command context"))
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: configuration path undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists.Wrap(pkg.ErrConfigExists))
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(pkg.ErrWriteConfig.Wrap(err))
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "# %s %s configuration\n", pkg.Name, pkg.Version); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := lang.FormatScript(file, flagValues(ktx)); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(pkg.ErrWriteConfig.Wrap(err))
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// flagValues returns the set flags of the application as variables named
// like the flags with '-' replaced by '_'.
func flagValues(ktx *kong.Context) lang.Map {
	ignore := []string{"help", "version", profile.Tag}
	vars := lang.Map{}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		v, ok := flagValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		vars[ConfigName(flag.Name)] = v
	}

	return vars
}

// ConfigName returns the configuration variable name of a flag.
func ConfigName(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// flagValue converts a kong flag value. Empty strings and lists are
// reported as unset.
func flagValue(x any) (lang.Value, bool) {
	switch v := x.(type) {
	case nil:
		return nil, false
	case string:
		if v == "" {
			return nil, false
		}
	case []string:
		if len(v) == 0 {
			return nil, false
		}
	case fmt.Stringer:
		x = v.String()
	}

	val, err := lang.FromNative(x)
	if err != nil {
		return lang.String(fmt.Sprint(x)), true
	}

	return val, true
}
