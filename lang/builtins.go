package lang

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// DefaultVersion is the interpreter version reported when none is
// configured with [WithVersion].
const DefaultVersion = "0.1.0"

// registerBuiltins installs the global functions and conventional
// superglobals that are not already defined.
func registerBuiltins(s *Stack) {
	for name, fn := range map[string]NativeFunc{
		"Map":          builtinMap,
		"print":        builtinPrint,
		"dump":         builtinDump,
		"fatal":        builtinFatal,
		"parseInt":     builtinParseInt,
		"File":         builtinFile,
		"subdirectory": builtinSubdirectory,
	} {
		if _, ok := s.functions[name]; !ok {
			s.Register(name, Native(fn))
		}
	}

	plat := hostPlatform()

	supers := Map{
		"OS":      String(osName(plat.OS)),
		"Phoenix": phoenixObject(s),
	}

	supers[strings.ToUpper(osName(plat.OS))] = Boolean(true)

	if isUnix(plat.OS) {
		supers["UNIX"] = Boolean(true)
	}

	for name, v := range supers {
		if _, ok := s.super[name]; !ok {
			s.AddSuperglobal(name, v)
		}
	}
}

// param returns the realized argument name, which must have type t.
func param(ctx context.Context, s *Stack, args Map, name string, t Type) (Value, error) {
	v, ok := args[name]
	if !ok {
		v = Undefined{}
	}

	v, err := s.Realize(ctx, v)
	if err != nil {
		return nil, err
	}

	if err := requireType("parameter '"+name+"'", v, t); err != nil {
		return nil, err
	}

	return v, nil
}

// stringParam returns the realized string argument name.
func stringParam(ctx context.Context, s *Stack, args Map, name string) (string, error) {
	v, err := param(ctx, s, args, name, TypeString)
	if err != nil {
		return "", err
	}

	return string(v.(String)), nil
}

// resolvePath makes path absolute relative to the current directory.
func (s *Stack) resolvePath(path string) string {
	path = filepath.Clean(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.CurrentDir(), path)
	}

	return path
}

func builtinMap(_ context.Context, _ *Stack, _ Value, args Map) (Value, error) {
	return Copy(args), nil
}

func builtinPrint(ctx context.Context, s *Stack, _ Value, args Map) (Value, error) {
	str, err := s.Stringify(ctx, args["0"])
	if err != nil {
		return nil, err
	}

	if _, err := fmt.Fprintln(s.stdout, str); err != nil {
		return nil, NewError(InternalError, "unable to write output").Wrap(err)
	}

	return Undefined{}, nil
}

func builtinDump(ctx context.Context, s *Stack, _ Value, args Map) (Value, error) {
	v, err := s.Realize(ctx, args["0"])
	if err != nil {
		return nil, err
	}

	if _, err := fmt.Fprintln(s.stdout, Pretty(v)); err != nil {
		return nil, NewError(InternalError, "unable to write output").Wrap(err)
	}

	return Undefined{}, nil
}

func builtinFatal(ctx context.Context, s *Stack, _ Value, args Map) (Value, error) {
	str, err := s.Stringify(ctx, args["0"])
	if err != nil {
		return nil, err
	}

	return nil, NewError(UserError, str)
}

func builtinParseInt(ctx context.Context, s *Stack, _ Value, args Map) (Value, error) {
	str, err := stringParam(ctx, s, args, "0")
	if err != nil {
		return nil, err
	}

	n, err := strconv.ParseInt(strings.TrimSpace(str), 10, 32)
	if err != nil {
		return Undefined{}, nil
	}

	return Integer(n), nil
}

func builtinSubdirectory(ctx context.Context, s *Stack, _ Value, args Map) (Value, error) {
	dir, err := stringParam(ctx, s, args, "0")
	if err != nil {
		return nil, err
	}

	dir = s.resolvePath(dir)

	s.logger.DebugContext(ctx, "subdirectory", slog.String("path", dir))

	return Run(ctx, s, dir)
}

// builtinFile returns a Map describing one file, with methods that act on
// it.
func builtinFile(ctx context.Context, s *Stack, _ Value, args Map) (Value, error) {
	name, err := stringParam(ctx, s, args, "0")
	if err != nil {
		return nil, err
	}

	path := s.resolvePath(name)

	return Map{
		"path": String(path),
		"exists": Native(func(context.Context, *Stack, Value, Map) (Value, error) {
			return Boolean(fileIsRegular(path)), nil
		}),
		"isDirectory": Native(func(context.Context, *Stack, Value, Map) (Value, error) {
			return Boolean(fileIsDir(path)), nil
		}),
		"getContents": Native(func(context.Context, *Stack, Value, Map) (Value, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return Undefined{}, nil
			}

			return String(data), nil
		}),
		"setContents": Native(func(ctx context.Context, s *Stack, _ Value, args Map) (Value, error) {
			data, err := stringParam(ctx, s, args, "0")
			if err != nil {
				return nil, err
			}

			return Boolean(os.WriteFile(path, []byte(data), 0o644) == nil), nil
		}),
		"remove": Native(func(context.Context, *Stack, Value, Map) (Value, error) {
			return Boolean(os.Remove(path) == nil), nil
		}),
	}, nil
}

// phoenixObject builds the $$Phoenix superglobal.
func phoenixObject(s *Stack) Map {
	plat := hostPlatform()

	return Map{
		"version":      String(s.version),
		"checkVersion": Native(checkVersion),
		"eval":         Native(evalExpr),
		"pathPrefix":   Native(pathPrefix),
		"host": Map{
			"os":       String(plat.OS),
			"arch":     String(plat.Arch),
			"target":   String(hostTarget().String()),
			"hostname": String(hostname()),
			"user":     String(hostUser()),
			"shell":    String(hostShell()),
		},
	}
}

// parseVersion splits a dotted version into three integer components.
// Missing components are -1.
func parseVersion(version string) ([3]int, bool) {
	parts := [3]int{-1, -1, -1}

	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	version, _, _ = strings.Cut(version, "-")

	for i, str := range strings.Split(version, ".") {
		n, err := strconv.Atoi(str)
		if err != nil || i >= len(parts) {
			return parts, false
		}

		parts[i] = n
	}

	return parts, true
}

// checkVersion fails unless the running interpreter is at least the given
// minimum version.
func checkVersion(ctx context.Context, s *Stack, _ Value, args Map) (Value, error) {
	key := "minimum"
	if _, ok := args[key]; !ok {
		if _, ok := args["0"]; ok {
			key = "0"
		}
	}

	minimum, err := stringParam(ctx, s, args, key)
	if err != nil {
		return nil, err
	}

	want, ok := parseVersion(minimum)
	if !ok {
		return nil, NewError(SyntaxError, "expected an integer in call to checkVersion")
	}

	have, _ := parseVersion(s.version)

	for i := range want {
		if want[i] == have[i] {
			continue
		}

		if want[i] > have[i] {
			return nil, newError(UserError,
				"minimum version of Phoenix required is %s and this is Phoenix %s",
				minimum, s.version)
		}

		break
	}

	return Undefined{}, nil
}

// exprEnv returns the environment visible to $$Phoenix.eval expressions.
func (s *Stack) exprEnv() map[string]any {
	plat := hostPlatform()
	environ := environMap(s.environ)

	return map[string]any{
		"os":       plat.OS,
		"arch":     plat.Arch,
		"target":   hostTarget().String(),
		"hostname": hostname(),
		"user":     hostUser(),
		"shell":    hostShell(),
		"cwd":      s.CurrentDir,
		"env": func(key string) string {
			return environ[key]
		},
		"exists": fileExists,
		"isDir":  fileIsDir,
	}
}

// evalExpr evaluates a host expression with expr-lang. Compiled programs
// are cached per Stack by source text.
func evalExpr(ctx context.Context, s *Stack, _ Value, args Map) (Value, error) {
	source, err := stringParam(ctx, s, args, "0")
	if err != nil {
		return nil, err
	}

	env := s.exprEnv()

	program, ok := s.programs[source]
	if ok {
		s.logger.TraceContext(ctx, "expr cache hit", slog.String("source", source))
	} else {
		program, err = expr.Compile(source, expr.Env(env))
		if err != nil {
			return nil, NewError(SyntaxError, "invalid host expression").Wrap(err)
		}

		s.programs[source] = program

		s.logger.TraceContext(ctx, "expr compiled", slog.String("source", source))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, NewError(TypeError, "host expression failed").Wrap(err)
	}

	return FromNative(out)
}

// pathPrefix prepends the prefix list to a PATH-style string. With exists
// set, entries that do not exist on disk are dropped.
func pathPrefix(ctx context.Context, s *Stack, _ Value, args Map) (Value, error) {
	subject := ""
	if v, ok := args["0"]; ok && !isUndefined(v) {
		var err error
		if subject, err = stringParam(ctx, s, args, "0"); err != nil {
			return nil, err
		}
	}

	pv, err := param(ctx, s, args, "prefix", TypeList)
	if err != nil {
		return nil, err
	}

	items := make([]string, 0, len(pv.(List)))
	for _, e := range pv.(List) {
		items = append(items, Raw(e))
	}

	var keep func(string) bool
	if Truthy(args["exists"]) {
		keep = fileExists
	}

	return String(prefixPathList(subject, keep, items...)), nil
}
