package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
)

// ToNative converts v to plain Go values: nil, bool, int, string, []any and
// map[string]any. Functions become their string form. Templates must be
// realized beforehand; an unrealized template yields its source.
func ToNative(v Value) any {
	switch v := v.(type) {
	case Boolean:
		return bool(v)
	case Integer:
		return int(v)
	case String:
		return string(v)
	case Template:
		return v.Source
	case *Function:
		return v.raw()
	case List:
		l := make([]any, len(v))
		for i, e := range v {
			l[i] = ToNative(e)
		}

		return l
	case Map:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = ToNative(e)
		}

		return m
	default:
		return nil
	}
}

// FromNative converts a plain Go value into a [Value].
func FromNative(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Undefined{}, nil
	case Value:
		return Copy(x), nil
	case bool:
		return Boolean(x), nil
	case int:
		return fromInt(int64(x))
	case int32:
		return Integer(x), nil
	case int64:
		return fromInt(x)
	case uint64:
		if x > math.MaxInt32 {
			return nil, newError(RangeError, "integer %d overflows 32 bits", x)
		}

		return Integer(x), nil
	case float32, float64:
		return nil, newError(TypeError, "floating-point unsupported")
	case string:
		return String(x), nil
	case []string:
		l := make(List, len(x))
		for i, e := range x {
			l[i] = String(e)
		}

		return l, nil
	case []any:
		l := make(List, len(x))

		for i, e := range x {
			v, err := FromNative(e)
			if err != nil {
				return nil, err
			}

			l[i] = v
		}

		return l, nil
	case map[string]any:
		m := make(Map, len(x))

		for k, e := range x {
			v, err := FromNative(e)
			if err != nil {
				return nil, err
			}

			m[k] = v
		}

		return m, nil
	case map[string]string:
		m := make(Map, len(x))
		for k, e := range x {
			m[k] = String(e)
		}

		return m, nil
	default:
		return String(fmt.Sprint(x)), nil
	}
}

func fromInt(n int64) (Value, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil, newError(RangeError, "integer %d overflows 32 bits", n)
	}

	return Integer(n), nil
}

// FormatJSON writes v as JSON. Templates are realized first.
func (s *Stack) FormatJSON(ctx context.Context, w io.Writer, v Value, indent int) error {
	r, err := s.Realize(ctx, v)
	if err != nil {
		return err
	}

	var data []byte

	if indent > 0 {
		data, err = json.MarshalIndent(ToNative(r), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ToNative(r))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes v as YAML. An indent of zero selects flow style.
func (s *Stack) FormatYAML(ctx context.Context, w io.Writer, v Value, indent int) error {
	r, err := s.Realize(ctx, v)
	if err != nil {
		return err
	}

	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ToNative(r), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// FormatScript writes each entry of m as a Phoenix assignment statement,
// in key order. Native functions cannot be written and are skipped.
func FormatScript(w io.Writer, m Map) error {
	for _, k := range m.Keys() {
		lit, ok := Literal(m[k])
		if !ok {
			continue
		}

		if _, err := fmt.Fprintf(w, "$%s = %s;\n", variableName(k), lit); err != nil {
			return err
		}
	}

	return nil
}

// Literal returns Phoenix source text that evaluates to v. It reports false
// if v contains a native function.
func Literal(v Value) (string, bool) {
	var sb strings.Builder

	ok := writeLiteral(&sb, v)

	return sb.String(), ok
}

func writeLiteral(sb *strings.Builder, v Value) bool {
	switch v := v.(type) {
	case Boolean:
		sb.WriteString(v.raw())
	case Integer:
		switch {
		case v == math.MinInt32:
			sb.WriteString("(0 - 2147483647 - 1)")
		case v < 0:
			sb.WriteString("(0 - " + (-v).raw() + ")")
		default:
			sb.WriteString(v.raw())
		}
	case String:
		sb.WriteString(quote(string(v), false))
	case Template:
		sb.WriteString(quote(v.Source, true))
	case *Function:
		if v.IsNative() {
			return false
		}

		sb.WriteString("function {")
		sb.WriteString(v.body)
		sb.WriteString("}")
	case List:
		sb.WriteByte('[')

		for i, e := range v {
			if i > 0 {
				sb.WriteString(", ")
			}

			if !writeLiteral(sb, e) {
				return false
			}
		}

		sb.WriteByte(']')
	case Map:
		sb.WriteString("Map(")

		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}

			if isIdentifier(k) && !reservedParams[k] {
				sb.WriteString(k)
			} else {
				sb.WriteString(quote(k, false))
			}

			sb.WriteString(": ")

			if !writeLiteral(sb, v[k]) {
				return false
			}
		}

		sb.WriteByte(')')
	default:
		sb.WriteString("undefined")
	}

	return true
}

// quote returns s as a double-quoted string literal. Escape pairs in a
// template source are copied as they are.
func quote(s string, template bool) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for i := 0; i < len(s); i++ {
		if template && s[i] == '\\' && i+1 < len(s) {
			sb.WriteString(s[i : i+2])
			i++

			continue
		}

		switch b := s[i]; b {
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '"':
			sb.WriteString(`\"`)
		case '$', '\\':
			if !template {
				sb.WriteByte('\\')
			}

			sb.WriteByte(b)
		default:
			sb.WriteByte(b)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

func isIdentifier(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}

	for i := range len(s) {
		if !isAlnum(s[i]) {
			return false
		}
	}

	return true
}

// variableName returns the reference form of name, guarded when it holds
// characters outside an identifier.
func variableName(name string) string {
	for i := range len(name) {
		if !isAlnum(name[i]) {
			return "{" + name + "}"
		}
	}

	return name
}
