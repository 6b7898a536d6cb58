package lang

//go:generate go tool stringer --linecomment --type Type --output type_string.go

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Type is the runtime tag of a [Value].
type Type int

const (
	TypeUndefined Type = iota // Undefined
	TypeBoolean               // Boolean
	TypeInteger               // Integer
	TypeString                // String
	TypeFunction              // Function
	TypeList                  // List
	TypeMap                   // Map
)

// Value is a script value. The concrete types are [Undefined], [Boolean],
// [Integer], [String], [Template], [*Function], [List] and [Map].
type Value interface {
	Type() Type
	raw() string
	pretty() string
}

type (
	// Undefined is the value of missing variables and empty expressions.
	Undefined struct{}

	// Boolean is a truth value.
	Boolean bool

	// Integer is a 32-bit signed integer.
	Integer int32

	// String is a realized string.
	String string

	// Template is a double-quoted string literal containing '$' references.
	// It is realized into a [String] only when it is stringified, so the
	// references see the variable values current at that time.
	Template struct {
		Source string
		Line   int
	}

	// List is an ordered sequence of values.
	List []Value

	// Map is a string-keyed collection of values.
	Map map[string]Value
)

func (Undefined) Type() Type { return TypeUndefined }
func (Boolean) Type() Type   { return TypeBoolean }
func (Integer) Type() Type   { return TypeInteger }
func (String) Type() Type    { return TypeString }
func (Template) Type() Type  { return TypeString }
func (List) Type() Type      { return TypeList }
func (Map) Type() Type       { return TypeMap }

func (Undefined) raw() string { return "<Undefined>" }

func (b Boolean) raw() string { return strconv.FormatBool(bool(b)) }

func (i Integer) raw() string { return strconv.FormatInt(int64(i), 10) }

func (s String) raw() string { return string(s) }

func (t Template) raw() string { return t.Source }

func (l List) raw() string {
	var sb strings.Builder

	sb.WriteByte('[')

	for i, v := range l {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(v.raw())
	}

	sb.WriteByte(']')

	return sb.String()
}

func (m Map) raw() string {
	var sb strings.Builder

	sb.WriteByte('{')

	for i, k := range m.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(m[k].raw())
	}

	sb.WriteByte('}')

	return sb.String()
}

func (Undefined) pretty() string { return "<Undefined>" }

func (b Boolean) pretty() string { return "<Boolean:" + b.raw() + ">" }

func (i Integer) pretty() string { return "<Integer:" + i.raw() + ">" }

func (s String) pretty() string {
	return `<String:"` + strings.ReplaceAll(string(s), "\n", `\n`) + `">`
}

func (t Template) pretty() string {
	return `<Template:"` + strings.ReplaceAll(t.Source, "\n", `\n`) + `">`
}

func (l List) pretty() string {
	var sb strings.Builder

	sb.WriteString("<List:[")

	for i, v := range l {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(v.pretty())
	}

	sb.WriteString("]>")

	return sb.String()
}

func (m Map) pretty() string {
	var sb strings.Builder

	sb.WriteString("<Map:{")

	for i, k := range m.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(m[k].pretty())
	}

	sb.WriteString("}>")

	return sb.String()
}

// Keys returns the map keys in sorted order.
func (m Map) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// Raw returns the canonical string form of v. Templates render their
// unrealized source; use [Stack.Stringify] to realize them first.
func Raw(v Value) string {
	if v == nil {
		return Undefined{}.raw()
	}

	return v.raw()
}

// Pretty returns the annotated debug form of v, e.g. <Integer:3>.
func Pretty(v Value) string {
	if v == nil {
		return Undefined{}.pretty()
	}

	return v.pretty()
}

// TypeOf returns the tag of v, treating nil as [Undefined].
func TypeOf(v Value) Type {
	if v == nil {
		return TypeUndefined
	}

	return v.Type()
}

// Truthy coerces v to a boolean. Templates must be realized beforehand.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Boolean:
		return bool(v)
	case Integer:
		return v != 0
	case String:
		return len(v) != 0
	case Template:
		return len(v.Source) != 0
	case *Function:
		return true
	case List:
		return len(v) != 0
	case Map:
		return len(v) != 0
	default:
		return false
	}
}

// Copy returns a deep copy of v. Containers never share storage with
// their copies.
func Copy(v Value) Value {
	switch v := v.(type) {
	case nil:
		return Undefined{}
	case List:
		if v == nil {
			return List{}
		}

		c := make(List, len(v))
		for i, e := range v {
			c[i] = Copy(e)
		}

		return c
	case Map:
		c := make(Map, len(v))
		for k, e := range v {
			c[k] = Copy(e)
		}

		return c
	default:
		// Scalars are immutable; functions are never mutated after creation.
		return v
	}
}

// isUndefined reports whether v is Undefined (or nil).
func isUndefined(v Value) bool {
	return TypeOf(v) == TypeUndefined
}

// escapeTemplate quotes s so that it realizes to itself when embedded in a
// template source.
func escapeTemplate(s string) string {
	if !strings.ContainsAny(s, `$\`) {
		return s
	}

	var sb strings.Builder

	for i := range len(s) {
		if s[i] == '$' || s[i] == '\\' {
			sb.WriteByte('\\')
		}

		sb.WriteByte(s[i])
	}

	return sb.String()
}
