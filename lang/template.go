package lang

import (
	"context"
	"strings"
)

// templateFile is the file name reported for errors raised while a
// template is realized.
const templateFile = "(string dereferencing)"

// maxTemplateDepth bounds nested realization, which only recurses when
// templates reference each other.
const maxTemplateDepth = 64

// Realize returns v with every [Template], including those nested in lists
// and maps, replaced by its realized [String].
func (s *Stack) Realize(ctx context.Context, v Value) (Value, error) {
	return s.realize(ctx, v, 0)
}

// Stringify realizes v and returns its canonical string form.
func (s *Stack) Stringify(ctx context.Context, v Value) (string, error) {
	return s.stringify(ctx, v, 0)
}

func (s *Stack) realize(ctx context.Context, v Value, depth int) (Value, error) {
	switch v := v.(type) {
	case Template:
		str, err := s.realizeTemplate(ctx, v, depth)
		if err != nil {
			return nil, err
		}

		return String(str), nil

	case List:
		c := make(List, len(v))

		for i, e := range v {
			r, err := s.realize(ctx, e, depth)
			if err != nil {
				return nil, err
			}

			c[i] = r
		}

		return c, nil

	case Map:
		c := make(Map, len(v))

		for k, e := range v {
			r, err := s.realize(ctx, e, depth)
			if err != nil {
				return nil, err
			}

			c[k] = r
		}

		return c, nil

	case nil:
		return Undefined{}, nil

	default:
		return v, nil
	}
}

func (s *Stack) stringify(ctx context.Context, v Value, depth int) (string, error) {
	r, err := s.realize(ctx, v, depth)
	if err != nil {
		return "", err
	}

	return Raw(r), nil
}

// realizeTemplate substitutes every reference in t with the stringified
// value it currently names.
func (s *Stack) realizeTemplate(ctx context.Context, t Template, depth int) (string, error) {
	if depth >= maxTemplateDepth {
		return "", newError(TypeError, "template references itself").at(templateFile, t.Line)
	}

	var sb strings.Builder

	err := s.scanTemplate(ctx, t, func(_ string, path []string) error {
		v, err := s.Get(path...)
		if err != nil {
			return err
		}

		str, err := s.stringify(ctx, v, depth+1)
		if err != nil {
			return err
		}

		sb.WriteString(str)

		return nil
	}, func(_ string, b byte) { sb.WriteByte(b) })
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}

// bindSelf resolves the references in t that name root, leaving all other
// references in place, so that $p = "$p/bin" extends p instead of
// referring to itself.
func (s *Stack) bindSelf(ctx context.Context, t Template, root string) (Value, error) {
	if !strings.Contains(t.Source, root) {
		return t, nil
	}

	var sb strings.Builder

	err := s.scanTemplate(ctx, t, func(src string, path []string) error {
		if path[0] != root {
			sb.WriteString(src)

			return nil
		}

		v, err := s.Get(path...)
		if err != nil {
			return err
		}

		str, err := s.stringify(ctx, v, 1)
		if err != nil {
			return err
		}

		sb.WriteString(escapeTemplate(str))

		return nil
	}, func(src string, _ byte) { sb.WriteString(src) })
	if err != nil {
		return nil, err
	}

	return Template{Source: sb.String(), Line: t.Line}, nil
}

// scanTemplate walks the source of t, calling ref for every reference and
// text for every literal byte, each with the source text it was read from.
func (s *Stack) scanTemplate(
	ctx context.Context,
	t Template,
	ref func(src string, path []string) error,
	text func(src string, b byte),
) error {
	in := &interp{ctx: ctx, s: s}
	c := newCursor(t.Source, templateFile, t.Line)

	for !c.eof() {
		b := c.peek()

		switch {
		case b == '\\':
			start := c.pos
			c.advance()

			if !c.eof() {
				c.advance()
				text(c.code[start:c.pos], c.code[c.pos-1])
			}

		case b == '$' && startsReference(c.peekAt(1)):
			start := c.pos

			path, err := in.variablePath(c)
			if err != nil {
				return attribute(err, c.file, c.line)
			}

			if err := ref(c.code[start:c.pos], path); err != nil {
				return attribute(err, c.file, c.line)
			}

		default:
			c.advance()
			text(c.code[c.pos-1:c.pos], b)
		}
	}

	return nil
}

func startsReference(b byte) bool {
	return isAlnum(b) || b == '$' || b == '{'
}
