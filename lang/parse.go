package lang

import (
	"context"
	"strconv"
	"strings"
)

// interp evaluates source text directly, without building a syntax tree.
// Every production reads from and advances a shared [cursor].
type interp struct {
	ctx context.Context
	s   *Stack
}

type nodeKind int

const (
	nodeLiteral nodeKind = iota
	nodeVariable
	nodeOperator
)

// node is one element of the flat operand/operator list accumulated for an
// expression.
type node struct {
	kind  nodeKind
	value Value
	path  []string
	op    string
	unary bool
	line  int
}

func literal(v Value, line int) node {
	return node{kind: nodeLiteral, value: v, line: line}
}

// reserved names that may not be used as parameter names.
var reservedParams = map[string]bool{
	"false":     true,
	"true":      true,
	"undefined": true,
	"return":    true,
	"if":        true,
}

// misplaced are the statement keywords that cannot occur inside an
// expression.
var misplaced = map[string]bool{
	"return":   true,
	"break":    true,
	"continue": true,
	"if":       true,
	"while":    true,
	"else":     true,
}

func isTerminator(b byte) bool {
	switch b {
	case ',', ';', ']', ')':
		return true
	}

	return false
}

// expression parses operands and operators up to the next terminator and
// evaluates them. The terminator is not consumed.
func (in *interp) expression(c *cursor) (Value, error) {
	var nodes []node

	expectOperand := true

	for {
		c.skipSpace()

		if c.eof() || isTerminator(c.peek()) {
			break
		}

		line := c.line

		switch b := c.peek(); {
		case b == '(':
			if !expectOperand {
				last := &nodes[len(nodes)-1]
				if last.kind != nodeVariable {
					return nil, c.unexpected()
				}

				v, err := in.callVariable(c, last.path)
				if err != nil {
					return nil, err
				}

				*last = literal(v, line)

				continue
			}

			c.advance()

			v, err := in.expression(c)
			if err != nil {
				return nil, err
			}

			if err := in.expect(c, ')'); err != nil {
				return nil, err
			}

			nodes = append(nodes, literal(v, line))

		case b == '[':
			if !expectOperand {
				return nil, c.unexpected()
			}

			v, err := in.list(c)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, literal(v, line))

		case b == '$':
			if !expectOperand {
				return nil, c.unexpected()
			}

			path, err := in.variablePath(c)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, node{kind: nodeVariable, path: path, line: line})

		case b == '"' || b == '\'':
			if !expectOperand {
				return nil, c.unexpected()
			}

			v, err := in.stringLiteral(c)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, literal(v, line))

		case isDigit(b):
			if !expectOperand {
				return nil, c.unexpected()
			}

			v, err := in.number(c)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, literal(v, line))

		case isAlpha(b):
			if !expectOperand {
				return nil, c.unexpected()
			}

			v, err := in.identifier(c)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, literal(v, line))

		case isOperator(b):
			op := in.operator(c)

			switch {
			case expectOperand && (op == "!" || op == "!!"):
				nodes = append(nodes, node{kind: nodeOperator, op: op, unary: true, line: line})

				continue

			case expectOperand:
				return nil, c.errorf(SyntaxError, "incorrectly placed operator")

			case op == "++" || op == "--":
				nodes = append(nodes, node{kind: nodeOperator, op: op, unary: true, line: line})

				continue
			}

			nodes = append(nodes, node{kind: nodeOperator, op: op, line: line})

		default:
			return nil, c.unexpected()
		}

		expectOperand = nodes[len(nodes)-1].kind == nodeOperator
	}

	if len(nodes) == 0 {
		return Undefined{}, nil
	}

	if expectOperand {
		return nil, c.errorf(SyntaxError, "incorrectly placed operator")
	}

	return in.evaluate(nodes)
}

// expect consumes b or fails.
func (in *interp) expect(c *cursor, b byte) error {
	c.skipSpace()

	if c.peek() != b {
		if c.eof() {
			return c.errorf(SyntaxError, "unexpected end of file")
		}

		return c.errorf(SyntaxError, "unexpected token '%c' (expected '%c')", c.peek(), b)
	}

	c.advance()

	return nil
}

// operator reads a maximal run of operator characters.
func (in *interp) operator(c *cursor) string {
	start := c.pos
	for !c.eof() && isOperator(c.peek()) {
		c.advance()
	}

	return c.code[start:c.pos]
}

// word reads a maximal run of identifier characters.
func (in *interp) word(c *cursor) string {
	start := c.pos
	for !c.eof() && isAlnum(c.peek()) {
		c.advance()
	}

	return c.code[start:c.pos]
}

// peekWord returns the identifier at the cursor without consuming it.
func peekWord(c *cursor) string {
	end := c.pos
	for end < c.end && isAlnum(c.code[end]) {
		end++
	}

	return c.code[c.pos:end]
}

func (in *interp) number(c *cursor) (Value, error) {
	start := c.pos

	for !c.eof() {
		b := c.peek()
		if b == '.' {
			return nil, c.errorf(TypeError, "floating-point unsupported")
		}

		if !isAlnum(b) && b != '-' {
			break
		}

		c.advance()
	}

	tok := c.code[start:c.pos]

	n, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return nil, c.errorf(SyntaxError, "invalid integer '%s'", tok)
	}

	return Integer(n), nil
}

// stringLiteral parses a quoted string. A double-quoted string containing
// an unescaped '$' becomes a [Template]; its source keeps escapes other
// than \n, \r and \t so realization can tell literal dollars from
// references.
func (in *interp) stringLiteral(c *cursor) (Value, error) {
	quote := c.peek()
	line := c.line

	c.advance()

	var plain, source strings.Builder

	deref := false

	for {
		if c.eof() {
			return nil, c.errorf(SyntaxError, "unexpected end of file")
		}

		b := c.peek()
		c.advance()

		switch b {
		case quote:
			if deref && quote == '"' {
				return Template{Source: source.String(), Line: line}, nil
			}

			return String(plain.String()), nil

		case '\\':
			if c.eof() {
				return nil, c.errorf(SyntaxError, "unexpected end of file")
			}

			e := c.peek()
			c.advance()

			switch e {
			case 'n':
				e = '\n'
			case 'r':
				e = '\r'
			case 't':
				e = '\t'
			default:
				source.WriteByte('\\')
			}

			plain.WriteByte(e)
			source.WriteByte(e)

		case '$':
			deref = true

			fallthrough

		default:
			plain.WriteByte(b)
			source.WriteByte(b)
		}
	}
}

// variablePath parses a '$' reference into its path segments. A leading
// "$$" marks a superglobal, whose first segment is returned with a '$'
// prefix. Inside a "${...}" guard every character other than '.', '[' and
// '}' belongs to the name.
func (in *interp) variablePath(c *cursor) ([]string, error) {
	c.advance()

	super := c.peek() == '$'
	if super {
		c.advance()
	}

	guard := c.peek() == '{'
	if guard {
		c.advance()
	}

	var (
		path []string
		name strings.Builder
	)

	flush := func() {
		if name.Len() > 0 {
			path = append(path, name.String())
			name.Reset()
		}
	}

loop:
	for {
		if c.eof() {
			if guard {
				return nil, c.errorf(SyntaxError, "unexpected end of file")
			}

			break
		}

		switch b := c.peek(); {
		case b == '.':
			flush()
			c.advance()

		case b == '[':
			flush()

			seg, err := in.index(c)
			if err != nil {
				return nil, err
			}

			path = append(path, seg)

		case guard && b == '}':
			c.advance()

			break loop

		case guard || isAlnum(b):
			name.WriteByte(b)
			c.advance()

		default:
			break loop
		}
	}

	flush()

	if len(path) == 0 {
		return nil, c.errorf(SyntaxError, "expected variable name")
	}

	if super {
		path[0] = "$" + path[0]
	}

	return path, nil
}

// index parses a bracketed path segment and coerces it to a string.
func (in *interp) index(c *cursor) (string, error) {
	c.advance()

	v, err := in.expression(c)
	if err != nil {
		return "", err
	}

	if err := in.expect(c, ']'); err != nil {
		return "", err
	}

	switch v := v.(type) {
	case Integer:
		return v.raw(), nil
	case String:
		return string(v), nil
	case Template:
		return in.s.stringify(in.ctx, v, 0)
	default:
		return "", c.errorf(TypeError,
			"expression return type should be of type 'String' but is of type '%s'",
			TypeOf(v))
	}
}

// list parses a list literal. A trailing comma is allowed.
func (in *interp) list(c *cursor) (Value, error) {
	c.advance()

	l := List{}

	for {
		c.skipSpace()

		if c.peek() == ']' {
			c.advance()

			return l, nil
		}

		v, err := in.expression(c)
		if err != nil {
			return nil, err
		}

		l = append(l, v)

		c.skipSpace()

		switch c.peek() {
		case ',':
			c.advance()
		case ']':
			c.advance()

			return l, nil
		default:
			if c.eof() {
				return nil, c.errorf(SyntaxError, "unexpected end of file")
			}

			return nil, c.errorf(SyntaxError,
				"unexpected token '%c' (expected ',' or ']')", c.peek())
		}
	}
}

// identifier handles literals, function literals and global function calls.
func (in *interp) identifier(c *cursor) (Value, error) {
	line := c.line
	name := in.word(c)

	switch name {
	case "true":
		return Boolean(true), nil
	case "false":
		return Boolean(false), nil
	case "undefined":
		return Undefined{}, nil
	case "function":
		return in.functionLiteral(c)
	}

	if misplaced[name] {
		return nil, c.errorf(SyntaxError, "incorrectly placed '%s'", name)
	}

	fn, ok := in.s.Function(name)
	if !ok {
		return nil, c.errorf(SyntaxError,
			"attempted to call function '%s' which does not exist", name)
	}

	c.skipSpace()

	if c.peek() != '(' {
		if c.eof() {
			return nil, c.errorf(SyntaxError, "unexpected end of file")
		}

		return nil, c.errorf(SyntaxError, "unexpected token '%c' (expected '(')", c.peek())
	}

	args, err := in.arguments(c)
	if err != nil {
		return nil, err
	}

	return in.call(fn, nil, args, c.file, line)
}

// functionLiteral parses "function { body }". The body is kept as source
// text and evaluated on each call.
func (in *interp) functionLiteral(c *cursor) (Value, error) {
	c.skipSpace()

	if c.peek() != '{' {
		return nil, c.unexpected()
	}

	line := c.line

	end, err := matchClose(c)
	if err != nil {
		return nil, err
	}

	body := c.code[c.pos+1 : end]
	c.seek(end + 1)

	return UserFunction(body, c.file, line), nil
}

// callVariable calls the function stored at path. All but the last segment
// of the path name the invocation context.
func (in *interp) callVariable(c *cursor, path []string) (Value, error) {
	line := c.line

	v, err := in.s.lookup(path)
	if err != nil {
		return nil, attribute(err, c.file, line)
	}

	var fn *Function

	switch v := v.(type) {
	case *Function:
		fn = v
	case Undefined:
	default:
		return nil, c.errorf(TypeError,
			"referenced variable should be of type 'Function' but is of type '%s'",
			TypeOf(v))
	}

	var this Value

	if len(path) > 1 {
		ctxv, err := in.s.Get(path[:len(path)-1]...)
		if err != nil {
			return nil, attribute(err, c.file, line)
		}

		this = ctxv
	}

	args, err := in.arguments(c)
	if err != nil {
		return nil, err
	}

	return in.call(fn, this, args, c.file, line)
}

func (in *interp) call(fn *Function, this Value, args Map, file string, line int) (Value, error) {
	if err := in.ctx.Err(); err != nil {
		return nil, attribute(err, file, line)
	}

	v, err := fn.Call(in.ctx, in.s, this, args)
	if err != nil {
		return nil, attribute(err, file, line)
	}

	return v, nil
}

// arguments parses a parenthesized argument list. The first argument is
// positional (key "0") unless it looks like a parameter name; a name with
// no value is shorthand for true.
func (in *interp) arguments(c *cursor) (Map, error) {
	c.advance()

	args := Map{}

	for i := 0; ; i++ {
		c.skipSpace()

		if c.peek() == ')' {
			c.advance()

			return args, nil
		}

		if i == 0 && positional(c) {
			v, err := in.expression(c)
			if err != nil {
				return nil, err
			}

			args["0"] = v
		} else {
			quoted := c.peek() == '"' || c.peek() == '\''

			name, err := in.paramName(c)
			if err != nil {
				return nil, err
			}

			if !quoted && reservedParams[name] {
				return nil, c.errorf(SyntaxError, "'%s' is an illegal parameter name", name)
			}

			c.skipSpace()

			switch c.peek() {
			case ':':
				c.advance()

				v, err := in.expression(c)
				if err != nil {
					return nil, err
				}

				args[name] = v

			case ',', ')':
				args[name] = Boolean(true)

			default:
				if c.eof() {
					return nil, c.errorf(SyntaxError, "unexpected end of file")
				}

				return nil, c.errorf(SyntaxError,
					"unexpected token '%c' (expected ':')", c.peek())
			}
		}

		c.skipSpace()

		switch c.peek() {
		case ',':
			c.advance()
		case ')':
			c.advance()

			return args, nil
		default:
			if c.eof() {
				return nil, c.errorf(SyntaxError, "unexpected end of file")
			}

			return nil, c.errorf(SyntaxError,
				"unexpected token '%c' (expected ',' or ')')", c.peek())
		}
	}
}

// paramName reads an identifier or quoted parameter name.
func (in *interp) paramName(c *cursor) (string, error) {
	switch b := c.peek(); {
	case isAlpha(b) || isDigit(b):
		return in.word(c), nil

	case b == '"' || b == '\'':
		v, err := in.stringLiteral(c)
		if err != nil {
			return "", err
		}

		if t, ok := v.(Template); ok {
			return in.s.stringify(in.ctx, t, 0)
		}

		return string(v.(String)), nil

	default:
		return "", c.unexpected()
	}
}

// positional scans ahead to decide whether the first argument is an
// expression. A ':' before any of "([${" means a named argument. If the
// argument ends first, a lone identifier is a named boolean and anything
// else is an expression.
func positional(c *cursor) bool {
	j := c.pos

scan:
	for j < c.end {
		switch c.code[j] {
		case ':':
			return false
		case '(', '[', '$', '{':
			return true
		case ',', ')', ';':
			break scan
		case '"', '\'':
			j = skipQuoted(c.code, j, c.end)

			continue
		}

		j++
	}

	tok := strings.TrimSpace(c.code[c.pos:j])
	if tok == "" || !isAlpha(tok[0]) {
		return true
	}

	for i := range len(tok) {
		if !isAlnum(tok[i]) {
			return true
		}
	}

	switch tok {
	case "true", "false", "undefined":
		return true
	}

	return false
}

// skipQuoted returns the index just past the string literal starting at i.
func skipQuoted(code string, i, end int) int {
	quote := code[i]

	for i++; i < end; i++ {
		switch code[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}

	return end
}
