package lang

// cursor is the parse position within a script. The parser and evaluator
// share one cursor and advance it in place. Reads never go past end, which
// lets a braced body run in a child cursor without copying the source.
type cursor struct {
	code string
	file string
	line int
	pos  int
	end  int
}

func newCursor(code, file string, line int) *cursor {
	if line < 1 {
		line = 1
	}

	return &cursor{code: code, file: file, line: line, end: len(code)}
}

// sub returns a cursor over [c.pos, end) that shares the source text.
func (c *cursor) sub(end int) *cursor {
	return &cursor{code: c.code, file: c.file, line: c.line, pos: c.pos, end: end}
}

func (c *cursor) eof() bool { return c.pos >= c.end }

func (c *cursor) peek() byte {
	if c.pos >= c.end {
		return 0
	}

	return c.code[c.pos]
}

func (c *cursor) peekAt(off int) byte {
	if c.pos+off >= c.end {
		return 0
	}

	return c.code[c.pos+off]
}

// advance moves past the current byte, counting newlines.
func (c *cursor) advance() {
	if c.pos < c.end {
		if c.code[c.pos] == '\n' {
			c.line++
		}

		c.pos++
	}
}

// seek moves forward to pos, counting newlines on the way.
func (c *cursor) seek(pos int) {
	for c.pos < pos && c.pos < c.end {
		c.advance()
	}
}

// skipSpace skips whitespace and '#' line comments. It reports whether
// anything was skipped.
func (c *cursor) skipSpace() bool {
	start := c.pos

	for c.pos < c.end {
		switch c.code[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.advance()
		case '#':
			for c.pos < c.end && c.code[c.pos] != '\n' {
				c.pos++
			}
		default:
			return c.pos > start
		}
	}

	return c.pos > start
}

// hasPrefix reports whether the unread input starts with s.
func (c *cursor) hasPrefix(s string) bool {
	return c.pos+len(s) <= c.end && c.code[c.pos:c.pos+len(s)] == s
}

// errorf returns an error attributed to the current line.
func (c *cursor) errorf(kind Kind, format string, args ...any) *Error {
	return newError(kind, format, args...).at(c.file, c.line)
}

func (c *cursor) unexpected() *Error {
	if c.eof() {
		return c.errorf(SyntaxError, "unexpected end of file")
	}

	return c.errorf(SyntaxError, "unexpected token '%c'", c.peek())
}

func isAlpha(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }

func isOperator(b byte) bool {
	switch b {
	case '=', '!', '&', '|', '+', '-', '*', '/', '%', '<', '>':
		return true
	}

	return false
}
