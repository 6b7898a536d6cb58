package lang

// signal is the way a statement completed.
type signal int

const (
	sigNormal signal = iota
	sigReturn
	sigBreak
	sigContinue
)

// flow is the result of executing a statement: its value and how control
// leaves it.
type flow struct {
	signal signal
	value  Value
	line   int
}

func normal(v Value) flow { return flow{signal: sigNormal, value: v} }

// block executes statements until the cursor is exhausted or a statement
// completes with a non-normal signal.
func (in *interp) block(c *cursor) (flow, error) {
	last := normal(Undefined{})

	for {
		c.skipSpace()

		if c.eof() {
			return last, nil
		}

		f, err := in.statement(c)
		if err != nil {
			return flow{}, attribute(err, c.file, c.line)
		}

		if f.signal != sigNormal {
			return f, nil
		}

		last = f
	}
}

// statement executes one statement. Keywords are recognized only at the
// start of a statement.
func (in *interp) statement(c *cursor) (flow, error) {
	if err := in.ctx.Err(); err != nil {
		return flow{}, err
	}

	switch c.peek() {
	case ';', ',':
		c.advance()

		return normal(Undefined{}), nil

	case ')', ']', '}':
		return flow{}, c.unexpected()

	case '{':
		f, err := in.body(c, true)
		if err != nil {
			return flow{}, err
		}

		return f, nil
	}

	line := c.line

	switch peekWord(c) {
	case "if":
		in.word(c)

		return in.ifChain(c)

	case "while":
		in.word(c)

		return in.while(c)

	case "return":
		in.word(c)
		c.skipSpace()

		var v Value = Undefined{}

		if !c.eof() && !isTerminator(c.peek()) {
			var err error
			if v, err = in.expression(c); err != nil {
				return flow{}, err
			}
		}

		if err := in.endStatement(c); err != nil {
			return flow{}, err
		}

		return flow{signal: sigReturn, value: v, line: line}, nil

	case "break", "continue":
		sig := sigBreak
		if in.word(c) == "continue" {
			sig = sigContinue
		}

		if err := in.endStatement(c); err != nil {
			return flow{}, err
		}

		return flow{signal: sig, line: line}, nil

	case "else":
		return flow{}, c.errorf(SyntaxError, "unexpected 'else'")
	}

	v, err := in.expression(c)
	if err != nil {
		return flow{}, err
	}

	if err := in.endStatement(c); err != nil {
		return flow{}, err
	}

	return normal(v), nil
}

// endStatement consumes the ';' or ',' ending a statement. The end of the
// cursor also ends a statement.
func (in *interp) endStatement(c *cursor) error {
	c.skipSpace()

	switch {
	case c.eof():
		return nil
	case c.peek() == ';' || c.peek() == ',':
		c.advance()

		return nil
	default:
		return c.unexpected()
	}
}

// condition evaluates a parenthesized condition.
func (in *interp) condition(c *cursor) (bool, error) {
	if err := in.expect(c, '('); err != nil {
		return false, err
	}

	v, err := in.expression(c)
	if err != nil {
		return false, err
	}

	if err := in.expect(c, ')'); err != nil {
		return false, err
	}

	if v, err = in.s.realize(in.ctx, v, 0); err != nil {
		return false, err
	}

	return Truthy(v), nil
}

// skipCondition moves past a parenthesized condition without evaluating it.
func (in *interp) skipCondition(c *cursor) error {
	c.skipSpace()

	if c.peek() != '(' {
		return in.expect(c, '(')
	}

	end, err := matchClose(c)
	if err != nil {
		return err
	}

	c.seek(end + 1)

	return nil
}

// body executes (when run is set) or skips the statement or braced block
// at the cursor, leaving the cursor after it either way. A braced block
// runs in its own scope frame.
func (in *interp) body(c *cursor, run bool) (flow, error) {
	c.skipSpace()

	if c.eof() {
		return flow{}, c.errorf(SyntaxError, "unexpected end of file")
	}

	var (
		end, next int
		err       error
	)

	braced := c.peek() == '{'

	if braced {
		if end, err = matchClose(c); err != nil {
			return flow{}, err
		}

		c.advance()

		next = end + 1
	} else {
		if end, err = statementEnd(c); err != nil {
			return flow{}, err
		}

		next = end
	}

	f := normal(Undefined{})

	if run {
		sub := c.sub(end)

		in.s.Push()
		f, err = in.block(sub)
		in.s.Pop()

		if err != nil {
			return flow{}, err
		}
	}

	c.seek(next)

	if !braced && c.peek() == ';' {
		c.advance()
	}

	return f, nil
}

// ifChain executes an if statement with its else-if and else clauses. Once
// a clause is taken, the conditions of the remaining clauses are skipped
// without being evaluated.
func (in *interp) ifChain(c *cursor) (flow, error) {
	taken := false
	result := normal(Undefined{})

	for {
		run := false

		if taken {
			if err := in.skipCondition(c); err != nil {
				return flow{}, err
			}
		} else {
			ok, err := in.condition(c)
			if err != nil {
				return flow{}, err
			}

			run = ok
		}

		f, err := in.body(c, run)
		if err != nil {
			return flow{}, err
		}

		if run {
			if f.signal != sigNormal {
				return f, nil
			}

			taken = true
			result = f
		}

		mark := *c

		c.skipSpace()

		if peekWord(c) != "else" {
			*c = mark

			return result, nil
		}

		in.word(c)
		c.skipSpace()

		if peekWord(c) == "if" {
			in.word(c)

			continue
		}

		f, err = in.body(c, !taken)
		if err != nil {
			return flow{}, err
		}

		if !taken {
			result = f
		}

		return result, nil
	}
}

// while executes a loop. The condition is parsed and evaluated again on
// every iteration.
func (in *interp) while(c *cursor) (flow, error) {
	start := *c

	for {
		if err := in.ctx.Err(); err != nil {
			return flow{}, err
		}

		*c = start

		ok, err := in.condition(c)
		if err != nil {
			return flow{}, err
		}

		f, err := in.body(c, ok)
		if err != nil {
			return flow{}, err
		}

		if !ok {
			return normal(Undefined{}), nil
		}

		switch f.signal {
		case sigBreak:
			return normal(Undefined{}), nil
		case sigReturn:
			return f, nil
		}
	}
}

// matchClose returns the index of the bracket closing the one at the
// cursor. Strings and comments are skipped.
func matchClose(c *cursor) (int, error) {
	return scan(c, false)
}

// statementEnd returns the index of the ';' ending the statement at the
// cursor, or the end of the cursor.
func statementEnd(c *cursor) (int, error) {
	return scan(c, true)
}

func scan(c *cursor, toSemicolon bool) (int, error) {
	var stack []byte

	line := c.line

	for j := c.pos; j < c.end; j++ {
		switch b := c.code[j]; b {
		case '\n':
			line++

		case '#':
			for j+1 < c.end && c.code[j+1] != '\n' {
				j++
			}

		case '"', '\'':
			k := skipQuoted(c.code, j, c.end)
			for _, ch := range c.code[j:k] {
				if ch == '\n' {
					line++
				}
			}

			j = k - 1

		case '(':
			stack = append(stack, ')')
		case '[':
			stack = append(stack, ']')
		case '{':
			stack = append(stack, '}')

		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != b {
				return 0, newError(SyntaxError, "mismatched '%c'", b).at(c.file, line)
			}

			stack = stack[:len(stack)-1]

			if len(stack) == 0 && !toSemicolon {
				return j, nil
			}

		case ';':
			if toSemicolon && len(stack) == 0 {
				return j, nil
			}
		}
	}

	if toSemicolon && len(stack) == 0 {
		return c.end, nil
	}

	return 0, newError(SyntaxError, "unexpected end of file").at(c.file, line)
}
