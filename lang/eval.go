package lang

import (
	"slices"
)

// evaluate collapses the operand/operator list in fixed passes. The pass
// order is the precedence table of the language.
func (in *interp) evaluate(nodes []node) (Value, error) {
	nodes, err := in.unary(nodes)
	if err != nil {
		return nil, err
	}

	passes := []struct {
		ops    []string
		assign bool
	}{
		{ops: []string{"/", "*", "%"}},
		{ops: []string{"+", "-"}},
		{ops: []string{"==", "!=", "<", ">", "<=", ">="}},
		{ops: []string{"/=", "*="}, assign: true},
		{ops: []string{"+=", "-="}, assign: true},
		{ops: []string{"="}, assign: true},
		{ops: []string{"&&", "||"}},
	}

	for _, p := range passes {
		if nodes, err = in.pass(nodes, p.ops, p.assign); err != nil {
			return nil, err
		}
	}

	for _, n := range nodes {
		if n.kind == nodeOperator {
			return nil, newError(SyntaxError, "unknown operator '%s'", n.op).at("", n.line)
		}
	}

	if len(nodes) != 1 {
		return nil, newError(TypeError, "evaluated expression does not have 1 return value")
	}

	return in.valueOf(nodes[0])
}

// unary applies prefix negation right to left, then postfix increment and
// decrement left to right.
func (in *interp) unary(nodes []node) ([]node, error) {
	for j := len(nodes) - 2; j >= 0; j-- {
		n := nodes[j]
		if n.kind != nodeOperator || !n.unary || (n.op != "!" && n.op != "!!") {
			continue
		}

		v, err := in.realized(nodes[j+1])
		if err != nil {
			return nil, err
		}

		b := Truthy(v)
		if n.op == "!" {
			b = !b
		}

		nodes[j] = literal(Boolean(b), n.line)
		nodes = slices.Delete(nodes, j+1, j+2)
	}

	for j := 1; j < len(nodes); j++ {
		n := nodes[j]
		if n.kind != nodeOperator || !n.unary || (n.op != "++" && n.op != "--") {
			continue
		}

		target := nodes[j-1]
		if target.kind != nodeVariable {
			return nil, in.lineError(newError(TypeError,
				"the left-hand side of '%s' must be a variable", n.op), n.line)
		}

		v, err := in.realized(target)
		if err != nil {
			return nil, err
		}

		i, ok := v.(Integer)
		if !ok {
			return nil, in.lineError(newError(TypeError,
				"operand of '%s' should be of type 'Integer' but is of type '%s'",
				n.op, TypeOf(v)), n.line)
		}

		if n.op == "++" {
			i++
		} else {
			i--
		}

		if err := in.s.Set(target.path, i); err != nil {
			return nil, in.lineError(err, n.line)
		}

		nodes[j-1] = literal(i, n.line)
		nodes = slices.Delete(nodes, j, j+1)
		j--
	}

	return nodes, nil
}

// pass collapses every "operand op operand" triple whose operator is in ops,
// left to right.
func (in *interp) pass(nodes []node, ops []string, assign bool) ([]node, error) {
	for j := 1; j < len(nodes)-1; j++ {
		n := nodes[j]
		if n.kind != nodeOperator || n.unary || !slices.Contains(ops, n.op) {
			continue
		}

		var (
			v   Value
			err error
		)

		if assign {
			v, err = in.assign(nodes[j-1], n.op, nodes[j+1])
		} else {
			v, err = in.binary(nodes[j-1], n.op, nodes[j+1])
		}

		if err != nil {
			return nil, in.lineError(err, n.line)
		}

		nodes[j-1] = literal(v, n.line)
		nodes = slices.Delete(nodes, j, j+2)
		j--
	}

	return nodes, nil
}

func (in *interp) binary(l node, op string, r node) (Value, error) {
	lv, err := in.valueOf(l)
	if err != nil {
		return nil, err
	}

	rv, err := in.valueOf(r)
	if err != nil {
		return nil, err
	}

	if op == "+" {
		return in.add(lv, rv)
	}

	if lv, err = in.s.realize(in.ctx, lv, 0); err != nil {
		return nil, err
	}

	if rv, err = in.s.realize(in.ctx, rv, 0); err != nil {
		return nil, err
	}

	return binaryOps[op](lv, rv)
}

// add concatenates templates lazily. Any other combination is realized and
// handed to [opAdd].
func (in *interp) add(l, r Value) (Value, error) {
	lt, lok := l.(Template)
	rt, rok := r.(Template)

	if lok || rok {
		ls, lsok := templateSource(l)
		rs, rsok := templateSource(r)

		if lsok && rsok {
			if lok && rs != "" && continuesReference(rs[0]) {
				rs = `\` + rs
			}

			line := lt.Line
			if !lok {
				line = rt.Line
			}

			return Template{Source: ls + rs, Line: line}, nil
		}
	}

	// An appended element is frozen at the time of the append. Elements
	// already in the list keep whatever state they had.
	r, err := in.s.realize(in.ctx, r, 0)
	if err != nil {
		return nil, err
	}

	if _, ok := l.(List); ok {
		return opAdd(l, r)
	}

	if l, err = in.s.realize(in.ctx, l, 0); err != nil {
		return nil, err
	}

	return opAdd(l, r)
}

// continuesReference reports whether b would extend a reference that ends
// a template source.
func continuesReference(b byte) bool {
	return isAlnum(b) || b == '.' || b == '['
}

func templateSource(v Value) (string, bool) {
	switch v := v.(type) {
	case Template:
		return v.Source, true
	case String:
		return escapeTemplate(string(v)), true
	case Integer:
		return v.raw(), true
	}

	return "", false
}

// assign implements "=" and the compound assignments. The stored value is
// kept unrealized so templates see later variable values.
func (in *interp) assign(l node, op string, r node) (Value, error) {
	if l.kind != nodeVariable {
		return nil, newError(TypeError, "the left-hand side of '%s' must be a variable", op)
	}

	v, err := in.valueOf(r)
	if err != nil {
		return nil, err
	}

	if op != "=" {
		lv, err := in.valueOf(l)
		if err != nil {
			return nil, err
		}

		base := op[:len(op)-1]
		if base == "+" {
			v, err = in.add(lv, v)
		} else {
			v, err = in.binary(literal(lv, l.line), base, literal(v, l.line))
		}

		if err != nil {
			return nil, err
		}
	}

	if t, ok := v.(Template); ok {
		if v, err = in.s.bindSelf(in.ctx, t, l.path[0]); err != nil {
			return nil, err
		}
	}

	if err := in.s.Set(l.path, v); err != nil {
		return nil, err
	}

	return v, nil
}

// valueOf returns the value of an operand node. Variables are read through
// the stack; templates stay unrealized.
func (in *interp) valueOf(n node) (Value, error) {
	switch n.kind {
	case nodeLiteral:
		return n.value, nil
	case nodeVariable:
		v, err := in.s.Get(n.path...)
		if err != nil {
			return nil, in.lineError(err, n.line)
		}

		return v, nil
	default:
		return nil, newError(InternalError, "operator '%s' used as operand", n.op)
	}
}

// realized returns the value of n with every template realized.
func (in *interp) realized(n node) (Value, error) {
	v, err := in.valueOf(n)
	if err != nil {
		return nil, err
	}

	return in.s.realize(in.ctx, v, 0)
}

// lineError sets the line of err, leaving the file to the enclosing
// statement.
func (in *interp) lineError(err error, line int) *Error {
	return WrapError(err).at("", line)
}
