package lang

// requireType fails with a TypeError unless v has type t.
func requireType(what string, v Value, t Type) error {
	if TypeOf(v) != t {
		return newError(TypeError, "%s should be of type '%s' but is of type '%s'",
			what, t, TypeOf(v))
	}

	return nil
}

func integers(op string, l, r Value) (Integer, Integer, error) {
	if err := requireType("left-hand side of '"+op+"'", l, TypeInteger); err != nil {
		return 0, 0, err
	}

	if err := requireType("right-hand side of '"+op+"'", r, TypeInteger); err != nil {
		return 0, 0, err
	}

	return l.(Integer), r.(Integer), nil
}

func opDiv(l, r Value) (Value, error) {
	a, b, err := integers("/", l, r)
	if err != nil {
		return nil, err
	}

	if b == 0 {
		return nil, newError(ArithmeticError, "division by zero")
	}

	return a / b, nil
}

func opMul(l, r Value) (Value, error) {
	a, b, err := integers("*", l, r)
	if err != nil {
		return nil, err
	}

	return a * b, nil
}

func opMod(l, r Value) (Value, error) {
	a, b, err := integers("%", l, r)
	if err != nil {
		return nil, err
	}

	if b == 0 {
		return nil, newError(ArithmeticError, "modulo by zero")
	}

	return a % b, nil
}

func opSub(l, r Value) (Value, error) {
	a, b, err := integers("-", l, r)
	if err != nil {
		return nil, err
	}

	return a - b, nil
}

func opAdd(l, r Value) (Value, error) {
	switch a := l.(type) {
	case Undefined:
		if isUndefined(r) {
			return nil, newError(TypeError, "undefined cannot be added to undefined")
		}

	case String:
		switch b := r.(type) {
		case String:
			return a + b, nil
		case Integer:
			return a + String(b.raw()), nil
		}

	case Integer:
		switch b := r.(type) {
		case Integer:
			return a + b, nil
		case String:
			return String(a.raw()) + b, nil
		}

	case List:
		c := make(List, 0, len(a)+1)
		for _, e := range a {
			c = append(c, Copy(e))
		}

		return append(c, Copy(r)), nil
	}

	return nil, newError(TypeError,
		"unexpected operand types for add operation (left type '%s', right type '%s')",
		TypeOf(l), TypeOf(r))
}

func opEq(l, r Value) (Value, error) {
	return Boolean(equal(l, r)), nil
}

func opNeq(l, r Value) (Value, error) {
	return Boolean(!equal(l, r)), nil
}

// equal compares same-typed scalars directly and everything else by the
// canonical string form.
func equal(l, r Value) bool {
	switch a := l.(type) {
	case String:
		if b, ok := r.(String); ok {
			return a == b
		}
	case Integer:
		if b, ok := r.(Integer); ok {
			return a == b
		}
	case Boolean:
		if b, ok := r.(Boolean); ok {
			return a == b
		}
	}

	lu, ru := isUndefined(l), isUndefined(r)
	if lu || ru {
		return lu && ru
	}

	return Raw(l) == Raw(r)
}

func compare(name string, l, r Value, fn func(a, b Integer) bool) (Value, error) {
	a, aok := l.(Integer)
	b, bok := r.(Integer)

	if !aok || !bok {
		return nil, newError(TypeError,
			"unexpected operand types for %s operation (left type '%s', right type '%s')",
			name, TypeOf(l), TypeOf(r))
	}

	return Boolean(fn(a, b)), nil
}

func opLt(l, r Value) (Value, error) {
	return compare("less-than", l, r, func(a, b Integer) bool { return a < b })
}

func opGt(l, r Value) (Value, error) {
	return compare("greater-than", l, r, func(a, b Integer) bool { return a > b })
}

func opLe(l, r Value) (Value, error) {
	return compare("less-than-or-equals", l, r, func(a, b Integer) bool { return a <= b })
}

func opGe(l, r Value) (Value, error) {
	return compare("greater-than-or-equals", l, r, func(a, b Integer) bool { return a >= b })
}

// opAnd is false whenever either side is Undefined. Both sides have already
// been evaluated.
func opAnd(l, r Value) (Value, error) {
	if isUndefined(l) || isUndefined(r) {
		return Boolean(false), nil
	}

	return Boolean(Truthy(l) && Truthy(r)), nil
}

func opOr(l, r Value) (Value, error) {
	return Boolean(Truthy(l) || Truthy(r)), nil
}

// binaryOps maps each binary operator symbol to its implementation.
// Compound assignments share the implementation of their base operator.
var binaryOps = map[string]func(l, r Value) (Value, error){
	"/":  opDiv,
	"*":  opMul,
	"%":  opMod,
	"+":  opAdd,
	"-":  opSub,
	"==": opEq,
	"!=": opNeq,
	"<":  opLt,
	">":  opGt,
	"<=": opLe,
	">=": opGe,
	"&&": opAnd,
	"||": opOr,
	"/=": opDiv,
	"*=": opMul,
	"+=": opAdd,
	"-=": opSub,
}
