package zylisp

// CompareFunction builds the binary comparison natives. = and != work on
// any values through Equal; the orderings need two numbers.
func CompareFunction(name string) NativeFunction {
	return func(ev *Evaluator, env *Scope, _ string, args []Value) (Value, error) {
		if len(args) != 2 {
			return SexpUnit, wrongNargs(name, "2 arguments", len(args))
		}
		vals, err := ev.EvalArgs(args, env)
		if err != nil {
			return SexpUnit, err
		}
		a, b := vals[0], vals[1]

		switch name {
		case "=":
			return SexpBool(Equal(a, b)), nil
		case "!=":
			return SexpBool(!Equal(a, b)), nil
		}

		x, isNum := a.(SexpNumber)
		if !isNum {
			return SexpUnit, typeMismatch(name, "number", a)
		}
		y, isNum := b.(SexpNumber)
		if !isNum {
			return SexpUnit, typeMismatch(name, "number", b)
		}

		cond := false
		switch name {
		case "<":
			cond = x < y
		case ">":
			cond = x > y
		case "<=":
			cond = x <= y
		case ">=":
			cond = x >= y
		}
		return SexpBool(cond), nil
	}
}

func NotFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return SexpUnit, wrongNargs(name, "1 argument", len(args))
	}
	v, err := ev.Eval(args[0], env)
	if err != nil {
		return SexpUnit, err
	}
	b, isBool := v.(SexpBool)
	if !isBool {
		return SexpUnit, typeMismatch(name, "boolean", v)
	}
	return !b, nil
}
