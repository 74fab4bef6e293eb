package zylisp

import (
	"math"
)

// The tower has a single floor: every number is a float64.

type NumericOp int

const (
	Add NumericOp = iota
	Sub
	Mult
	Div
	Mod
)

func (op NumericOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mult:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	}
	return "?"
}

func opFor(name string) NumericOp {
	switch name {
	case "-":
		return Sub
	case "*":
		return Mult
	case "/":
		return Div
	case "%":
		return Mod
	}
	return Add
}

func NumericDo(op NumericOp, a, b SexpNumber) SexpNumber {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mult:
		return a * b
	case Div:
		return a / b
	case Mod:
		return SexpNumber(math.Mod(float64(a), float64(b)))
	}
	return 0
}

// identity returns the left operand used when op is given exactly one
// argument: (- x) is 0-x and (/ x) is 1/x.
func (op NumericOp) identity() SexpNumber {
	switch op {
	case Mult, Div:
		return 1
	}
	return 0
}

// NumericFunction folds op left to right over its evaluated arguments.
// + and * accept zero arguments; % takes exactly two.
func NumericFunction(name string) NativeFunction {
	op := opFor(name)
	return func(ev *Evaluator, env *Scope, _ string, args []Value) (Value, error) {
		switch {
		case op == Mod && len(args) != 2:
			return SexpUnit, wrongNargs(name, "2 arguments", len(args))
		case (op == Sub || op == Div) && len(args) < 1:
			return SexpUnit, wrongNargs(name, "at least 1 argument", len(args))
		}

		nums := make([]SexpNumber, len(args))
		for i, a := range args {
			v, err := ev.Eval(a, env)
			if err != nil {
				return SexpUnit, err
			}
			n, isNum := v.(SexpNumber)
			if !isNum {
				return SexpUnit, typeMismatch(name, "number", v)
			}
			nums[i] = n
		}

		if len(nums) == 0 {
			return op.identity(), nil
		}
		if len(nums) == 1 {
			if op == Sub || op == Div {
				return NumericDo(op, op.identity(), nums[0]), nil
			}
			return nums[0], nil
		}
		accum := nums[0]
		for _, n := range nums[1:] {
			accum = NumericDo(op, accum, n)
		}
		return accum, nil
	}
}
