package zylisp

import (
	"unicode/utf8"
)

// listItems accepts a list or unit, which stands for the empty list.
func listItems(op string, v Value) ([]Value, error) {
	switch x := v.(type) {
	case *SexpList:
		return x.Items, nil
	case SexpSentinel:
		return nil, nil
	}
	return nil, typeMismatch(op, "list", v)
}

func ListFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	vals, err := ev.EvalArgs(args, env)
	if err != nil {
		return SexpUnit, err
	}
	return MakeList(vals), nil
}

func ConsFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 2 {
		return SexpUnit, wrongNargs(name, "2 arguments", len(args))
	}
	vals, err := ev.EvalArgs(args, env)
	if err != nil {
		return SexpUnit, err
	}
	tail, err := listItems(name, vals[1])
	if err != nil {
		return SexpUnit, err
	}
	items := make([]Value, 0, len(tail)+1)
	items = append(items, vals[0])
	items = append(items, tail...)
	return MakeList(items), nil
}

// FirstFunction serves car and first. The first of an empty list is unit.
func FirstFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	items, err := oneList(ev, env, name, args)
	if err != nil {
		return SexpUnit, err
	}
	if len(items) == 0 {
		return SexpUnit, nil
	}
	return items[0], nil
}

// RestFunction serves cdr and rest. The rest of an empty list is empty.
func RestFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	items, err := oneList(ev, env, name, args)
	if err != nil {
		return SexpUnit, err
	}
	if len(items) == 0 {
		return MakeList(nil), nil
	}
	rest := make([]Value, len(items)-1)
	copy(rest, items[1:])
	return MakeList(rest), nil
}

func LenFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return SexpUnit, wrongNargs(name, "1 argument", len(args))
	}
	v, err := ev.Eval(args[0], env)
	if err != nil {
		return SexpUnit, err
	}
	switch x := v.(type) {
	case SexpStr:
		return SexpNumber(utf8.RuneCountInString(string(x))), nil
	case *SexpList:
		return SexpNumber(len(x.Items)), nil
	case SexpSentinel:
		return SexpNumber(0), nil
	}
	return SexpUnit, typeMismatch(name, "list or string", v)
}

func EmptyFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	items, err := oneList(ev, env, name, args)
	if err != nil {
		return SexpUnit, err
	}
	return SexpBool(len(items) == 0), nil
}

func oneList(ev *Evaluator, env *Scope, name string, args []Value) ([]Value, error) {
	if len(args) != 1 {
		return nil, wrongNargs(name, "1 argument", len(args))
	}
	v, err := ev.Eval(args[0], env)
	if err != nil {
		return nil, err
	}
	return listItems(name, v)
}

func ListFunctions() map[string]NativeFunction {
	return map[string]NativeFunction{
		"list":   ListFunction,
		"cons":   ConsFunction,
		"car":    FirstFunction,
		"first":  FirstFunction,
		"cdr":    RestFunction,
		"rest":   RestFunction,
		"len":    LenFunction,
		"empty?": EmptyFunction,
	}
}
