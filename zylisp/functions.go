package zylisp

import (
	"fmt"
	"io"
	"strings"
)

// Special forms and the rest of the prelude are ordinary natives. Each
// receives its arguments unevaluated and calls back into ev for the ones
// it wants.

func IfFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return SexpUnit, wrongNargs(name, "2 or 3 arguments", len(args))
	}
	cond, err := ev.Eval(args[0], env)
	if err != nil {
		return SexpUnit, err
	}
	b, isBool := cond.(SexpBool)
	if !isBool {
		return SexpUnit, typeMismatch(name, "boolean condition", cond)
	}
	if b {
		return ev.Eval(args[1], env)
	}
	if len(args) == 3 {
		return ev.Eval(args[2], env)
	}
	return SexpUnit, nil
}

func DefFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 2 {
		return SexpUnit, wrongNargs(name, "2 arguments", len(args))
	}
	target := appliedArg(args[0])
	sym, isAtom := target.(*SexpAtom)
	if !isAtom {
		return SexpUnit, typeMismatch(name, "atom", target)
	}
	if _, bound := env.LookupLocal(sym.Name); bound {
		return SexpUnit, evalErrorf(sym.Loc, ErrRedefinition, "%s is already defined", sym.Name)
	}
	val, err := ev.Eval(args[1], env)
	if err != nil {
		return SexpUnit, err
	}
	env.Set(sym.Name, val)
	return val, nil
}

func SetFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 2 {
		return SexpUnit, wrongNargs(name, "2 arguments", len(args))
	}
	target := appliedArg(args[0])
	sym, isAtom := target.(*SexpAtom)
	if !isAtom {
		return SexpUnit, typeMismatch(name, "atom", target)
	}
	val, err := ev.Eval(args[1], env)
	if err != nil {
		return SexpUnit, err
	}
	env.Set(sym.Name, val)
	return val, nil
}

func LambdaFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) < 1 {
		return SexpUnit, wrongNargs(name, "a parameter list", len(args))
	}
	args = appliedArgs(args)
	params, err := paramNames(name, args[0])
	if err != nil {
		return SexpUnit, err
	}
	return &SexpClosure{
		Params: params,
		Body:   &SexpDo{Body: args[1:]},
		Env:    env,
	}, nil
}

func DefunFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) < 2 {
		return SexpUnit, wrongNargs(name, "a name and a parameter list", len(args))
	}
	args = appliedArgs(args)
	sym, isAtom := args[0].(*SexpAtom)
	if !isAtom {
		return SexpUnit, typeMismatch(name, "atom", args[0])
	}
	if _, bound := env.LookupLocal(sym.Name); bound {
		return SexpUnit, evalErrorf(sym.Loc, ErrRedefinition, "%s is already defined", sym.Name)
	}
	params, err := paramNames(name, args[1])
	if err != nil {
		return SexpUnit, err
	}
	fn := &SexpClosure{
		Name:   sym.Name,
		Params: params,
		Body:   &SexpDo{Body: args[2:]},
		Env:    env,
	}
	env.Set(sym.Name, fn)
	return fn, nil
}

func paramNames(op string, v Value) ([]string, error) {
	if v == SexpUnit {
		return nil, nil
	}
	list, isList := v.(*SexpList)
	if !isList {
		return nil, typeMismatch(op, "parameter list", v)
	}
	params := make([]string, len(list.Items))
	for i, item := range list.Items {
		sym, isAtom := item.(*SexpAtom)
		if !isAtom {
			return nil, typeMismatch(op, "atom as parameter", item)
		}
		params[i] = sym.Name
	}
	return params, nil
}

func DoFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	return ev.EvalSequence(args, env)
}

func QuoteFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return SexpUnit, wrongNargs(name, "1 argument", len(args))
	}
	return appliedArg(args[0]), nil
}

// AndOrFunction short-circuits: and stops at the first #f, or at the
// first #t.
func AndOrFunction(name string) NativeFunction {
	stopOn := SexpBool(name == "or")
	return func(ev *Evaluator, env *Scope, _ string, args []Value) (Value, error) {
		for _, a := range args {
			v, err := ev.Eval(a, env)
			if err != nil {
				return SexpUnit, err
			}
			b, isBool := v.(SexpBool)
			if !isBool {
				return SexpUnit, typeMismatch(name, "boolean", v)
			}
			if b == stopOn {
				return b, nil
			}
		}
		return !stopOn, nil
	}
}

func EvalFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return SexpUnit, wrongNargs(name, "1 argument", len(args))
	}
	form, err := ev.Eval(args[0], env)
	if err != nil {
		return SexpUnit, err
	}
	return ev.Eval(form, env)
}

// ReadFunction parses a string into an unevaluated form. More than one
// expression comes back as a do-sequence.
func ReadFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return SexpUnit, wrongNargs(name, "1 argument", len(args))
	}
	v, err := ev.Eval(args[0], env)
	if err != nil {
		return SexpUnit, err
	}
	src, isStr := v.(SexpStr)
	if !isStr {
		return SexpUnit, typeMismatch(name, "string", v)
	}
	progn, err := Parse(string(src))
	if err != nil {
		return SexpUnit, err
	}
	switch len(progn.Items) {
	case 0:
		return SexpUnit, nil
	case 1:
		return ToValue(progn.Items[0]), nil
	}
	return ToValue(progn), nil
}

func ApplyFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 2 {
		return SexpUnit, wrongNargs(name, "2 arguments", len(args))
	}
	vals, err := ev.EvalArgs(args, env)
	if err != nil {
		return SexpUnit, err
	}
	items, err := listItems(name, vals[1])
	if err != nil {
		return SexpUnit, err
	}
	return ev.Apply(vals[0], items, env)
}

func TypeFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return SexpUnit, wrongNargs(name, "1 argument", len(args))
	}
	v, err := ev.Eval(args[0], env)
	if err != nil {
		return SexpUnit, err
	}
	return SexpStr(TypeName(v)), nil
}

func StrFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	vals, err := ev.EvalArgs(args, env)
	if err != nil {
		return SexpUnit, err
	}
	var b strings.Builder
	for _, v := range vals {
		b.WriteString(v.Display())
	}
	return SexpStr(b.String()), nil
}

func PrintFunction(out io.Writer) NativeFunction {
	return func(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
		vals, err := ev.EvalArgs(args, env)
		if err != nil {
			return SexpUnit, err
		}
		s := joinValues(vals, Value.Display)
		switch name {
		case "println":
			fmt.Fprintln(out, s)
		default:
			fmt.Fprint(out, s)
		}
		return SexpUnit, nil
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func MergeFuncMap(funcs ...map[string]NativeFunction) map[string]NativeFunction {
	n := make(map[string]NativeFunction)

	for _, f := range funcs {
		for k, v := range f {
			// disallow dups, avoiding possible security implications and confusion generally.
			if _, dup := n[k]; dup {
				panic(fmt.Sprintf(" duplicate function '%s' not allowed", k))
			}
			n[k] = v
		}
	}
	return n
}

// AllBuiltinFunctions returns every native in the prelude. Output
// functions write to out.
func AllBuiltinFunctions(out io.Writer) map[string]NativeFunction {
	return MergeFuncMap(
		SpecialForms(),
		CoreFunctions(),
		ListFunctions(),
		StrFunctions(out),
		EncodingFunctions(out),
	)
}

// SpecialForms are the natives that control evaluation of their
// arguments.
func SpecialForms() map[string]NativeFunction {
	return map[string]NativeFunction{
		"if":     IfFunction,
		"def":    DefFunction,
		"set!":   SetFunction,
		"lambda": LambdaFunction,
		"defun":  DefunFunction,
		"do":     DoFunction,
		"quote":  QuoteFunction,
		"and":    AndOrFunction("and"),
		"or":     AndOrFunction("or"),
		"eval":   EvalFunction,
		"read":   ReadFunction,
		"apply":  ApplyFunction,
	}
}

func CoreFunctions() map[string]NativeFunction {
	return map[string]NativeFunction{
		"+":   NumericFunction("+"),
		"-":   NumericFunction("-"),
		"*":   NumericFunction("*"),
		"/":   NumericFunction("/"),
		"%":   NumericFunction("%"),
		"=":   CompareFunction("="),
		"!=":  CompareFunction("!="),
		"<":   CompareFunction("<"),
		">":   CompareFunction(">"),
		"<=":  CompareFunction("<="),
		">=":  CompareFunction(">="),
		"not": NotFunction,
	}
}

func StrFunctions(out io.Writer) map[string]NativeFunction {
	return map[string]NativeFunction{
		"str":     StrFunction,
		"type":    TypeFunction,
		"print":   PrintFunction(out),
		"println": PrintFunction(out),
	}
}

func EncodingFunctions(out io.Writer) map[string]NativeFunction {
	return map[string]NativeFunction{
		"json":      JsonFunction,
		"unjson":    JsonFunction,
		"msgpack":   JsonFunction,
		"unmsgpack": JsonFunction,
		"hash":      HashFunction,
		"dump":      GoonDumpFunction(out),
	}
}

// NewRootScope builds a fresh global frame holding the prelude.
func NewRootScope(out io.Writer) *Scope {
	root := NewScope("global")
	for name, fn := range AllBuiltinFunctions(out) {
		root.Set(name, MakeNative(name, fn))
	}
	root.Set("*version*", SexpStr(Version()))
	return root
}
