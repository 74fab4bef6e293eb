package zylisp

import (
	"errors"
	"strings"
)

const DefaultMaxDepth = 10000

type PreHook func(ev *Evaluator, name string, args []Value)
type PostHook func(ev *Evaluator, name string, result Value)

// Evaluator reduces Values against a Scope by plain recursion. It is not
// safe for concurrent use.
type Evaluator struct {
	// Trace logs every application through TSPrintf.
	Trace bool

	// MaxDepth bounds nested applications; zero means unbounded.
	MaxDepth int

	depth  int
	before []PreHook
	after  []PostHook
}

func NewEvaluator() *Evaluator {
	return &Evaluator{MaxDepth: DefaultMaxDepth}
}

func (ev *Evaluator) AddPreHook(fun PreHook) {
	ev.before = append(ev.before, fun)
}

func (ev *Evaluator) AddPostHook(fun PostHook) {
	ev.after = append(ev.after, fun)
}

// Depth is the number of applications currently in progress.
func (ev *Evaluator) Depth() int {
	return ev.depth
}

// Eval reduces v to a final value in env.
func (ev *Evaluator) Eval(v Value, env *Scope) (Value, error) {
	switch x := v.(type) {
	case SexpNumber, SexpStr, SexpBool, SexpSentinel, *SexpNative, *SexpClosure:
		return v, nil
	case *SexpAtom:
		val, found := env.Get(x.Name)
		if !found {
			return SexpUnit, evalErrorf(x.Loc, ErrUndefinedVariable, "%s", x.Name)
		}
		return val, nil
	case *SexpQuote:
		return x.Val, nil
	case *SexpDo:
		return ev.EvalSequence(x.Body, env)
	case *SexpList:
		return ev.evalList(x, env)
	}
	return SexpUnit, evalErrorf(LocOf(v), ErrTypeMismatch, "cannot evaluate %T", v)
}

// EvalSequence evaluates each form in order and returns the last result,
// or unit for an empty sequence.
func (ev *Evaluator) EvalSequence(body []Value, env *Scope) (Value, error) {
	var res Value = SexpUnit
	var err error
	for _, form := range body {
		res, err = ev.Eval(form, env)
		if err != nil {
			return SexpUnit, err
		}
	}
	return res, nil
}

// EvalNode converts a parsed tree and evaluates it.
func (ev *Evaluator) EvalNode(n *Node, env *Scope) (Value, error) {
	return ev.Eval(ToValue(n), env)
}

// EvalArgs evaluates every element of args, left to right, in env.
func (ev *Evaluator) EvalArgs(args []Value, env *Scope) ([]Value, error) {
	vals := make([]Value, len(args))
	for i, a := range args {
		v, err := ev.Eval(a, env)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (ev *Evaluator) evalList(list *SexpList, env *Scope) (Value, error) {
	if len(list.Items) == 0 {
		return SexpUnit, nil
	}

	ev.depth++
	defer func() { ev.depth-- }()
	if ev.MaxDepth > 0 && ev.depth > ev.MaxDepth {
		return SexpUnit, evalErrorf(list.Loc, ErrDepthExceeded, "more than %d nested calls", ev.MaxDepth)
	}

	head, err := ev.Eval(list.Items[0], env)
	if err != nil {
		return SexpUnit, err
	}
	res, err := ev.apply(head, list.Items[1:], env, list.Loc, true)
	if err != nil {
		return SexpUnit, locate(err, list.Loc)
	}
	return res, nil
}

// Apply calls fn with arguments that have already been evaluated.
// Natives receive them quoted so that evaluating an argument again
// yields the same value.
func (ev *Evaluator) Apply(fn Value, vals []Value, env *Scope) (Value, error) {
	return ev.apply(fn, vals, env, Loc{}, false)
}

func (ev *Evaluator) apply(fn Value, args []Value, env *Scope, loc Loc, raw bool) (Value, error) {
	switch f := fn.(type) {
	case *SexpNative:
		if !raw {
			quoted := make([]Value, len(args))
			for i, a := range args {
				quoted[i] = &SexpQuote{Val: a, applied: true}
			}
			args = quoted
		}
		ev.tracef(f.Name, args)
		for _, pre := range ev.before {
			pre(ev, f.Name, args)
		}
		res, err := f.Fn(ev, env, f.Name, args)
		if err != nil {
			return SexpUnit, err
		}
		for _, post := range ev.after {
			post(ev, f.Name, res)
		}
		return res, nil

	case *SexpClosure:
		vals := args
		if raw {
			var err error
			vals, err = ev.EvalArgs(args, env)
			if err != nil {
				return SexpUnit, err
			}
		}
		ev.tracef(f.Name, vals)
		for _, pre := range ev.before {
			pre(ev, f.Name, vals)
		}
		res, err := ev.CallClosure(f, vals)
		if err != nil {
			return SexpUnit, err
		}
		for _, post := range ev.after {
			post(ev, f.Name, res)
		}
		return res, nil
	}
	return SexpUnit, evalErrorf(loc, ErrIllegalCall, "%s %s is not callable", TypeName(fn), fn.SexpString())
}

// CallClosure binds vals to c's parameters in a fresh frame pushed on
// the closure's defining scope, not the caller's, and runs the body.
func (ev *Evaluator) CallClosure(c *SexpClosure, vals []Value) (Value, error) {
	name := c.Name
	if name == "" {
		name = "lambda"
	}
	if len(vals) != len(c.Params) {
		return SexpUnit, wrongNargs(name, plural(len(c.Params), "argument"), len(vals))
	}
	frame := c.Env.Push(name)
	for i, p := range c.Params {
		frame.Set(p, vals[i])
	}
	return ev.Eval(c.Body, frame)
}

func (ev *Evaluator) tracef(name string, args []Value) {
	if !ev.Trace {
		return
	}
	TSPrintf("%s(%s %s)", strings.Repeat("  ", ev.depth), name, joinValues(args, Value.SexpString))
}

// locate fills in the call site for errors raised without a location.
func locate(err error, loc Loc) error {
	var ee *EvalError
	if errors.As(err, &ee) && ee.Loc.IsZero() && !loc.IsZero() {
		cp := *ee
		cp.Loc = loc
		return &cp
	}
	return err
}

// appliedArg strips the quote that Apply put around an evaluated
// argument. Natives that read their arguments as code use it.
func appliedArg(v Value) Value {
	if q, ok := v.(*SexpQuote); ok && q.applied {
		return q.Val
	}
	return v
}

func appliedArgs(args []Value) []Value {
	out := make([]Value, len(args))
	for i, a := range args {
		out[i] = appliedArg(a)
	}
	return out
}
