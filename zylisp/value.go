package zylisp

import (
	"strings"
)

// Value is the runtime representation shared by literals in the syntax
// tree and by evaluation results. The set of implementations is closed;
// the unexported method keeps it that way.
type Value interface {
	// SexpString renders the value in re-readable source form.
	SexpString() string
	// Display renders the value the way print shows it.
	Display() string
	isValue()
}

type SexpSentinel int

const (
	SexpUnit SexpSentinel = iota
)

func (sent SexpSentinel) SexpString() string { return "()" }
func (sent SexpSentinel) Display() string    { return "()" }
func (sent SexpSentinel) isValue()           {}

type SexpNumber float64

func (n SexpNumber) SexpString() string { return formatNumber(float64(n)) }
func (n SexpNumber) Display() string    { return n.SexpString() }
func (n SexpNumber) isValue()           {}

type SexpStr string

func (s SexpStr) SexpString() string { return `"` + string(s) + `"` }
func (s SexpStr) Display() string    { return string(s) }
func (s SexpStr) isValue()           {}

type SexpBool bool

func (b SexpBool) SexpString() string {
	if b {
		return "#t"
	}
	return "#f"
}
func (b SexpBool) Display() string { return b.SexpString() }
func (b SexpBool) isValue()        {}

// SexpAtom names a variable or operator. Loc is where it was read, or
// the zero Loc for atoms built at run time.
type SexpAtom struct {
	Name string
	Loc  Loc
}

func (a *SexpAtom) SexpString() string { return a.Name }
func (a *SexpAtom) Display() string    { return a.Name }
func (a *SexpAtom) isValue()           {}

// SexpList is an ordered list. Evaluated, it is a function application.
type SexpList struct {
	Items []Value
	Loc   Loc
}

func MakeList(items []Value) *SexpList {
	return &SexpList{Items: items}
}

func (l *SexpList) SexpString() string { return "(" + joinValues(l.Items, Value.SexpString) + ")" }
func (l *SexpList) Display() string    { return "(" + joinValues(l.Items, Value.Display) + ")" }
func (l *SexpList) isValue()           {}

// SexpDo is an explicit sequence: every member is evaluated in order and
// the last result is kept. Closure bodies and whole programs are SexpDo.
type SexpDo struct {
	Body []Value
}

func (d *SexpDo) SexpString() string {
	if len(d.Body) == 0 {
		return "(do)"
	}
	return "(do " + joinValues(d.Body, Value.SexpString) + ")"
}
func (d *SexpDo) Display() string { return d.SexpString() }
func (d *SexpDo) isValue()        {}

// NativeFunction is the signature of host-implemented callables. The
// arguments arrive unevaluated; ev is the evaluator to call back into
// for any argument the function wants the value of, in env.
type NativeFunction func(ev *Evaluator, env *Scope, name string, args []Value) (Value, error)

type SexpNative struct {
	Name string
	Fn   NativeFunction
}

func MakeNative(name string, fn NativeFunction) *SexpNative {
	return &SexpNative{Name: name, Fn: fn}
}

func (f *SexpNative) SexpString() string { return "fn [" + f.Name + "]" }
func (f *SexpNative) Display() string    { return f.SexpString() }
func (f *SexpNative) isValue()           {}

// SexpClosure is a user defined function. Env is the defining scope;
// it is shared, not copied, so later bindings there stay visible.
type SexpClosure struct {
	Name   string
	Params []string
	Body   *SexpDo
	Env    *Scope
}

func (c *SexpClosure) SexpString() string {
	head := "(lambda ("
	if c.Name != "" && c.Name != "lambda" {
		head = "(defun " + c.Name + " ("
	}
	s := head + strings.Join(c.Params, " ") + ")"
	for _, b := range c.Body.Body {
		s += " " + b.SexpString()
	}
	return s + ")"
}
func (c *SexpClosure) Display() string { return c.SexpString() }
func (c *SexpClosure) isValue()        {}

// SexpQuote holds a form that evaluates to itself, minus the quote.
type SexpQuote struct {
	Val Value

	// set when Apply quoted an already evaluated argument
	applied bool
}

func (q *SexpQuote) SexpString() string { return "'" + q.Val.SexpString() }
func (q *SexpQuote) Display() string    { return q.Val.Display() }
func (q *SexpQuote) isValue()           {}

func joinValues(vals []Value, render func(Value) string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = render(v)
	}
	return strings.Join(parts, " ")
}

// Equal is defined across matching literal variants only. Callables,
// lists, sequences, unit and quotes never compare equal, not even to
// themselves.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case SexpNumber:
		y, ok := b.(SexpNumber)
		return ok && x == y
	case SexpStr:
		y, ok := b.(SexpStr)
		return ok && x == y
	case *SexpAtom:
		y, ok := b.(*SexpAtom)
		return ok && x.Name == y.Name
	case SexpBool:
		y, ok := b.(SexpBool)
		return ok && x == y
	}
	return false
}

// TypeName is the user visible name of the value's variant.
func TypeName(v Value) string {
	switch v.(type) {
	case SexpSentinel:
		return "unit"
	case SexpNumber:
		return "number"
	case SexpStr:
		return "string"
	case *SexpAtom:
		return "atom"
	case SexpBool:
		return "boolean"
	case *SexpList:
		return "list"
	case *SexpDo:
		return "do"
	case *SexpNative:
		return "native-function"
	case *SexpClosure:
		return "closure"
	case *SexpQuote:
		return "quote"
	}
	return "unknown"
}

// LocOf returns the source location carried by atoms and lists.
func LocOf(v Value) Loc {
	switch x := v.(type) {
	case *SexpAtom:
		return x.Loc
	case *SexpList:
		return x.Loc
	case *SexpQuote:
		return LocOf(x.Val)
	}
	return Loc{}
}
