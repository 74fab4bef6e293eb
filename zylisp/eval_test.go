package zylisp

import (
	"bytes"
	"errors"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func newTestSession() (*Zylisp, *bytes.Buffer) {
	var out bytes.Buffer
	z := NewZylisp(nil)
	z.SetOutput(&out)
	return z, &out
}

func evalTo(z *Zylisp, src string) string {
	res, err := z.EvalString(src)
	panicOn(err)
	return res.SexpString()
}

func Test030IfEvaluatesOnlyTheTakenBranch(t *testing.T) {

	cv.Convey(`Given a probe native that counts its calls, if should never evaluate the branch it does not take`, t, func() {
		z, _ := newTestSession()
		calls := 0
		z.AddFunction("probe", func(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
			calls++
			return SexpNumber(99), nil
		})

		cv.So(evalTo(z, `(if #t 1 (probe))`), cv.ShouldEqual, "1")
		cv.So(calls, cv.ShouldEqual, 0)
		cv.So(evalTo(z, `(if #f (probe) 2)`), cv.ShouldEqual, "2")
		cv.So(calls, cv.ShouldEqual, 0)
		cv.So(evalTo(z, `(if #f (probe))`), cv.ShouldEqual, "()")
		cv.So(calls, cv.ShouldEqual, 0)
		cv.So(evalTo(z, `(if #t (probe) 2)`), cv.ShouldEqual, "99")
		cv.So(calls, cv.ShouldEqual, 1)
	})

	cv.Convey(`A condition that is not a boolean should be a type mismatch naming the value`, t, func() {
		z, _ := newTestSession()
		_, err := z.EvalString(`(if 0 1 2)`)
		cv.So(errors.Is(err, ErrTypeMismatch), cv.ShouldBeTrue)
		cv.So(err.Error(), cv.ShouldContainSubstring, "got number 0")
	})
}

func Test031DefRefusesRedefinitionSetOverwrites(t *testing.T) {

	cv.Convey(`Given x defined once, def again should fail while set! should overwrite`, t, func() {
		z, _ := newTestSession()
		cv.So(evalTo(z, `(def x 1)`), cv.ShouldEqual, "1")

		_, err := z.EvalString(`(def x 2)`)
		cv.So(errors.Is(err, ErrRedefinition), cv.ShouldBeTrue)
		var ee *EvalError
		cv.So(errors.As(err, &ee), cv.ShouldBeTrue)
		cv.So(ee.Loc, cv.ShouldResemble, Loc{Line: 1, Column: 6})
		cv.So(evalTo(z, `x`), cv.ShouldEqual, "1")

		cv.So(evalTo(z, `(set! x 5)`), cv.ShouldEqual, "5")
		cv.So(evalTo(z, `x`), cv.ShouldEqual, "5")

		_, err = z.EvalString(`(set! "x" 5)`)
		cv.So(errors.Is(err, ErrTypeMismatch), cv.ShouldBeTrue)
	})
}

func Test032ClosuresApplyAndCapture(t *testing.T) {

	cv.Convey(`((lambda (a b) (+ a b)) 3 4) should be 7`, t, func() {
		z, _ := newTestSession()
		cv.So(evalTo(z, `((lambda (a b) (+ a b)) 3 4)`), cv.ShouldEqual, "7")
	})

	cv.Convey(`A closure made by make-adder should remember n after make-adder returns`, t, func() {
		z, _ := newTestSession()
		res := evalTo(z, `
(defun make-adder (n) (lambda (x) (+ x n)))
(def add5 (make-adder 5))
(add5 10)`)
		cv.So(res, cv.ShouldEqual, "15")
	})

	cv.Convey(`Closures share their defining frame, so later writes there are visible`, t, func() {
		z, _ := newTestSession()
		cv.So(evalTo(z, `(def k 1) (defun getk () k) (set! k 2) (getk)`), cv.ShouldEqual, "2")
	})

	cv.Convey(`Parameters should be bound in a fresh frame that does not leak into the caller`, t, func() {
		z, _ := newTestSession()
		cv.So(evalTo(z, `(defun f (a) a) (f 1)`), cv.ShouldEqual, "1")
		_, err := z.EvalString(`a`)
		cv.So(errors.Is(err, ErrUndefinedVariable), cv.ShouldBeTrue)
	})

	cv.Convey(`Arguments should be evaluated in the caller's scope, the body in the closure's`, t, func() {
		z, _ := newTestSession()
		res := evalTo(z, `
(def n 100)
(defun make-adder (n) (lambda (x) (+ x n)))
(def add1 (make-adder 1))
(defun g (n) (add1 n))
(g 10)`)
		cv.So(res, cv.ShouldEqual, "11")
	})

	cv.Convey(`Recursive defuns should see themselves`, t, func() {
		z, _ := newTestSession()
		res := evalTo(z, `
(defun fact (n) (if (<= n 1) 1 (* n (fact (- n 1)))))
(fact 5)`)
		cv.So(res, cv.ShouldEqual, "120")
	})
}

func Test033EvaluationErrors(t *testing.T) {

	cv.Convey(`An undefined atom should fail at its own location`, t, func() {
		z, _ := newTestSession()
		_, err := z.EvalString("1\n  zork")
		cv.So(errors.Is(err, ErrUndefinedVariable), cv.ShouldBeTrue)
		var ee *EvalError
		cv.So(errors.As(err, &ee), cv.ShouldBeTrue)
		cv.So(ee.Loc, cv.ShouldResemble, Loc{Line: 2, Column: 3})
		cv.So(err.Error(), cv.ShouldEqual, "eval error at line 2, column 3: undefined variable: zork")
	})

	cv.Convey(`Applying something that is not callable should be an illegal call naming the value`, t, func() {
		z, _ := newTestSession()
		_, err := z.EvalString(`(1 2)`)
		cv.So(errors.Is(err, ErrIllegalCall), cv.ShouldBeTrue)
		cv.So(err.Error(), cv.ShouldContainSubstring, "number 1 is not callable")
	})

	cv.Convey(`A closure called with the wrong number of arguments should fail`, t, func() {
		z, _ := newTestSession()
		_, err := z.EvalString(`((lambda (a) a))`)
		cv.So(errors.Is(err, ErrWrongNargs), cv.ShouldBeTrue)
		_, err = z.EvalString(`((lambda (a) a) 1 2)`)
		cv.So(errors.Is(err, WrongNargs), cv.ShouldBeTrue)
	})

	cv.Convey(`Arithmetic on a string should name the operator and the value, located at the call`, t, func() {
		z, _ := newTestSession()
		_, err := z.EvalString(`(+ 1 "a")`)
		cv.So(errors.Is(err, ErrTypeMismatch), cv.ShouldBeTrue)
		cv.So(err.Error(), cv.ShouldEqual, `eval error at line 1, column 1: type mismatch: + expected number, got string "a"`)
	})

	cv.Convey(`Unbounded recursion should stop at MaxDepth instead of exhausting the Go stack`, t, func() {
		z, _ := newTestSession()
		z.Evaluator().MaxDepth = 100
		_, err := z.EvalString(`(defun spin (n) (spin n)) (spin 1)`)
		cv.So(errors.Is(err, ErrDepthExceeded), cv.ShouldBeTrue)
		cv.So(z.Evaluator().Depth(), cv.ShouldEqual, 0)
	})
}

func Test034QuoteDoAndUnit(t *testing.T) {

	cv.Convey(`Quoted forms should come back unevaluated, do should keep the last value, and empty things are unit`, t, func() {
		z, _ := newTestSession()

		res, err := z.EvalString(`'(a b)`)
		panicOn(err)
		list, isList := res.(*SexpList)
		cv.So(isList, cv.ShouldBeTrue)
		cv.So(len(list.Items), cv.ShouldEqual, 2)
		cv.So(res.SexpString(), cv.ShouldEqual, "(a b)")

		cv.So(evalTo(z, `(quote (1 2))`), cv.ShouldEqual, "(1 2)")
		cv.So(evalTo(z, `'zork`), cv.ShouldEqual, "zork")
		cv.So(evalTo(z, `(do 1 2 3)`), cv.ShouldEqual, "3")
		cv.So(evalTo(z, `(do)`), cv.ShouldEqual, "()")
		cv.So(evalTo(z, `()`), cv.ShouldEqual, "()")
		cv.So(evalTo(z, ``), cv.ShouldEqual, "()")
		cv.So(evalTo(z, `; only a comment`), cv.ShouldEqual, "()")
	})

	cv.Convey(`A doubled quote should give the list (quote x), which evaluates back to the atom`, t, func() {
		z, _ := newTestSession()
		cv.So(evalTo(z, `''x`), cv.ShouldEqual, "(quote x)")
		cv.So(evalTo(z, `(type ''x)`), cv.ShouldEqual, `"list"`)
		cv.So(evalTo(z, `(eval ''x)`), cv.ShouldEqual, "x")
		cv.So(evalTo(z, `(type (eval ''x))`), cv.ShouldEqual, `"atom"`)
		cv.So(evalTo(z, `(= (eval ''x) 'x)`), cv.ShouldEqual, "#t")
		cv.So(evalTo(z, `'''x`), cv.ShouldEqual, "(quote (quote x))")
	})

	cv.Convey(`Literals and callables should evaluate to themselves`, t, func() {
		z, _ := newTestSession()
		cv.So(evalTo(z, `"s"`), cv.ShouldEqual, `"s"`)
		cv.So(evalTo(z, `#f`), cv.ShouldEqual, "#f")
		cv.So(evalTo(z, `2.5`), cv.ShouldEqual, "2.5")
		cv.So(evalTo(z, `car`), cv.ShouldEqual, "fn [car]")
		cv.So(evalTo(z, `(lambda (x) x)`), cv.ShouldEqual, "(lambda (x) x)")
		cv.So(evalTo(z, `(defun id (x) x)`), cv.ShouldEqual, "(defun id (x) x)")
	})
}

func Test035TraceLogsApplications(t *testing.T) {

	cv.Convey(`With Trace set, each application should be logged through the package logger`, t, func() {
		var logged bytes.Buffer
		prev := OurStdout
		OurStdout = &logged
		defer func() { OurStdout = prev }()

		z, _ := newTestSession()
		z.Evaluator().Trace = true
		cv.So(evalTo(z, `(+ 1 (* 2 3))`), cv.ShouldEqual, "7")
		cv.So(logged.String(), cv.ShouldContainSubstring, "(+ 1 (* 2 3))")
		cv.So(logged.String(), cv.ShouldContainSubstring, "(* 2 3)")
	})
}

func Test036CallCountHooks(t *testing.T) {

	cv.Convey(`CountCalls should tally natives and closures by name`, t, func() {
		z, _ := newTestSession()
		z.CountCalls()
		evalTo(z, `(defun sq (x) (* x x)) (+ (sq 2) (sq 3))`)
		pre, post := z.CallCounts()
		cv.So(pre["sq"], cv.ShouldEqual, 2)
		cv.So(pre["*"], cv.ShouldEqual, 2)
		cv.So(pre["+"], cv.ShouldEqual, 1)
		cv.So(post["defun"], cv.ShouldEqual, 1)

		var out bytes.Buffer
		z.ShowCallCounts(&out)
		cv.So(out.String(), cv.ShouldContainSubstring, "\tsq: 2\n")
	})
}
