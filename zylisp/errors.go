package zylisp

import (
	"errors"
	"fmt"
)

// lexical errors
var (
	ErrBadToken           = errors.New("bad token")
	ErrUnexpectedChar     = errors.New("unexpected character")
	ErrUnterminatedString = errors.New("unterminated string")
)

// syntax errors
var (
	ErrUnbalanced      = errors.New("unbalanced delimiter")
	ErrMismatched      = errors.New("mismatched delimiter")
	ErrUnexpectedToken = errors.New("unexpected token")
)

// evaluation errors
var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrRedefinition      = errors.New("redefinition")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrIllegalCall       = errors.New("illegal call target")
	ErrWrongNargs        = errors.New("wrong number of arguments")
	ErrDepthExceeded     = errors.New("evaluation depth exceeded")
	ErrNotSerializable   = errors.New("value not serializable")
)

// translation errors
var (
	ErrUntranslatable = errors.New("cannot translate")
	ErrBadScript      = errors.New("corrupt script")
)

// WrongNargs is kept under its historical name for native function authors.
var WrongNargs = ErrWrongNargs

// Loc is a 1-based source position.
type Loc struct {
	Line   int
	Column int
}

func (l Loc) IsZero() bool {
	return l.Line == 0 && l.Column == 0
}

func (l Loc) String() string {
	return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
}

func locatedMessage(phase string, loc Loc, err error, detail string) string {
	s := phase + " error"
	if !loc.IsZero() {
		s += " at " + loc.String()
	}
	s += ": " + err.Error()
	if detail != "" {
		s += ": " + detail
	}
	return s
}

// LexError reports an unrecognized character or malformed token.
type LexError struct {
	Loc    Loc
	Err    error
	Detail string
}

func (e *LexError) Error() string { return locatedMessage("lexical", e.Loc, e.Err, e.Detail) }
func (e *LexError) Unwrap() error { return e.Err }

// ParseError reports unbalanced delimiters and tokens that cannot start
// or continue an expression. For unbalanced input Loc is the opener.
type ParseError struct {
	Loc    Loc
	Err    error
	Detail string
}

func (e *ParseError) Error() string { return locatedMessage("syntax", e.Loc, e.Err, e.Detail) }
func (e *ParseError) Unwrap() error { return e.Err }

// EvalError is returned by the evaluator and by native functions.
type EvalError struct {
	Loc    Loc
	Err    error
	Detail string
}

func (e *EvalError) Error() string { return locatedMessage("eval", e.Loc, e.Err, e.Detail) }
func (e *EvalError) Unwrap() error { return e.Err }

func evalErrorf(loc Loc, kind error, format string, args ...interface{}) *EvalError {
	return &EvalError{Loc: loc, Err: kind, Detail: fmt.Sprintf(format, args...)}
}

// typeMismatch names the offending value and the operation that rejected it.
func typeMismatch(op string, want string, got Value) *EvalError {
	return evalErrorf(LocOf(got), ErrTypeMismatch, "%s expected %s, got %s %s",
		op, want, TypeName(got), got.SexpString())
}

func wrongNargs(op string, want string, got int) *EvalError {
	return evalErrorf(Loc{}, ErrWrongNargs, "%s expected %s, got %d", op, want, got)
}
