package zylisp

import (
	"fmt"
)

// Translator flattens a syntax tree into a Script: literals and atoms
// become pushes from a deduplicated constant pool, and a list pushes its
// elements last to first before a call on the remaining count.
type Translator struct {
	script *Script
	index  map[uint64]int
}

func NewTranslator() *Translator {
	return &Translator{
		script: &Script{},
		index:  make(map[uint64]int),
	}
}

// Translate expects a top-level Progn. The Translator accumulates, so
// translating a second progn appends to the same Script.
func (t *Translator) Translate(progn *Node) (*Script, error) {
	if progn.Kind != NodeProgn {
		return nil, &ParseError{Loc: progn.Info.Loc, Err: ErrUntranslatable,
			Detail: fmt.Sprintf("expected a program, got %s", progn.Kind)}
	}
	for _, n := range progn.Items {
		if err := t.expr(n); err != nil {
			return nil, err
		}
	}
	return t.script, nil
}

func (t *Translator) expr(n *Node) error {
	if n.Info.Quoted() && n.Kind != NodeNumber && n.Kind != NodeString && n.Kind != NodeBool {
		return &ParseError{Loc: n.Info.Loc, Err: ErrUntranslatable,
			Detail: "quoted form " + n.SexpString()}
	}
	switch n.Kind {
	case NodeUnit:
		return nil
	case NodeNumber:
		t.constant(SexpNumber(n.Num))
	case NodeString:
		t.constant(SexpStr(n.Text))
	case NodeBool:
		t.constant(SexpBool(n.Bool))
	case NodeAtom:
		t.constant(&SexpAtom{Name: n.Text})
	case NodeList:
		if len(n.Items) == 0 {
			return nil
		}
		for i := len(n.Items) - 1; i >= 0; i-- {
			if err := t.expr(n.Items[i]); err != nil {
				return err
			}
		}
		t.emit(OpCall, len(n.Items)-1)
	default:
		return &ParseError{Loc: n.Info.Loc, Err: ErrUntranslatable,
			Detail: fmt.Sprintf("nested %s", n.Kind)}
	}
	return nil
}

// constant interns v by the BLAKE2b hash of its type and rendering.
func (t *Translator) constant(v Value) {
	key := hashKey(v)
	if idx, ok := t.index[key]; ok && Equal(t.script.Constants[idx], v) {
		t.emit(OpConst, idx)
		return
	}
	idx := len(t.script.Constants)
	t.script.Constants = append(t.script.Constants, v)
	if _, taken := t.index[key]; !taken {
		t.index[key] = idx
	}
	t.emit(OpConst, idx)
}

func (t *Translator) emit(op OpCode, arg int) {
	t.script.Code = append(t.script.Code, Instruction{Op: op, Arg: arg})
}

// TranslateString parses and translates src in one step.
func TranslateString(src string) (*Script, error) {
	progn, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return NewTranslator().Translate(progn)
}
