package zylisp

import (
	"fmt"
	"os"
	"strings"

	"github.com/tinylib/msgp/msgp"
)

type OpCode uint8

const (
	// OpConst pushes Constants[Arg].
	OpConst OpCode = iota
	// OpCall applies the value on top of the stack to the Arg values
	// beneath it.
	OpCall
)

func (op OpCode) String() string {
	switch op {
	case OpConst:
		return "CONST"
	case OpCall:
		return "CALL"
	}
	return fmt.Sprintf("OP(%d)", uint8(op))
}

type Instruction struct {
	Op  OpCode
	Arg int
}

func (i Instruction) String() string {
	return fmt.Sprintf("%s %d", i.Op, i.Arg)
}

// Script is the output of the Translator. Nothing in this package
// executes it.
type Script struct {
	Constants []Value
	Code      []Instruction
}

var (
	_ msgp.Marshaler   = (*Script)(nil)
	_ msgp.Unmarshaler = (*Script)(nil)
)

// Disassemble lists the constant pool and then the code, one
// instruction per line.
func (z *Script) Disassemble() string {
	var b strings.Builder
	b.WriteString("constants:\n")
	for i, c := range z.Constants {
		fmt.Fprintf(&b, "  %4d: %s %s\n", i, TypeName(c), c.SexpString())
	}
	b.WriteString("code:\n")
	for pc, ins := range z.Code {
		fmt.Fprintf(&b, "  %04d  %-6s %d", pc, ins.Op, ins.Arg)
		if ins.Op == OpConst && ins.Arg >= 0 && ins.Arg < len(z.Constants) {
			fmt.Fprintf(&b, "\t; %s", z.Constants[ins.Arg].SexpString())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// MarshalMsg implements msgp.Marshaler. The encoding is a three entry
// map; the last entry, "sum", is the BLAKE2b hash of the bytes of the
// first two.
func (z *Script) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.AppendMapHeader(b, 3)
	start := len(o)

	o = msgp.AppendString(o, "constants")
	o = msgp.AppendArrayHeader(o, uint32(len(z.Constants)))
	for _, c := range z.Constants {
		o = msgp.AppendArrayHeader(o, 2)
		switch x := c.(type) {
		case SexpNumber:
			o = msgp.AppendString(o, "number")
			o = msgp.AppendFloat64(o, float64(x))
		case SexpStr:
			o = msgp.AppendString(o, "string")
			o = msgp.AppendString(o, string(x))
		case SexpBool:
			o = msgp.AppendString(o, "boolean")
			o = msgp.AppendBool(o, bool(x))
		case *SexpAtom:
			o = msgp.AppendString(o, "atom")
			o = msgp.AppendString(o, x.Name)
		default:
			return b, evalErrorf(Loc{}, ErrNotSerializable, "constant %s %s", TypeName(c), c.SexpString())
		}
	}

	o = msgp.AppendString(o, "code")
	o = msgp.AppendArrayHeader(o, uint32(len(z.Code)))
	for _, ins := range z.Code {
		o = msgp.AppendArrayHeader(o, 2)
		o = msgp.AppendUint8(o, uint8(ins.Op))
		o = msgp.AppendInt(o, ins.Arg)
	}

	sum := Blake2bUint64(o[start:])
	o = msgp.AppendString(o, "sum")
	o = msgp.AppendUint64(o, sum)
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler.
func (z *Script) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	var nfields uint32
	nfields, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return
	}
	z.Constants = nil
	z.Code = nil

	start := bts
	summed := false
	for nfields > 0 {
		nfields--
		covered := start[:len(start)-len(bts)]
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return
		}
		switch msgp.UnsafeString(field) {
		case "constants":
			var n uint32
			n, bts, err = msgp.ReadArrayHeaderBytes(bts)
			if err != nil {
				return
			}
			z.Constants = make([]Value, 0, n)
			for ; n > 0; n-- {
				var c Value
				c, bts, err = readConstant(bts)
				if err != nil {
					return
				}
				z.Constants = append(z.Constants, c)
			}
		case "code":
			var n uint32
			n, bts, err = msgp.ReadArrayHeaderBytes(bts)
			if err != nil {
				return
			}
			z.Code = make([]Instruction, 0, n)
			for ; n > 0; n-- {
				var ins Instruction
				ins, bts, err = readInstruction(bts)
				if err != nil {
					return
				}
				z.Code = append(z.Code, ins)
			}
		case "sum":
			var sum uint64
			sum, bts, err = msgp.ReadUint64Bytes(bts)
			if err != nil {
				return
			}
			if sum != Blake2bUint64(covered) {
				err = &ParseError{Err: ErrBadScript, Detail: "checksum mismatch"}
				return
			}
			summed = true
		default:
			bts, err = msgp.Skip(bts)
			if err != nil {
				return
			}
		}
	}
	if !summed {
		err = &ParseError{Err: ErrBadScript, Detail: "missing checksum"}
		return
	}
	o = bts
	return
}

func readConstant(bts []byte) (v Value, o []byte, err error) {
	var sz uint32
	sz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	if sz != 2 {
		err = &ParseError{Err: ErrBadScript, Detail: fmt.Sprintf("constant has %d fields", sz)}
		return
	}
	var tag string
	tag, bts, err = msgp.ReadStringBytes(bts)
	if err != nil {
		return
	}
	switch tag {
	case "number":
		var f float64
		f, bts, err = msgp.ReadFloat64Bytes(bts)
		v = SexpNumber(f)
	case "string":
		var s string
		s, bts, err = msgp.ReadStringBytes(bts)
		v = SexpStr(s)
	case "boolean":
		var b bool
		b, bts, err = msgp.ReadBoolBytes(bts)
		v = SexpBool(b)
	case "atom":
		var s string
		s, bts, err = msgp.ReadStringBytes(bts)
		v = &SexpAtom{Name: s}
	default:
		err = &ParseError{Err: ErrBadScript, Detail: "unknown constant type " + tag}
	}
	o = bts
	return
}

func readInstruction(bts []byte) (ins Instruction, o []byte, err error) {
	var sz uint32
	sz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	if sz != 2 {
		err = &ParseError{Err: ErrBadScript, Detail: fmt.Sprintf("instruction has %d fields", sz)}
		return
	}
	var op uint8
	op, bts, err = msgp.ReadUint8Bytes(bts)
	if err != nil {
		return
	}
	ins.Op = OpCode(op)
	ins.Arg, bts, err = msgp.ReadIntBytes(bts)
	o = bts
	return
}

// WriteScriptFile saves z in its msgpack encoding.
func (z *Script) WriteScriptFile(path string) error {
	by, err := z.MarshalMsg(nil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, by, 0644)
}

func ReadScriptFile(path string) (*Script, error) {
	by, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	z := &Script{}
	_, err = z.UnmarshalMsg(by)
	if err != nil {
		return nil, fmt.Errorf("reading script '%s': %w", path, err)
	}
	return z, nil
}
