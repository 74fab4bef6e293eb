package zylisp

import (
	"encoding/binary"
	"fmt"

	"github.com/glycerine/blake2b"
)

// Blake2bUint64 returns an 8 byte BLAKE2b hash of the input, as a uint64.
func Blake2bUint64(raw []byte) uint64 {
	cfg := &blake2b.Config{Size: 8}
	h, err := blake2b.New(cfg)
	panicOn(err)
	h.Write(raw)
	by := h.Sum(nil)
	return binary.LittleEndian.Uint64(by[:8])
}

// HashValue is the hex form of the BLAKE2b hash of the value's type and
// source rendering. Values that are Equal hash alike.
func HashValue(v Value) string {
	return fmt.Sprintf("%016x", hashKey(v))
}

func hashKey(v Value) uint64 {
	return Blake2bUint64([]byte(TypeName(v) + ":" + v.SexpString()))
}

func HashFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return SexpUnit, wrongNargs(name, "1 argument", len(args))
	}
	v, err := ev.Eval(args[0], env)
	if err != nil {
		return SexpUnit, err
	}
	return SexpStr(HashValue(v)), nil
}

func panicOn(err error) {
	if err != nil {
		panic(err)
	}
}
