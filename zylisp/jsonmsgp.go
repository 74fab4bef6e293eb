package zylisp

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"reflect"

	"github.com/shurcooL/go-goon"
	"github.com/ugorji/go/codec"
)

/*
 Conversion map

 Go interface{}  <--(1)--> zylisp Value
       ^
       |
      (2)
       |
       V
 json / msgpack

(1) ValueToGo() and GoToValue() herein.
(2) provided by ugorji/go/codec through msgpHelper.

 Numbers, strings, booleans and unit map onto float64, string, bool and
 nil. Lists map onto []interface{}. An atom becomes the one-key map
 {"atom": name}. Callables and sequences have no data form.
*/

const atomKey = "atom"

func JsonFunction(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return SexpUnit, wrongNargs(name, "1 argument", len(args))
	}
	v, err := ev.Eval(args[0], env)
	if err != nil {
		return SexpUnit, err
	}

	switch name {
	case "json":
		by, err := ValueToJson(v)
		if err != nil {
			return SexpUnit, err
		}
		return SexpStr(by), nil
	case "unjson":
		s, isStr := v.(SexpStr)
		if !isStr {
			return SexpUnit, typeMismatch(name, "string", v)
		}
		return JsonToValue([]byte(s))
	case "msgpack":
		by, err := ValueToMsgpack(v)
		if err != nil {
			return SexpUnit, err
		}
		return SexpStr(hex.EncodeToString(by)), nil
	case "unmsgpack":
		s, isStr := v.(SexpStr)
		if !isStr {
			return SexpUnit, typeMismatch(name, "hex string", v)
		}
		by, err := hex.DecodeString(string(s))
		if err != nil {
			return SexpUnit, evalErrorf(Loc{}, ErrTypeMismatch, "%s: %v", name, err)
		}
		return MsgpackToValue(by)
	}
	return SexpUnit, fmt.Errorf("JsonFunction error: unrecognized function name: '%s'", name)
}

type msgpackHelper struct {
	initialized bool
	mh          codec.MsgpackHandle
	jh          codec.JsonHandle
}

func (m *msgpackHelper) init() {
	if m.initialized {
		return
	}

	m.mh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.mh.RawToString = true
	m.mh.WriteExt = true
	m.mh.SignedInteger = true
	m.mh.Canonical = true // sort maps before writing them

	m.jh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.jh.SignedInteger = true
	m.jh.Canonical = true

	m.initialized = true
}

var msgpHelper msgpackHelper

func init() {
	msgpHelper.init()
}

// ValueToGo converts to plain Go data that ugorji can encode.
func ValueToGo(v Value) (interface{}, error) {
	switch x := v.(type) {
	case SexpSentinel:
		return nil, nil
	case SexpNumber:
		return float64(x), nil
	case SexpStr:
		return string(x), nil
	case SexpBool:
		return bool(x), nil
	case *SexpAtom:
		return map[string]interface{}{atomKey: x.Name}, nil
	case *SexpQuote:
		return ValueToGo(x.Val)
	case *SexpList:
		out := make([]interface{}, len(x.Items))
		for i, item := range x.Items {
			g, err := ValueToGo(item)
			if err != nil {
				return nil, err
			}
			out[i] = g
		}
		return out, nil
	}
	return nil, evalErrorf(LocOf(v), ErrNotSerializable, "%s %s", TypeName(v), v.SexpString())
}

// GoToValue is the inverse of ValueToGo. Integer types decoders produce
// become numbers; maps other than the atom form are not representable.
func GoToValue(iface interface{}) (Value, error) {
	VPrintf("GoToValue: decoded type is %T", iface)
	switch val := iface.(type) {
	case nil:
		return SexpUnit, nil
	case float64:
		return SexpNumber(val), nil
	case float32:
		return SexpNumber(val), nil
	case int64:
		return SexpNumber(val), nil
	case uint64:
		return SexpNumber(val), nil
	case int:
		return SexpNumber(val), nil
	case string:
		return SexpStr(val), nil
	case []byte:
		return SexpStr(val), nil
	case bool:
		return SexpBool(val), nil
	case []interface{}:
		items := make([]Value, len(val))
		for i, e := range val {
			v, err := GoToValue(e)
			if err != nil {
				return SexpUnit, err
			}
			items[i] = v
		}
		return MakeList(items), nil
	case map[string]interface{}:
		if len(val) == 1 {
			if name, isStr := val[atomKey].(string); isStr {
				return &SexpAtom{Name: name}, nil
			}
		}
	}
	return SexpUnit, evalErrorf(Loc{}, ErrNotSerializable, "no value for Go type %T", iface)
}

// value -> go -> json
func ValueToJson(v Value) ([]byte, error) {
	iface, err := ValueToGo(v)
	if err != nil {
		return nil, err
	}
	return GoToJson(iface)
}

// json -> go -> value
func JsonToValue(json []byte) (Value, error) {
	iface, err := JsonToGo(json)
	if err != nil {
		return SexpUnit, err
	}
	return GoToValue(iface)
}

func ValueToMsgpack(v Value) ([]byte, error) {
	iface, err := ValueToGo(v)
	if err != nil {
		return nil, err
	}
	return GoToMsgpack(iface)
}

func MsgpackToValue(msgp []byte) (Value, error) {
	iface, err := MsgpackToGo(msgp)
	if err != nil {
		return SexpUnit, fmt.Errorf("MsgpackToValue failed at MsgpackToGo step: '%s'", err)
	}
	return GoToValue(iface)
}

// json -> go
func JsonToGo(json []byte) (interface{}, error) {
	var iface interface{}
	decoder := codec.NewDecoderBytes(json, &msgpHelper.jh)
	err := decoder.Decode(&iface)
	if err != nil {
		return nil, err
	}
	return iface, nil
}

// go -> json
func GoToJson(iface interface{}) ([]byte, error) {
	var w bytes.Buffer
	encoder := codec.NewEncoder(&w, &msgpHelper.jh)
	err := encoder.Encode(&iface)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func GoToMsgpack(iface interface{}) ([]byte, error) {
	var w bytes.Buffer
	enc := codec.NewEncoder(&w, &msgpHelper.mh)
	err := enc.Encode(&iface)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// msgpack -> go
func MsgpackToGo(msgp []byte) (interface{}, error) {
	var iface interface{}
	dec := codec.NewDecoderBytes(msgp, &msgpHelper.mh)
	err := dec.Decode(&iface)
	if err != nil {
		return nil, err
	}
	return iface, nil
}

// GoonDumpFunction prints the Go representation of its evaluated
// argument.
func GoonDumpFunction(out io.Writer) NativeFunction {
	return func(ev *Evaluator, env *Scope, name string, args []Value) (Value, error) {
		if len(args) != 1 {
			return SexpUnit, wrongNargs(name, "1 argument", len(args))
		}
		v, err := ev.Eval(args[0], env)
		if err != nil {
			return SexpUnit, err
		}
		if c, isClosure := v.(*SexpClosure); isClosure {
			// the captured scope chain refers back to c
			fmt.Fprint(out, goon.Sdump(c.Name, c.Params, c.Body))
			return SexpUnit, nil
		}
		fmt.Fprint(out, goon.Sdump(v))
		return SexpUnit, nil
	}
}
