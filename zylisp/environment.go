package zylisp

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// Zylisp is one interpreter session: a root scope holding the prelude,
// the evaluator that runs against it, and the writer that print and
// friends send output to.
type Zylisp struct {
	root *Scope
	ev   *Evaluator
	out  *switchWriter

	countMut   sync.Mutex
	precounts  map[string]int
	postcounts map[string]int
}

// switchWriter lets SetOutput redirect natives that captured it.
type switchWriter struct {
	w io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// NewZylisp returns a fresh session. cfg may be nil for the defaults.
func NewZylisp(cfg *Config) *Zylisp {
	z := &Zylisp{
		ev:  NewEvaluator(),
		out: &switchWriter{w: os.Stdout},
	}
	z.root = NewRootScope(z.out)
	if cfg != nil {
		z.ev.Trace = cfg.Trace
		switch {
		case cfg.MaxDepth > 0:
			z.ev.MaxDepth = cfg.MaxDepth
		case cfg.MaxDepth < 0:
			z.ev.MaxDepth = 0
		}
		if cfg.CountFuncCalls {
			z.CountCalls()
		}
	}
	return z
}

func (z *Zylisp) Root() *Scope {
	return z.root
}

func (z *Zylisp) Evaluator() *Evaluator {
	return z.ev
}

// SetOutput redirects print, println and dump.
func (z *Zylisp) SetOutput(w io.Writer) {
	z.out.w = w
}

func (z *Zylisp) Output() io.Writer {
	return z.out.w
}

// EvalString parses src as a whole program and evaluates it in the root
// scope. Lexical, syntax and evaluation errors are returned as is.
func (z *Zylisp) EvalString(src string) (Value, error) {
	progn, err := Parse(src)
	if err != nil {
		return SexpUnit, err
	}
	return z.EvalNode(progn)
}

func (z *Zylisp) EvalNode(n *Node) (Value, error) {
	return z.ev.EvalNode(n, z.root)
}

func (z *Zylisp) LoadFile(path string) (Value, error) {
	by, err := os.ReadFile(path)
	if err != nil {
		return SexpUnit, err
	}
	return z.EvalString(string(by))
}

func (z *Zylisp) AddFunction(name string, fn NativeFunction) {
	z.root.Set(name, MakeNative(name, fn))
}

func (z *Zylisp) AddGlobal(name string, v Value) {
	z.root.Set(name, v)
}

func (z *Zylisp) FindObject(name string) (Value, bool) {
	return z.root.Get(name)
}

// Clear discards every global definition and reinstalls the prelude.
func (z *Zylisp) Clear() {
	z.root = NewRootScope(z.out)
}

// CountCalls installs hooks that tally applications by name.
func (z *Zylisp) CountCalls() {
	z.countMut.Lock()
	defer z.countMut.Unlock()
	if z.precounts != nil {
		return
	}
	z.precounts = make(map[string]int)
	z.postcounts = make(map[string]int)
	z.ev.AddPreHook(func(ev *Evaluator, name string, args []Value) {
		z.countMut.Lock()
		z.precounts[name]++
		z.countMut.Unlock()
	})
	z.ev.AddPostHook(func(ev *Evaluator, name string, result Value) {
		z.countMut.Lock()
		z.postcounts[name]++
		z.countMut.Unlock()
	})
}

// CallCounts returns copies of the tallies: calls started, and calls
// that returned without error.
func (z *Zylisp) CallCounts() (pre, post map[string]int) {
	z.countMut.Lock()
	defer z.countMut.Unlock()
	pre = make(map[string]int, len(z.precounts))
	post = make(map[string]int, len(z.postcounts))
	for k, v := range z.precounts {
		pre[k] = v
	}
	for k, v := range z.postcounts {
		post[k] = v
	}
	return
}

func (z *Zylisp) ShowCallCounts(w io.Writer) {
	pre, post := z.CallCounts()
	fmt.Fprintln(w, "Pre:")
	for _, name := range sortedKeys(pre) {
		fmt.Fprintf(w, "\t%s: %d\n", name, pre[name])
	}
	fmt.Fprintln(w, "Post:")
	for _, name := range sortedKeys(post) {
		fmt.Fprintf(w, "\t%s: %d\n", name, post[name])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DumpFunctionByName prints the source form of a global closure.
func (z *Zylisp) DumpFunctionByName(name string) error {
	obj, found := z.FindObject(name)
	if !found {
		return fmt.Errorf("%q not found", name)
	}
	switch obj.(type) {
	case *SexpClosure, *SexpNative:
		fmt.Fprintln(z.out, obj.SexpString())
		return nil
	}
	return fmt.Errorf("dump by name error: %s is a %s, not a function", name, TypeName(obj))
}
