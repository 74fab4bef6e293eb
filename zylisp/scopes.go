package zylisp

import (
	"fmt"
	"sort"
	"strings"
)

// Scopes map names to values. Each scope is one frame of a cactus stack:
// it owns its Map and points at, but does not own, its Parent. A closure
// holding a scope keeps the whole chain above it alive.
type Scope struct {
	Map    map[string]Value
	Parent *Scope
	Name   string
}

func NewScope(name string) *Scope {
	return &Scope{
		Map:  make(map[string]Value),
		Name: name,
	}
}

// Set binds name in this, the innermost, frame. Outer frames are never
// written.
func (s *Scope) Set(name string, v Value) {
	s.Map[name] = v
}

// Get walks innermost to outermost and returns the first binding.
func (s *Scope) Get(name string) (Value, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if v, ok := scope.Map[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupLocal consults only this frame.
func (s *Scope) LookupLocal(name string) (Value, bool) {
	v, ok := s.Map[name]
	return v, ok
}

// Push returns a new empty frame whose parent is s.
func (s *Scope) Push(name string) *Scope {
	child := NewScope(name)
	child.Parent = s
	return child
}

// Pop discards this frame and returns its parent, or nil at the root.
func (s *Scope) Pop() *Scope {
	return s.Parent
}

// Depth counts frames from s out to the root, inclusive.
func (s *Scope) Depth() int {
	n := 0
	for scope := s; scope != nil; scope = scope.Parent {
		n++
	}
	return n
}

func (s *Scope) Root() *Scope {
	scope := s
	for scope.Parent != nil {
		scope = scope.Parent
	}
	return scope
}

// Names returns the names bound in this frame, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.Map))
	for k := range s.Map {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type SymtabE struct {
	Key string
	Val string
}

type SymtabSorter []*SymtabE

func (a SymtabSorter) Len() int           { return len(a) }
func (a SymtabSorter) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a SymtabSorter) Less(i, j int) bool { return a[i].Key < a[j].Key }

// Show lists the bindings of every frame from s outwards. Native
// functions in the root frame are summarized unless showNatives is set.
func (s *Scope) Show(label string, showNatives bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", label)
	indent := 1
	for scope := s; scope != nil; scope = scope.Parent {
		rep := strings.Repeat(" ", indent*4)
		name := scope.Name
		if name == "" {
			name = "(anonymous)"
		}
		fmt.Fprintf(&b, "%sscope %s\n", rep, name)

		sortme := []*SymtabE{}
		natives := 0
		for k, v := range scope.Map {
			if _, isNative := v.(*SexpNative); isNative && !showNatives {
				natives++
				continue
			}
			sortme = append(sortme, &SymtabE{Key: k, Val: v.SexpString()})
		}
		sort.Sort(SymtabSorter(sortme))
		if len(sortme) == 0 && natives == 0 {
			fmt.Fprintf(&b, "%s    empty-scope: no symbols\n", rep)
		}
		for i := range sortme {
			fmt.Fprintf(&b, "%s    %s -> %s\n", rep, sortme[i].Key, sortme[i].Val)
		}
		if natives > 0 {
			fmt.Fprintf(&b, "%s    (%d native functions omitted for brevity)\n", rep, natives)
		}
		indent++
	}
	return b.String()
}
