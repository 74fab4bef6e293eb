package zylisp

import (
	"fmt"
	"strconv"
	"strings"
)

type NodeKind int

const (
	NodeUnit NodeKind = iota
	NodeAtom
	NodeString
	NodeNumber
	NodeBool
	NodeList
	NodeProgn
)

func (k NodeKind) String() string {
	switch k {
	case NodeUnit:
		return "Unit"
	case NodeAtom:
		return "Atom"
	case NodeString:
		return "String"
	case NodeNumber:
		return "Number"
	case NodeBool:
		return "Bool"
	case NodeList:
		return "List"
	case NodeProgn:
		return "Progn"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

const FlagQuoted uint8 = 1 << 0

// NodeInfo is the per-node bookkeeping: flags and source location.
type NodeInfo struct {
	Flags uint8
	Loc   Loc
}

func (i NodeInfo) Quoted() bool {
	return i.Flags&FlagQuoted != 0
}

// Node is one syntax tree element. Which payload field is meaningful
// depends on Kind: Text for atoms and strings, Num, Bool, or Items for
// lists and progns.
type Node struct {
	Kind  NodeKind
	Text  string
	Num   float64
	Bool  bool
	Items []*Node
	Info  NodeInfo

	// closer is set on the Unit node standing in for a ')' ']' or '}'.
	closer TokenType
	end    bool
}

// AtEnd reports whether the node marks the end of input.
func (n *Node) AtEnd() bool {
	return n.end
}

func (n *Node) isTerminator() bool {
	return n.Kind == NodeUnit && n.closer != TokenEnd
}

// String renders an indented tree dump, one node per line.
func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b, "")
	return b.String()
}

func (n *Node) dump(b *strings.Builder, indent string) {
	fmt.Fprintf(b, "%d:%d:%s ", n.Info.Loc.Line, n.Info.Loc.Column, indent)
	if n.Info.Quoted() {
		b.WriteString("'")
	}
	switch n.Kind {
	case NodeUnit:
		b.WriteString("U\n")
	case NodeAtom:
		fmt.Fprintf(b, "A: %s\n", n.Text)
	case NodeString:
		fmt.Fprintf(b, "S: %s\n", n.Text)
	case NodeNumber:
		fmt.Fprintf(b, "N: %s\n", formatNumber(n.Num))
	case NodeBool:
		fmt.Fprintf(b, "B: %v\n", n.Bool)
	case NodeList, NodeProgn:
		fmt.Fprintf(b, "%s:\n", n.Kind)
		for _, c := range n.Items {
			c.dump(b, indent+"  ")
		}
	}
}

// SexpString renders the node back into source form. Parsing the result
// yields a tree of the same shape.
func (n *Node) SexpString() string {
	s := ""
	if n.Info.Quoted() {
		s = "'"
	}
	switch n.Kind {
	case NodeUnit:
		return s + "()"
	case NodeAtom:
		return s + n.Text
	case NodeString:
		return s + `"` + n.Text + `"`
	case NodeNumber:
		return s + formatNumber(n.Num)
	case NodeBool:
		if n.Bool {
			return s + "#t"
		}
		return s + "#f"
	case NodeList:
		return s + "(" + joinNodes(n.Items) + ")"
	case NodeProgn:
		return joinNodes(n.Items)
	}
	return s
}

func joinNodes(nodes []*Node) string {
	parts := make([]string, len(nodes))
	for i, c := range nodes {
		parts[i] = c.SexpString()
	}
	return strings.Join(parts, " ")
}

// SameShape compares two trees ignoring locations.
func (n *Node) SameShape(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Info.Flags != o.Info.Flags {
		return false
	}
	switch n.Kind {
	case NodeAtom, NodeString:
		return n.Text == o.Text
	case NodeNumber:
		return n.Num == o.Num
	case NodeBool:
		return n.Bool == o.Bool
	case NodeList, NodeProgn:
		if len(n.Items) != len(o.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].SameShape(o.Items[i]) {
				return false
			}
		}
	}
	return true
}

// formatNumber never uses exponent notation, which the lexer does not read.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToValue converts a syntax tree into the runtime Value tree.
// A progn becomes an explicit do-sequence; quoted nodes are wrapped
// so the evaluator hands them back untouched.
func ToValue(n *Node) Value {
	var v Value
	switch n.Kind {
	case NodeUnit:
		v = SexpUnit
	case NodeAtom:
		v = &SexpAtom{Name: n.Text, Loc: n.Info.Loc}
	case NodeString:
		v = SexpStr(n.Text)
	case NodeNumber:
		v = SexpNumber(n.Num)
	case NodeBool:
		v = SexpBool(n.Bool)
	case NodeList:
		items := make([]Value, len(n.Items))
		for i, c := range n.Items {
			items[i] = ToValue(c)
		}
		v = &SexpList{Items: items, Loc: n.Info.Loc}
	case NodeProgn:
		body := make([]Value, len(n.Items))
		for i, c := range n.Items {
			body[i] = ToValue(c)
		}
		v = &SexpDo{Body: body}
	default:
		v = SexpUnit
	}
	if n.Info.Quoted() {
		return &SexpQuote{Val: v}
	}
	return v
}
