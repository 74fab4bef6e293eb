package zylisp

import (
	"fmt"
)

// Parser builds syntax trees by recursive descent over a Lexer.
type Parser struct {
	lexer  *Lexer
	quoted bool
}

func NewParser(src string) *Parser {
	return &Parser{lexer: NewLexer(src)}
}

func (p *Parser) Linenum() int {
	return p.lexer.Linenum()
}

// Parse reads a complete program into a Progn node.
func Parse(src string) (*Node, error) {
	return NewParser(src).NextProgn()
}

// NextExpr consumes one expression. At end of input it returns a Unit
// node with AtEnd() true. A closing delimiter yields the terminator node
// that ParseList uses as its sentinel.
func (p *Parser) NextExpr() (*Node, error) {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}

	quoted := p.quoted
	p.quoted = false
	info := NodeInfo{Loc: tok.Loc}
	if quoted {
		info.Flags |= FlagQuoted
	}

	switch tok.typ {
	case TokenEnd:
		if quoted {
			return nil, &ParseError{Loc: tok.Loc, Err: ErrUnexpectedToken, Detail: "quote at end of input"}
		}
		return &Node{Kind: NodeUnit, Info: info, end: true}, nil
	case TokenQuote:
		// the flag is consumed by the next token; quoting a closer or
		// the end of input fails there.
		p.quoted = true
		n, err := p.NextExpr()
		if err != nil {
			return nil, err
		}
		if quoted {
			// ''x is the quoted list (quote x)
			n.Info.Flags &^= FlagQuoted
			return &Node{Kind: NodeList, Items: []*Node{{Kind: NodeAtom, Text: "quote", Info: NodeInfo{Loc: tok.Loc}}, n}, Info: info}, nil
		}
		return n, nil
	case TokenLParen, TokenLSquare, TokenLCurly:
		return p.ParseList(tok, info)
	case TokenRParen, TokenRSquare, TokenRCurly:
		if quoted {
			return nil, &ParseError{Loc: tok.Loc, Err: ErrUnexpectedToken, Detail: fmt.Sprintf("nothing to quote before '%s'", tok)}
		}
		return &Node{Kind: NodeUnit, Info: info, closer: tok.typ}, nil
	case TokenNumber:
		return &Node{Kind: NodeNumber, Num: tok.num, Info: info}, nil
	case TokenBool:
		return &Node{Kind: NodeBool, Bool: tok.bval, Info: info}, nil
	case TokenString:
		return &Node{Kind: NodeString, Text: tok.str, Info: info}, nil
	case TokenAtom:
		return &Node{Kind: NodeAtom, Text: tok.str, Info: info}, nil
	}
	return nil, &ParseError{Loc: tok.Loc, Err: ErrUnexpectedToken, Detail: tok.String()}
}

// ParseList collects sub-expressions after the opener until the matching
// closer. Running out of input reports the opener's location.
func (p *Parser) ParseList(open Token, info NodeInfo) (*Node, error) {
	want := closerFor(open.typ)
	list := &Node{Kind: NodeList, Info: info}
	for {
		n, err := p.NextExpr()
		if err != nil {
			return nil, err
		}
		if n.isTerminator() {
			if n.closer != want {
				return nil, &ParseError{Loc: n.Info.Loc, Err: ErrMismatched,
					Detail: fmt.Sprintf("'%s' opened at %s closed by '%s'", open.typ, open.Loc, n.closer)}
			}
			return list, nil
		}
		if n.end {
			return nil, &ParseError{Loc: open.Loc, Err: ErrUnbalanced,
				Detail: fmt.Sprintf("'%s' is never closed", open.typ)}
		}
		list.Items = append(list.Items, n)
	}
}

// NextProgn parses expressions until end of input and wraps them in a
// top-level sequence node. A closer with no opener is a syntax error.
func (p *Parser) NextProgn() (*Node, error) {
	progn := &Node{Kind: NodeProgn, Info: NodeInfo{Loc: Loc{Line: 1, Column: 1}}}
	for {
		n, err := p.NextExpr()
		if err != nil {
			return nil, err
		}
		if n.isTerminator() {
			return nil, &ParseError{Loc: n.Info.Loc, Err: ErrUnexpectedToken,
				Detail: fmt.Sprintf("'%s' has no matching opener", n.closer)}
		}
		if n.end {
			return progn, nil
		}
		progn.Items = append(progn.Items, n)
	}
}
