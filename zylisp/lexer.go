package zylisp

import (
	"fmt"
	"strconv"
)

type TokenType int

const (
	TokenEnd TokenType = iota
	TokenNumber
	TokenBool
	TokenString
	TokenAtom
	TokenLParen
	TokenRParen
	TokenLSquare
	TokenRSquare
	TokenLCurly
	TokenRCurly
	TokenQuote
)

var tokenTypeNames = map[TokenType]string{
	TokenEnd:     "end-of-input",
	TokenNumber:  "number",
	TokenBool:    "boolean",
	TokenString:  "string",
	TokenAtom:    "atom",
	TokenLParen:  "(",
	TokenRParen:  ")",
	TokenLSquare: "[",
	TokenRSquare: "]",
	TokenLCurly:  "{",
	TokenRCurly:  "}",
	TokenQuote:   "'",
}

func (t TokenType) String() string {
	if s, ok := tokenTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is one lexeme together with the location of its first character.
type Token struct {
	typ  TokenType
	str  string
	num  float64
	bval bool
	Loc  Loc
}

var EndTk = Token{typ: TokenEnd}

func (t Token) Type() TokenType { return t.typ }

func (t Token) String() string {
	switch t.typ {
	case TokenEnd:
		return "<end>"
	case TokenNumber:
		return strconv.FormatFloat(t.num, 'g', -1, 64)
	case TokenBool:
		if t.bval {
			return "#t"
		}
		return "#f"
	case TokenString:
		return `"` + t.str + `"`
	case TokenAtom:
		return t.str
	}
	return t.typ.String()
}

// isOpener reports whether the token begins a list.
func (t Token) isOpener() bool {
	return t.typ == TokenLParen || t.typ == TokenLSquare || t.typ == TokenLCurly
}

func (t Token) isCloser() bool {
	return t.typ == TokenRParen || t.typ == TokenRSquare || t.typ == TokenRCurly
}

// closerFor maps an opener to the closer that must end its list.
func closerFor(open TokenType) TokenType {
	switch open {
	case TokenLSquare:
		return TokenRSquare
	case TokenLCurly:
		return TokenRCurly
	}
	return TokenRParen
}

// Lexer turns source text into tokens, one NextToken call at a time.
// It holds no state beyond its cursor and is discarded after parsing.
type Lexer struct {
	code []rune
	pos  int
	loc  Loc
}

func NewLexer(src string) *Lexer {
	return &Lexer{
		code: []rune(src),
		loc:  Loc{Line: 1, Column: 1},
	}
}

func (lexer *Lexer) Linenum() int {
	return lexer.loc.Line
}

// Loc returns the position of the next unread character.
func (lexer *Lexer) Loc() Loc {
	return lexer.loc
}

func (lexer *Lexer) atEOF() bool {
	return lexer.pos >= len(lexer.code)
}

// current returns the rune under the cursor, or 0 at end of input.
func (lexer *Lexer) current() rune {
	return lexer.peek(0)
}

func (lexer *Lexer) peek(ahead int) rune {
	i := lexer.pos + ahead
	if i >= len(lexer.code) {
		return 0
	}
	return lexer.code[i]
}

func (lexer *Lexer) advance() rune {
	r := lexer.code[lexer.pos]
	lexer.pos++
	if r == '\n' {
		lexer.loc.Line++
		lexer.loc.Column = 1
	} else {
		lexer.loc.Column++
	}
	return r
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// isDelimiter reports whether r ends an atom or a number.
// End of input (0) is a delimiter too.
func isDelimiter(r rune) bool {
	switch r {
	case 0, '(', ')', '[', ']', '{', '}', '\'', '"', '`', ';':
		return true
	}
	return isWhitespace(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (lexer *Lexer) skipWhitespaceAndComments() {
	for !lexer.atEOF() {
		r := lexer.current()
		switch {
		case isWhitespace(r):
			lexer.advance()
		case r == ';':
			for !lexer.atEOF() && lexer.current() != '\n' {
				lexer.advance()
			}
		default:
			return
		}
	}
}

func (lexer *Lexer) token(typ TokenType, str string, loc Loc) Token {
	return Token{typ: typ, str: str, Loc: loc}
}

func (lexer *Lexer) DecodeBrace(brace rune, loc Loc) Token {
	switch brace {
	case '(':
		return lexer.token(TokenLParen, "", loc)
	case ')':
		return lexer.token(TokenRParen, "", loc)
	case '[':
		return lexer.token(TokenLSquare, "", loc)
	case ']':
		return lexer.token(TokenRSquare, "", loc)
	case '{':
		return lexer.token(TokenLCurly, "", loc)
	case '}':
		return lexer.token(TokenRCurly, "", loc)
	}
	return EndTk
}

// NextToken consumes and returns exactly one token. Once the source is
// exhausted every call returns the end token.
func (lexer *Lexer) NextToken() (Token, error) {
	lexer.skipWhitespaceAndComments()
	start := lexer.loc
	if lexer.atEOF() {
		return lexer.token(TokenEnd, "", start), nil
	}

	r := lexer.current()
	switch r {
	case '(', ')', '[', ']', '{', '}':
		lexer.advance()
		return lexer.DecodeBrace(r, start), nil
	case '\'':
		lexer.advance()
		return lexer.token(TokenQuote, "", start), nil
	case '"':
		return lexer.lexString(start)
	case '`':
		return EndTk, &LexError{Loc: start, Err: ErrUnexpectedChar, Detail: "'`'"}
	}

	tok, isNum, err := lexer.lexNumber(start)
	if err != nil {
		return EndTk, err
	}
	if isNum {
		return tok, nil
	}

	if tok, ok := lexer.lexBool(start); ok {
		return tok, nil
	}
	return lexer.lexAtom(start)
}

// lexNumber recognizes an optional '-', an optional leading '.', one or
// more digits, and at most one decimal point overall. A run that starts
// like a number but does not end at a delimiter is a bad token.
func (lexer *Lexer) lexNumber(start Loc) (Token, bool, error) {
	i := 0
	seenDot := false
	if lexer.peek(i) == '-' {
		i++
	}
	if lexer.peek(i) == '.' {
		seenDot = true
		i++
	}
	if !isDigit(lexer.peek(i)) {
		return EndTk, false, nil
	}
	for {
		c := lexer.peek(i)
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
			i++
			continue
		}
		if !isDigit(c) {
			break
		}
		i++
	}

	if !isDelimiter(lexer.peek(i)) {
		for !isDelimiter(lexer.peek(i)) {
			i++
		}
		bad := string(lexer.code[lexer.pos : lexer.pos+i])
		return EndTk, false, &LexError{Loc: start, Err: ErrBadToken, Detail: fmt.Sprintf("malformed number '%s'", bad)}
	}

	text := string(lexer.code[lexer.pos : lexer.pos+i])
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return EndTk, false, &LexError{Loc: start, Err: ErrBadToken, Detail: fmt.Sprintf("malformed number '%s'", text)}
	}
	for k := 0; k < i; k++ {
		lexer.advance()
	}
	tok := lexer.token(TokenNumber, text, start)
	tok.num = f
	return tok, true, nil
}

// lexBool accepts #t and #f only when they stand alone; "#true" is an atom.
func (lexer *Lexer) lexBool(start Loc) (Token, bool) {
	if lexer.current() != '#' {
		return EndTk, false
	}
	c := lexer.peek(1)
	if (c != 't' && c != 'f') || !isDelimiter(lexer.peek(2)) {
		return EndTk, false
	}
	lexer.advance()
	lexer.advance()
	tok := lexer.token(TokenBool, string([]rune{'#', c}), start)
	tok.bval = c == 't'
	return tok, true
}

// lexString reads up to the next double quote. There are no escapes.
func (lexer *Lexer) lexString(start Loc) (Token, error) {
	lexer.advance() // opening quote
	begin := lexer.pos
	for !lexer.atEOF() {
		if lexer.current() == '"' {
			str := string(lexer.code[begin:lexer.pos])
			lexer.advance()
			return lexer.token(TokenString, str, start), nil
		}
		lexer.advance()
	}
	return EndTk, &LexError{Loc: start, Err: ErrUnterminatedString}
}

func (lexer *Lexer) lexAtom(start Loc) (Token, error) {
	begin := lexer.pos
	for !lexer.atEOF() && !isDelimiter(lexer.current()) {
		lexer.advance()
	}
	if lexer.pos == begin {
		return EndTk, &LexError{Loc: start, Err: ErrUnexpectedChar, Detail: fmt.Sprintf("%q", lexer.current())}
	}
	return lexer.token(TokenAtom, string(lexer.code[begin:lexer.pos]), start), nil
}

// Tokenize lexes the whole source, excluding the final end token.
func Tokenize(src string) ([]Token, error) {
	lexer := NewLexer(src)
	var toks []Token
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return toks, err
		}
		if tok.typ == TokenEnd {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}
