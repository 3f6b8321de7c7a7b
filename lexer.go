// lexer.go — scanner for BLOA expression text.
//
// Statements arrive from the block parser with their expressions still as raw
// text; this scanner turns one such expression into tokens for the Pratt
// parser in expr.go. It is deliberately small: the token set below is the
// whole expression grammar, and there are no statement keywords here.
package bloa

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LROUND  // "("
	RROUND  // ")"
	LSQUARE // "["
	RSQUARE // "]"
	LCURLY  // "{"
	RCURLY  // "}"
	COLON   // ":"
	COMMA   // ","
	PERIOD  // "."

	// Operators
	PLUS       // "+"
	MINUS      // "-"
	STAR       // "*"
	POW        // "**"
	SLASH      // "/"
	FLOORDIV   // "//"
	PERCENT    // "%"
	EQ         // "=="
	NEQ        // "!="
	LESS       // "<"
	LESS_EQ    // "<="
	GREATER    // ">"
	GREATER_EQ // ">="

	// Boolean combinators (keyword or symbolic)
	AND // "and" / "&&"
	OR  // "or" / "||"
	NOT // "not" / "!"

	// Literals & identifiers
	ID
	STRING
	INTEGER
	NUMBER
	BOOLEAN
	NONE
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Col     int         // 0-based byte offset in the expression text
}

// exprKeywords maps lowercased identifier text to keyword tokens. Boolean and
// none literals are case-insensitive; the combinators are conventional
// lowercase only, matching the surface grammar.
var exprKeywords = map[string]TokenType{
	"true":  BOOLEAN,
	"false": BOOLEAN,
	"none":  NONE,
}

// Lexer scans one expression string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	tokens []Token
}

// NewLexer creates a new lexer for the given expression text.
func NewLexer(src string) *Lexer { return &Lexer{src: src} }

// ScanAll tokenizes the whole input, ending with an EOF token.
func (l *Lexer) ScanAll() ([]Token, error) {
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	return ch, true
}

// match consumes the next byte when it equals want.
func (l *Lexer) match(want byte) bool {
	if ch, ok := l.peek(); ok && ch == want {
		l.cur++
		return true
	}
	return false
}

func (l *Lexer) make(tt TokenType, lit interface{}) Token {
	tok := Token{Type: tt, Lexeme: l.src[l.start:l.cur], Literal: lit, Col: l.start}
	l.start = l.cur
	return tok
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.cur++
			l.start = l.cur
			continue
		}
		return
	}
}

func (l *Lexer) next() (Token, error) {
	l.skipWhitespace()
	if l.isAtEnd() {
		return l.make(EOF, nil), nil
	}

	ch, _ := l.advance()
	switch ch {
	case '(':
		return l.make(LROUND, nil), nil
	case ')':
		return l.make(RROUND, nil), nil
	case '[':
		return l.make(LSQUARE, nil), nil
	case ']':
		return l.make(RSQUARE, nil), nil
	case '{':
		return l.make(LCURLY, nil), nil
	case '}':
		return l.make(RCURLY, nil), nil
	case ':':
		return l.make(COLON, nil), nil
	case ',':
		return l.make(COMMA, nil), nil
	case '.':
		return l.make(PERIOD, nil), nil
	case '+':
		return l.make(PLUS, nil), nil
	case '-':
		return l.make(MINUS, nil), nil
	case '*':
		if l.match('*') {
			return l.make(POW, nil), nil
		}
		return l.make(STAR, nil), nil
	case '/':
		if l.match('/') {
			return l.make(FLOORDIV, nil), nil
		}
		return l.make(SLASH, nil), nil
	case '%':
		return l.make(PERCENT, nil), nil
	case '=':
		if l.match('=') {
			return l.make(EQ, nil), nil
		}
		return l.make(ILLEGAL, nil), fmt.Errorf("unexpected '=' in expression at offset %d", l.start)
	case '!':
		if l.match('=') {
			return l.make(NEQ, nil), nil
		}
		return l.make(NOT, nil), nil
	case '<':
		if l.match('=') {
			return l.make(LESS_EQ, nil), nil
		}
		return l.make(LESS, nil), nil
	case '>':
		if l.match('=') {
			return l.make(GREATER_EQ, nil), nil
		}
		return l.make(GREATER, nil), nil
	case '&':
		if l.match('&') {
			return l.make(AND, nil), nil
		}
		return l.make(ILLEGAL, nil), fmt.Errorf("unexpected '&' at offset %d", l.start)
	case '|':
		if l.match('|') {
			return l.make(OR, nil), nil
		}
		return l.make(ILLEGAL, nil), fmt.Errorf("unexpected '|' at offset %d", l.start)
	case '"', '\'':
		return l.scanString(ch)
	default:
		if isDigit(ch) {
			return l.scanNumber()
		}
		if isAlpha(ch) {
			return l.scanIdent()
		}
		return l.make(ILLEGAL, nil), fmt.Errorf("unexpected character %q at offset %d", ch, l.start)
	}
}

// scanString consumes a quoted string; both "…" and '…' quoting work, with
// backslash escapes for \n, \t, \\, and the quote characters.
func (l *Lexer) scanString(quote byte) (Token, error) {
	var b strings.Builder
	for {
		ch, ok := l.advance()
		if !ok {
			return Token{}, fmt.Errorf("unterminated string literal")
		}
		if ch == quote {
			return l.make(STRING, b.String()), nil
		}
		if ch == '\\' {
			esc, ok := l.advance()
			if !ok {
				return Token{}, fmt.Errorf("unterminated string literal")
			}
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '"', '\'':
				b.WriteByte(esc)
			default:
				return Token{}, fmt.Errorf("unknown escape sequence \\%c", esc)
			}
			continue
		}
		b.WriteByte(ch)
	}
}

// scanNumber consumes an integer or floating-point literal. A '.' is part of
// the number only when a digit follows, so `1.foo` stays an INTEGER plus a
// PERIOD for attribute access.
func (l *Lexer) scanNumber() (Token, error) {
	isFloat := false
	for {
		ch, ok := l.peek()
		if !ok {
			break
		}
		if isDigit(ch) {
			l.cur++
			continue
		}
		if ch == '.' && !isFloat && l.cur+1 < len(l.src) && isDigit(l.src[l.cur+1]) {
			isFloat = true
			l.cur++
			continue
		}
		if (ch == 'e' || ch == 'E') && l.cur+1 < len(l.src) {
			nxt := l.src[l.cur+1]
			if isDigit(nxt) || ((nxt == '+' || nxt == '-') && l.cur+2 < len(l.src) && isDigit(l.src[l.cur+2])) {
				isFloat = true
				l.cur += 2
				continue
			}
		}
		break
	}
	text := l.src[l.start:l.cur]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, fmt.Errorf("bad number literal %q", text)
		}
		return l.make(NUMBER, f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Too large for int64: fall back to float.
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return Token{}, fmt.Errorf("bad number literal %q", text)
		}
		return l.make(NUMBER, f), nil
	}
	return l.make(INTEGER, n), nil
}

func (l *Lexer) scanIdent() (Token, error) {
	for {
		ch, ok := l.peek()
		if !ok || !isAlphaNum(ch) {
			break
		}
		l.cur++
	}
	text := l.src[l.start:l.cur]
	switch text {
	case "and":
		return l.make(AND, nil), nil
	case "or":
		return l.make(OR, nil), nil
	case "not":
		return l.make(NOT, nil), nil
	}
	if tt, ok := exprKeywords[strings.ToLower(text)]; ok {
		switch tt {
		case BOOLEAN:
			return l.make(BOOLEAN, strings.EqualFold(text, "true")), nil
		case NONE:
			return l.make(NONE, nil), nil
		}
	}
	return l.make(ID, text), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}
