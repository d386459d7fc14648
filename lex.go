package calcexpr

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	// bin is the operator for tokenBinary; un is the operator for tokenPrefix
	// and tokenPostfix. Both are derived from text.
	bin binaryOp
	un  unaryOp
	pos int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal literal.
	tokenNum
	// tokenIdent is a function name.
	tokenIdent
	// tokenBinary is an infix operator.
	tokenBinary
	// tokenPrefix is a unary operator preceding its operand.
	tokenPrefix
	// tokenPostfix is a unary operator following its operand.
	tokenPostfix
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is a function arguments separator.
	tokenSep
)

var tokenKindNames = [...]string{
	tokenNone:    "None",
	tokenEOF:     "EOF",
	tokenNum:     "Num",
	tokenIdent:   "Ident",
	tokenBinary:  "Binary",
	tokenPrefix:  "Prefix",
	tokenPostfix: "Postfix",
	tokenOpen:    "Open",
	tokenClose:   "Close",
	tokenSep:     "Sep",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators contains the runes which are operators by themselves. Longer
// operators are matched before these.
const Operators = "+-*/%&|^<>!~"

var (
	operators3 = []string{"<=>"}
	operators2 = []string{"==", "!=", "<=", ">=", "&&", "||", "**", "<<", ">>", "^^", "//"}
)

// lexer scans tokens from a string. Each lexer owns its position, so any
// number of lexers may run at once.
type lexer struct {
	src string
	// off is the byte offset of the next rune; col is its 1-based rune column.
	off int
	col int
	// prev is the kind of the last token scanned, used to decide whether - and
	// ! are prefix, infix, or postfix.
	prev tokenKind
	p    lexToken
}

func lex(src string) *lexer {
	return &lexer{
		src: src,
		col: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("calcexpr: double push")
	}
	l.p = tok
}

// advance moves past n bytes which are all single-rune ASCII.
func (l *lexer) advance(n int) string {
	s := l.src[l.off : l.off+n]
	l.off += n
	l.col += n
	return s
}

// next scans the next token from the input. At the end of input, the result
// is an EOF token, as many times as next is called.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	for l.off < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.off:])
		if !unicode.IsSpace(r) {
			break
		}
		l.off += sz
		l.col++
	}
	tok := lexToken{pos: l.col}
	if l.off >= len(l.src) {
		tok.kind = tokenEOF
		return tok, nil
	}
	r, sz := utf8.DecodeRuneInString(l.src[l.off:])
	switch {
	case '0' <= r && r <= '9', r == '.':
		text, ok := l.scanNum()
		if !ok {
			return tok, &NumberError{Col: tok.pos, Text: text}
		}
		tok.text = text
		tok.kind = tokenNum
	case r == '_', unicode.IsLetter(r):
		tok.text = l.scanIdent()
		tok.kind = tokenIdent
	case r == '(':
		tok.text = l.advance(1)
		tok.kind = tokenOpen
	case r == ')':
		tok.text = l.advance(1)
		tok.kind = tokenClose
	case r == ',':
		tok.text = l.advance(1)
		tok.kind = tokenSep
	default:
		text := l.scanOp()
		if text == "" {
			// Skip the rune so that scanning can continue after the error.
			l.off += sz
			l.col++
			return tok, &CharacterError{Col: tok.pos, Char: r}
		}
		tok.text = text
		l.classify(&tok)
	}
	l.prev = tok.kind
	return tok, nil
}

// operandNext reports whether the next token must begin an operand, based on
// the previous token.
func (l *lexer) operandNext() bool {
	switch l.prev {
	case tokenNone, tokenBinary, tokenPrefix, tokenOpen, tokenSep:
		return true
	}
	return false
}

// classify sets the kind and operator of an operator token.
func (l *lexer) classify(tok *lexToken) {
	switch tok.text {
	case "-":
		if l.operandNext() {
			tok.kind, tok.un = tokenPrefix, unNeg
			return
		}
	case "!":
		switch l.prev {
		case tokenNum, tokenClose, tokenPostfix:
			tok.kind, tok.un = tokenPostfix, unFact
		default:
			tok.kind, tok.un = tokenPrefix, unNot
		}
		return
	case "~":
		tok.kind, tok.un = tokenPrefix, unBitNot
		return
	}
	tok.kind, tok.bin = tokenBinary, binop(tok.text)
}

// scanNum scans a run of digits and dots. The result is ok if the run is
// digits with at most one dot that has digits on both sides.
func (l *lexer) scanNum() (string, bool) {
	start := l.off
	for l.off < len(l.src) {
		c := l.src[l.off]
		if c != '.' && (c < '0' || '9' < c) {
			break
		}
		l.off++
		l.col++
	}
	text := l.src[start:l.off]
	dot := strings.IndexByte(text, '.')
	switch {
	case dot < 0:
		return text, true
	case dot == 0, dot == len(text)-1:
		return text, false
	case strings.IndexByte(text[dot+1:], '.') >= 0:
		return text, false
	}
	return text, true
}

func (l *lexer) scanIdent() string {
	start := l.off
	for l.off < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.off:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.off += sz
		l.col++
	}
	return l.src[start:l.off]
}

// scanOp scans the longest operator at the current position. If there is no
// operator, the result is the empty string and the lexer does not move.
func (l *lexer) scanOp() string {
	rest := l.src[l.off:]
	for _, ops := range [][]string{operators3, operators2} {
		for _, op := range ops {
			if strings.HasPrefix(rest, op) {
				return l.advance(len(op))
			}
		}
	}
	if strings.IndexByte(Operators, rest[0]) >= 0 {
		return l.advance(1)
	}
	return ""
}
