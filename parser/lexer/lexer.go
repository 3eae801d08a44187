// Copyright © 2018 The ELPS authors

package lexer

import (
	"errors"
	"strconv"
	"unicode"

	"github.com/luthersystems/dtacheck/parser/token"
)

// Lexer splits source text into tokens.  A Lexer never fails: text that does
// not form a meaningful token is either dropped (whitespace and comments) or
// classified as a symbol.
type Lexer struct {
	scanner      *token.Scanner
	lastEnd      int
	keepComments bool

	// Comments holds the comment tokens seen so far when KeepComments has
	// been called.
	Comments []token.Token
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// Lex returns the complete token sequence for src, terminated by a single EOF
// token.
func Lex(src []byte) []token.Token {
	return New(token.NewScanner("", src)).Tokens()
}

// KeepComments causes lex to record comment tokens in lex.Comments.  Comment
// tokens never appear in the stream returned by ReadToken.
func (lex *Lexer) KeepComments() *Lexer {
	lex.keepComments = true
	return lex
}

// Tokens reads all remaining tokens, including the terminating EOF token.
func (lex *Lexer) Tokens() []token.Token {
	var tokens []token.Token
	for {
		tok := lex.ReadToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

// ReadToken returns the next token.  Once the input is exhausted ReadToken
// returns an empty EOF token positioned just after the last token returned.
func (lex *Lexer) ReadToken() token.Token {
	for {
		tok, ok := lex.readToken()
		if !ok {
			continue
		}
		if tok.Type != token.EOF {
			lex.lastEnd = tok.Span.End
		}
		return tok
	}
}

// readToken returns false when the scanned text was dropped.
func (lex *Lexer) readToken() (token.Token, bool) {
	lex.skipWhitespace()
	if !lex.scanner.ScanRune() {
		return lex.eof(), true
	}
	switch lex.scanner.Rune() {
	case '(':
		return lex.scanner.EmitToken(token.PAREN_L), true
	case ')':
		return lex.scanner.EmitToken(token.PAREN_R), true
	case '[':
		return lex.scanner.EmitToken(token.BRACKET_L), true
	case ']':
		return lex.scanner.EmitToken(token.BRACKET_R), true
	case '{':
		return lex.scanner.EmitToken(token.BRACE_L), true
	case '}':
		return lex.scanner.EmitToken(token.BRACE_R), true
	case ';':
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		tok := lex.scanner.EmitToken(token.COMMENT)
		if lex.keepComments {
			lex.Comments = append(lex.Comments, tok)
		}
		return tok, false
	case '\'':
		return lex.readQuoted(token.SYMBOL, '\''), true
	case '"':
		return lex.readQuoted(token.STRING, '"'), true
	default:
		return lex.readWord(), true
	}
}

func (lex *Lexer) eof() token.Token {
	return token.Token{
		Type: token.EOF,
		Span: token.Span{Start: lex.lastEnd, End: lex.lastEnd},
	}
}

// readQuoted reads a quoted symbol or string.  The quoted form is only used
// when it has a non-empty body and the bare word starting at the same offset
// is not longer.
func (lex *Lexer) readQuoted(typ token.Type, quote rune) token.Token {
	start := lex.scanner.Start()
	n := lex.scanner.AcceptSeq(func(c rune) bool { return c != quote })
	if n == 0 || !lex.scanner.AcceptRune(quote) {
		return lex.readWord()
	}
	if wordEnd(lex.scanner.Source(), start) > lex.scanner.Offset() {
		return lex.readWord()
	}
	tok := lex.scanner.EmitToken(typ)
	tok.Text = tok.Text[1 : len(tok.Text)-1]
	return tok
}

// readWord reads the maximal run of word characters beginning at the start
// of the current token and classifies it.
func (lex *Lexer) readWord() token.Token {
	lex.scanner.Backup(lex.scanner.Start())
	lex.scanner.AcceptSeq(isWord)
	tok := lex.scanner.EmitToken(token.SYMBOL)
	classify(&tok)
	return tok
}

func classify(tok *token.Token) {
	text := tok.Text
	if typ, ok := token.Keywords[text]; ok {
		tok.Type = typ
		return
	}
	switch {
	case isInt(text):
		x, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			// the literal overflows 32 bits and is left as a symbol
			return
		}
		tok.Type = token.INT
		tok.Int = int32(x)
	case isFloat(text):
		x, err := strconv.ParseFloat(text, 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return
		}
		tok.Type = token.FLOAT
		tok.Float = float32(x)
	case isVar(text):
		tok.Type = token.VAR
		tok.Text = text[1:]
	}
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeq(unicode.IsSpace) > 0 {
		lex.scanner.Ignore()
	}
}

func wordEnd(src []byte, start int) int {
	s := token.NewScanner("", src[start:])
	s.AcceptSeq(isWord)
	return start + s.Offset()
}

func isWord(c rune) bool {
	return !unicode.IsSpace(c) && !isDelimiter(c)
}

func isDelimiter(c rune) bool {
	switch c {
	case '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

// isInt matches [-+]?[0-9]+
func isInt(text string) bool {
	text = trimSign(text)
	return len(text) > 0 && digits(text) == len(text)
}

// isFloat matches [-+]?[0-9]+\.[0-9]+
func isFloat(text string) bool {
	text = trimSign(text)
	n := digits(text)
	if n == 0 || n >= len(text) || text[n] != '.' {
		return false
	}
	frac := text[n+1:]
	return len(frac) > 0 && digits(frac) == len(frac)
}

// isVar matches \$[0-9a-zA-Z_]+
func isVar(text string) bool {
	if len(text) < 2 || text[0] != '$' {
		return false
	}
	for _, c := range text[1:] {
		if !(c == '_' || isDigit(c) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')) {
			return false
		}
	}
	return true
}

func trimSign(text string) string {
	if len(text) > 0 && (text[0] == '-' || text[0] == '+') {
		return text[1:]
	}
	return text
}

func digits(text string) int {
	n := 0
	for n < len(text) && isDigit(rune(text[n])) {
		n++
	}
	return n
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
