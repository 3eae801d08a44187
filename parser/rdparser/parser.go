// Copyright © 2018 The ELPS authors

package rdparser

import (
	"fmt"

	"github.com/luthersystems/dtacheck/parser/token"
)

// ErrorKind classifies parse errors.
type ErrorKind uint

const (
	// ErrUnexpectedToken is a token that cannot begin or continue any
	// construct.  It is fatal unless it can be recovered as an unmatched
	// delimiter.
	ErrUnexpectedToken ErrorKind = iota
	// ErrUnmatchedDelimiter pairs an open delimiter with the mismatched
	// closing delimiter or end of input that terminated its list.
	ErrUnmatchedDelimiter
)

// Error is a parse error located in the source text.
type Error struct {
	Kind ErrorKind
	// At is the span of the offending token.
	At token.Span
	// Found is the type of the offending token.
	Found token.Type
	// Open is the span of the unmatched opening delimiter.  It is only set
	// for ErrUnmatchedDelimiter.
	Open token.Span
	// Delim is the type of the unmatched opening delimiter.
	Delim token.Type

	// fatal is set once a list has refused to recover from the error.
	// Enclosing lists return it unchanged.
	fatal bool
}

func (err *Error) Error() string {
	switch err.Kind {
	case ErrUnmatchedDelimiter:
		return fmt.Sprintf("unmatched delimiter %s", err.Delim)
	default:
		return fmt.Sprintf("unexpected token %s", err.Found)
	}
}

// Result is the outcome of parsing a token sequence.
type Result struct {
	// Nodes are the top-level nodes.  Nodes is nil when OK is false.
	Nodes []*Node
	// OK is false when parsing was aborted by an unrecoverable error.
	OK bool
	// Errors holds recovered unmatched delimiter errors in the order they
	// were found followed by the fatal error, if any.
	Errors []*Error
}

// Parser is a recursive descent parser over a token sequence with one token
// of lookahead.  The delimiter stack records open delimiters so that errors
// can name the delimiter left unclosed.
type Parser struct {
	tokens []token.Token
	cursor int
	delims []token.Token
	errors []*Error
}

// New initializes and returns a Parser reading tokens.  The final token of
// tokens should be token.EOF.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a complete token sequence.
func Parse(tokens []token.Token) *Result {
	return New(tokens).ParseProgram()
}

// ParseProgram parses every node up to the end of input.
func (p *Parser) ParseProgram() *Result {
	nodes, err := p.parseList(token.EOF)
	res := &Result{Errors: p.errors}
	if err != nil {
		res.Errors = append(res.Errors, err)
		return res
	}
	res.Nodes = nodes
	res.OK = true
	return res
}

func (p *Parser) peek() token.Token {
	if p.cursor < len(p.tokens) {
		return p.tokens[p.cursor]
	}
	end := 0
	if len(p.tokens) > 0 {
		end = p.tokens[len(p.tokens)-1].Span.End
	}
	return token.Token{Type: token.EOF, Span: token.Span{Start: end, End: end}}
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.cursor-1]
}

func (p *Parser) bump() {
	if p.cursor < len(p.tokens) {
		p.cursor++
	}
}

// accept consumes the lookahead token if it has type typ.
func (p *Parser) accept(typ token.Type) bool {
	if p.peek().Type != typ {
		return false
	}
	p.bump()
	return true
}

// expect consumes and returns the lookahead token if it has type typ.
func (p *Parser) expect(typ token.Type) (token.Token, *Error) {
	tok := p.peek()
	if tok.Type != typ {
		return tok, p.unexpected(tok)
	}
	p.bump()
	return tok, nil
}

func (p *Parser) unexpected(tok token.Token) *Error {
	return &Error{
		Kind:  ErrUnexpectedToken,
		At:    tok.Span,
		Found: tok.Type,
	}
}

func (p *Parser) push(tok token.Token) {
	p.delims = append(p.delims, tok)
}

func (p *Parser) pop() {
	p.delims = p.delims[:len(p.delims)-1]
}

func (p *Parser) parseNode() (*Node, *Error) {
	tok := p.peek()
	switch tok.Type {
	case token.INT, token.FLOAT, token.VAR, token.SYMBOL, token.STRING,
		token.UNHANDLED, token.ELSE, token.ENDIF, token.AUTORUN:
		p.bump()
		return leaf(tok), nil
	case token.PAREN_L:
		return p.parseDelimited(KindArray, token.PAREN_R)
	case token.BRACKET_L:
		return p.parseDelimited(KindProp, token.BRACKET_R)
	case token.BRACE_L:
		return p.parseDelimited(KindStmt, token.BRACE_R)
	case token.DEFINE:
		return p.parseDefine()
	case token.IFDEF:
		return p.parseDirective(KindIfDef)
	case token.IFNDEF:
		return p.parseDirective(KindIfNDef)
	case token.INCLUDE:
		return p.parseDirective(KindInclude)
	case token.MERGE:
		return p.parseDirective(KindMerge)
	case token.UNDEF:
		return p.parseDirective(KindUndef)
	default:
		return nil, p.unexpected(tok)
	}
}

func (p *Parser) parseDelimited(kind Kind, stop token.Type) (*Node, *Error) {
	open := p.peek()
	p.push(open)
	p.bump()
	children, err := p.parseList(stop)
	if err != nil {
		return nil, err
	}
	return &Node{
		Kind:     kind,
		Span:     token.Span{Start: open.Span.Start, End: p.previous().Span.End},
		Children: children,
	}, nil
}

func (p *Parser) parseDirective(kind Kind) (*Node, *Error) {
	dir := p.peek()
	p.bump()
	sym, err := p.expect(token.SYMBOL)
	if err != nil {
		return nil, err
	}
	return directive(kind, dir, sym), nil
}

func (p *Parser) parseDefine() (*Node, *Error) {
	dir := p.peek()
	p.bump()
	sym, err := p.expect(token.SYMBOL)
	if err != nil {
		return nil, err
	}
	open, err := p.expect(token.PAREN_L)
	if err != nil {
		return nil, err
	}
	p.push(open)
	body, err := p.parseList(token.PAREN_R)
	if err != nil {
		return nil, err
	}
	return define(dir, sym, body), nil
}

// parseList parses nodes until a token of type stop is consumed.  When a
// child fails to parse inside an open delimiter and the lookahead is a
// different closing delimiter or the end of input, the list is terminated as
// though it were closed and an unmatched delimiter error is recorded.  Any
// other failure is fatal and is returned through every enclosing list.  The
// opener pushed for this list is popped on every return.
func (p *Parser) parseList(stop token.Type) ([]*Node, *Error) {
	var nodes []*Node
	for {
		if p.accept(stop) {
			p.popList(stop)
			return nodes, nil
		}
		node, err := p.parseNode()
		if err == nil {
			nodes = append(nodes, node)
			continue
		}
		if err.fatal || stop == token.EOF {
			err.fatal = true
			p.popList(stop)
			return nil, err
		}
		tok := p.peek()
		switch {
		case tok.Type.IsClose() && tok.Type != stop:
			p.unmatched(tok)
			p.bump()
			p.pop()
			return nodes, nil
		case tok.Type == token.EOF:
			p.unmatched(tok)
			p.pop()
			return nodes, nil
		}
		err.fatal = true
		p.pop()
		return nil, err
	}
}

// popList pops the opener of a delimited list.  The top-level list has none.
func (p *Parser) popList(stop token.Type) {
	if stop != token.EOF {
		p.pop()
	}
}

func (p *Parser) unmatched(tok token.Token) {
	open := p.delims[len(p.delims)-1]
	p.errors = append(p.errors, &Error{
		Kind:  ErrUnmatchedDelimiter,
		At:    tok.Span,
		Found: tok.Type,
		Open:  open.Span,
		Delim: open.Type,
	})
}
