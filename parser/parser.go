// Copyright © 2018 The ELPS authors

// Package parser runs the lexer and recursive descent parser over a source
// file in one step.
package parser

import (
	"github.com/luthersystems/dtacheck/parser/lexer"
	"github.com/luthersystems/dtacheck/parser/rdparser"
	"github.com/luthersystems/dtacheck/parser/token"
)

// File is a lexed and parsed source file.
type File struct {
	Name   string
	Source []byte

	// Tokens is the complete token stream, terminated by token.EOF.
	Tokens []token.Token
	// Comments are the comment tokens dropped from Tokens.
	Comments []token.Token

	// Nodes is nil when the parse was aborted by an unrecoverable error.
	Nodes  []*rdparser.Node
	OK     bool
	Errors []*rdparser.Error

	Lines *token.LineIndex
}

// ParseFile lexes and parses src.  ParseFile never fails; parse errors are
// reported in the returned File.
func ParseFile(name string, src []byte) *File {
	lex := lexer.New(token.NewScanner(name, src)).KeepComments()
	tokens := lex.Tokens()
	res := rdparser.Parse(tokens)
	return &File{
		Name:     name,
		Source:   src,
		Tokens:   tokens,
		Comments: lex.Comments,
		Nodes:    res.Nodes,
		OK:       res.OK,
		Errors:   res.Errors,
		Lines:    token.NewLineIndex(name, src),
	}
}

// Location returns the location of byte offset pos in f.
func (f *File) Location(pos int) *token.Location {
	return f.Lines.Location(pos)
}
