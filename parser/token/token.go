// Copyright © 2018 The ELPS authors

package token

import "fmt"

type Token struct {
	Type Type
	// Text is the semantic text of the token.  Quote characters are stripped
	// from SYMBOL and STRING tokens and the sigil is stripped from VAR.
	Text  string
	Int   int32
	Float float32
	Span  Span
}

func (tok Token) String() string {
	switch tok.Type {
	case SYMBOL, STRING, VAR, INT, FLOAT:
		return fmt.Sprintf("%v(%q)@%v", tok.Type, tok.Text, tok.Span)
	default:
		return fmt.Sprintf("%v@%v", tok.Type, tok.Span)
	}
}

type Type uint

// Type constants used for the dta lexer/parser.
const (
	INVALID Type = iota
	EOF

	COMMENT

	// Atomic expressions & literals
	UNHANDLED
	INT
	FLOAT
	VAR
	SYMBOL
	STRING

	// Preprocessor directives
	IFDEF
	IFNDEF
	ELSE
	ENDIF
	DEFINE
	INCLUDE
	MERGE
	AUTORUN
	UNDEF

	// Delimiters
	PAREN_L
	PAREN_R
	BRACKET_L
	BRACKET_R
	BRACE_L
	BRACE_R

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:   "invalid",
		EOF:       "EOF",
		COMMENT:   ";",
		UNHANDLED: "kDataUnhandled",
		INT:       "int",
		FLOAT:     "float",
		VAR:       "var",
		SYMBOL:    "symbol",
		STRING:    "string",
		IFDEF:     "#ifdef",
		IFNDEF:    "#ifndef",
		ELSE:      "#else",
		ENDIF:     "#endif",
		DEFINE:    "#define",
		INCLUDE:   "#include",
		MERGE:     "#merge",
		AUTORUN:   "#autorun",
		UNDEF:     "#undef",
		PAREN_L:   "(",
		PAREN_R:   ")",
		BRACKET_L: "[",
		BRACKET_R: "]",
		BRACE_L:   "{",
		BRACE_R:   "}",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Keywords maps the source text of fixed keyword tokens to their type.
var Keywords = map[string]Type{
	"kDataUnhandled": UNHANDLED,
	"#ifdef":         IFDEF,
	"#ifndef":        IFNDEF,
	"#else":          ELSE,
	"#endif":         ENDIF,
	"#define":        DEFINE,
	"#include":       INCLUDE,
	"#merge":         MERGE,
	"#autorun":       AUTORUN,
	"#undef":         UNDEF,
}

// IsDirective reports whether typ is a preprocessor directive.
func (typ Type) IsDirective() bool {
	return IFDEF <= typ && typ <= UNDEF
}

// IsOpen reports whether typ opens a delimited list.
func (typ Type) IsOpen() bool {
	return typ == PAREN_L || typ == BRACKET_L || typ == BRACE_L
}

// IsClose reports whether typ closes a delimited list.
func (typ Type) IsClose() bool {
	return typ == PAREN_R || typ == BRACKET_R || typ == BRACE_R
}

// Span is a half-open range of byte offsets [Start, End) into source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by sp.
func (sp Span) Len() int {
	return sp.End - sp.Start
}

// Empty reports whether sp covers no bytes.
func (sp Span) Empty() bool {
	return sp.End <= sp.Start
}

// Contains reports whether offset pos falls within sp.
func (sp Span) Contains(pos int) bool {
	return sp.Start <= pos && pos < sp.End
}

func (sp Span) String() string {
	return fmt.Sprintf("%d..%d", sp.Start, sp.End)
}

type Location struct {
	File string // a name representing the source stream
	Pos  int
	Line int // line number (starting at 1 when tracked)
	Col  int // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}
