// Copyright © 2018 The ELPS authors

package token

import (
	"strings"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from an in-memory byte slice.
// All positions reported by a Scanner are byte offsets into the source.
type Scanner struct {
	file string
	src  []byte

	start int // start of the current token
	pos   int // offset of c
	next  int // offset of the rune following c
	c     Rune
}

// NewScanner initializes and returns a new Scanner.
func NewScanner(file string, src []byte) *Scanner {
	return &Scanner{
		file: file,
		src:  src,
	}
}

// File returns the name associated with the scanned source.
func (s *Scanner) File() string {
	return s.file
}

// Source returns the bytes being scanned.
func (s *Scanner) Source() []byte {
	return s.src
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) Token {
	tok := Token{
		Type: typ,
		Text: s.Text(),
		Span: s.Span(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return string(s.src[s.start:s.next])
}

// Span returns the byte range scanned since the last call to either EmitToken
// or Ignore.
func (s *Scanner) Span() Span {
	return Span{Start: s.start, End: s.next}
}

// Start returns the offset of the first byte of the current token.
func (s *Scanner) Start() int {
	return s.start
}

// Offset returns the offset just beyond the last scanned rune.
func (s *Scanner) Offset() int {
	return s.next
}

// Rune returns the current unicode rune that is being scanned.  The rune
// returned by Rune is the last rune in a token returned by EmitToken.
func (s *Scanner) Rune() rune {
	return s.c.C
}

// Peek returns the next rune to be scanned.  At the end of input Peek returns
// a false second value.  Invalid utf-8 is returned as utf8.RuneError so that
// scanning never stalls on malformed input.
func (s *Scanner) Peek() (rune, bool) {
	if s.next >= len(s.src) {
		return 0, false
	}
	c, _ := utf8.DecodeRune(s.src[s.next:])
	return c, true
}

func (s *Scanner) peekAt(off int) (Rune, bool) {
	if off >= len(s.src) {
		return Rune{}, false
	}
	c, n := utf8.DecodeRune(s.src[off:])
	return Rune{c, n}, true
}

// ScanRune scans the next rune into the current token.  ScanRune returns
// false at the end of input.
func (s *Scanner) ScanRune() bool {
	r, ok := s.peekAt(s.next)
	if !ok {
		return false
	}
	s.c = r
	s.pos = s.next
	s.next += r.N
	return true
}

// EOF reports whether all input has been scanned.
func (s *Scanner) EOF() bool {
	return s.next >= len(s.src)
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if fn(peek) {
		return s.ScanRune()
	}
	return false
}

func (s *Scanner) AcceptRune(c rune) bool {
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if peek == c {
		return s.ScanRune()
	}
	return false
}

func (s *Scanner) AcceptAny(charset string) bool {
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if strings.ContainsRune(charset, peek) {
		return s.ScanRune()
	}
	return false
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

// Backup rewinds the scanner so that the current token ends at offset off.
// Backup cannot move before the start of the current token.
func (s *Scanner) Backup(off int) {
	if off < s.start {
		off = s.start
	}
	if off > len(s.src) {
		off = len(s.src)
	}
	s.next = off
	s.pos = off
	if off > s.start {
		c, n := utf8.DecodeLastRune(s.src[s.start:off])
		s.c = Rune{c, n}
		s.pos = off - n
	}
}

// Rune contains a rune that read by Scanner during peeking operations.
type Rune struct {
	C rune
	N int
}
