// Copyright © 2024 The ELPS authors

package token

import (
	"sort"
	"unicode/utf8"
)

// LineIndex converts byte offsets in a source text to line and column
// numbers.  Lines and columns are 1-based; columns count runes.
type LineIndex struct {
	file  string
	src   []byte
	lines []int // offset of the first byte of each line
}

// NewLineIndex indexes the line starts of src.
func NewLineIndex(file string, src []byte) *LineIndex {
	lines := []int{0}
	for i, b := range src {
		if b == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &LineIndex{file: file, src: src, lines: lines}
}

// NumLines returns the number of lines in the indexed source.
func (idx *LineIndex) NumLines() int {
	return len(idx.lines)
}

// Location returns the location of byte offset pos.  Offsets beyond the end
// of the source are clamped to the end.
func (idx *LineIndex) Location(pos int) *Location {
	if pos < 0 {
		pos = 0
	}
	if pos > len(idx.src) {
		pos = len(idx.src)
	}
	line := sort.Search(len(idx.lines), func(i int) bool { return idx.lines[i] > pos }) - 1
	col := utf8.RuneCount(idx.src[idx.lines[line]:pos]) + 1
	return &Location{
		File: idx.file,
		Pos:  pos,
		Line: line + 1,
		Col:  col,
	}
}

// LineText returns the text of 1-based line n without its line terminator.
func (idx *LineIndex) LineText(n int) string {
	if n < 1 || n > len(idx.lines) {
		return ""
	}
	start := idx.lines[n-1]
	end := len(idx.src)
	if n < len(idx.lines) {
		end = idx.lines[n] - 1
	}
	if end > start && idx.src[end-1] == '\r' {
		end--
	}
	return string(idx.src[start:end])
}
