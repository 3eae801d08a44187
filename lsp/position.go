// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/dtacheck/parser/token"
)

// offsetToPosition converts a byte offset to a 0-based LSP position.  LSP
// characters count UTF-16 code units.
func offsetToPosition(lines *token.LineIndex, pos int) protocol.Position {
	loc := lines.Location(pos)
	prefix := []rune(lines.LineText(loc.Line))
	if n := loc.Col - 1; n < len(prefix) {
		prefix = prefix[:n]
	}
	return protocol.Position{
		Line:      safeUint(loc.Line - 1),
		Character: safeUint(len(utf16.Encode(prefix))),
	}
}

// spanToRange converts a byte span to an LSP range.
func spanToRange(lines *token.LineIndex, span token.Span) protocol.Range {
	return protocol.Range{
		Start: offsetToPosition(lines, span.Start),
		End:   offsetToPosition(lines, span.End),
	}
}

// positionToOffset converts a 0-based LSP position to a byte offset in
// content.  Positions past the end of a line are clamped to the line end.
func positionToOffset(content string, p protocol.Position) int {
	off := 0
	for range p.Line {
		i := strings.IndexByte(content[off:], '\n')
		if i < 0 {
			return len(content)
		}
		off += i + 1
	}
	units := int(p.Character)
	for units > 0 && off < len(content) && content[off] != '\n' {
		r, size := utf8.DecodeRuneInString(content[off:])
		units -= utf16.RuneLen(r)
		off += size
	}
	return off
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}
