// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/dtacheck/parser"
	"github.com/luthersystems/dtacheck/parser/rdparser"
)

// textDocumentFoldingRange returns folding ranges for multi-line arrays,
// properties and statements and for consecutive comment lines.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	f := doc.file
	content := doc.Content
	doc.mu.Unlock()

	ranges := listFoldingRanges(f)
	ranges = append(ranges, commentFoldingRanges(content)...)
	return ranges, nil
}

// listFoldingRanges emits a region for each list node spanning more than
// one line.  A file whose parse was aborted has no nodes and no regions.
func listFoldingRanges(f *parser.File) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	rdparser.Walk(f.Nodes, func(n *rdparser.Node) bool {
		if !n.IsList() {
			return true
		}
		start := f.Location(n.Span.Start).Line - 1
		end := f.Location(n.Span.End - 1).Line - 1
		if end > start {
			kind := string(protocol.FoldingRangeKindRegion)
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: safeUint(start),
				EndLine:   safeUint(end),
				Kind:      &kind,
			})
		}
		return true
	})
	return ranges
}

// commentFoldingRanges detects consecutive lines starting with ";" and
// produces a folding range for each block of 2+ lines.
func commentFoldingRanges(content string) []protocol.FoldingRange {
	lines := strings.Split(content, "\n")
	var ranges []protocol.FoldingRange
	emit := func(start, end int) {
		if end > start {
			kind := string(protocol.FoldingRangeKindComment)
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: safeUint(start),
				EndLine:   safeUint(end),
				Kind:      &kind,
			})
		}
	}

	blockStart := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), ";") {
			if blockStart < 0 {
				blockStart = i
			}
			continue
		}
		if blockStart >= 0 {
			emit(blockStart, i-1)
		}
		blockStart = -1
	}
	if blockStart >= 0 {
		emit(blockStart, len(lines)-1)
	}
	return ranges
}
