// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestFoldingRange(t *testing.T) {
	s := testServer()
	folds := func(t *testing.T, uri string) []protocol.FoldingRange {
		t.Helper()
		result, err := s.textDocumentFoldingRange(mockContext(), &protocol.FoldingRangeParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		})
		require.NoError(t, err)
		return result
	}

	t.Run("single-line statement is not folded", func(t *testing.T) {
		doc := openDoc(s, "file:///test/single.dta", `{set $x 1}`)
		assert.Empty(t, filterFoldKind(folds(t, doc.URI), protocol.FoldingRangeKindRegion))
	})

	t.Run("multi-line statement is folded", func(t *testing.T) {
		doc := openDoc(s, "file:///test/multi.dta", "{with game\n  {set $x 1}}")
		regions := filterFoldKind(folds(t, doc.URI), protocol.FoldingRangeKindRegion)
		require.Len(t, regions, 1)
		assert.Equal(t, protocol.UInteger(0), regions[0].StartLine)
		assert.Equal(t, protocol.UInteger(1), regions[0].EndLine)
	})

	t.Run("nested arrays and properties produce separate ranges", func(t *testing.T) {
		src := "(song\n  [name\n    \"x\"]\n  (tracks\n    (1 2)\n  ))"
		doc := openDoc(s, "file:///test/nested.dta", src)
		regions := filterFoldKind(folds(t, doc.URI), protocol.FoldingRangeKindRegion)
		require.Len(t, regions, 3)
		assert.Equal(t, protocol.UInteger(0), regions[0].StartLine)
		assert.Equal(t, protocol.UInteger(5), regions[0].EndLine)
		assert.Equal(t, protocol.UInteger(1), regions[1].StartLine)
		assert.Equal(t, protocol.UInteger(2), regions[1].EndLine)
		assert.Equal(t, protocol.UInteger(3), regions[2].StartLine)
		assert.Equal(t, protocol.UInteger(5), regions[2].EndLine)
	})

	t.Run("aborted parse has no regions", func(t *testing.T) {
		doc := openDoc(s, "file:///test/aborted.dta", "(a\n b)\n)")
		assert.Empty(t, filterFoldKind(folds(t, doc.URI), protocol.FoldingRangeKindRegion))
	})

	t.Run("consecutive comments produce a comment fold", func(t *testing.T) {
		src := "; line 1\n; line 2\n; line 3\n{set $x 1}"
		doc := openDoc(s, "file:///test/comments.dta", src)
		comments := filterFoldKind(folds(t, doc.URI), protocol.FoldingRangeKindComment)
		require.Len(t, comments, 1)
		assert.Equal(t, protocol.UInteger(0), comments[0].StartLine)
		assert.Equal(t, protocol.UInteger(2), comments[0].EndLine)
	})

	t.Run("nil doc returns nil", func(t *testing.T) {
		assert.Nil(t, folds(t, "file:///missing.dta"))
	})
}

func TestCommentFoldingRanges(t *testing.T) {
	t.Run("consecutive block", func(t *testing.T) {
		ranges := commentFoldingRanges("; a\n; b\n; c\n(code)")
		require.Len(t, ranges, 1)
		assert.Equal(t, protocol.UInteger(0), ranges[0].StartLine)
		assert.Equal(t, protocol.UInteger(2), ranges[0].EndLine)
	})

	t.Run("two separate blocks", func(t *testing.T) {
		ranges := commentFoldingRanges("; a\n; b\n\n; c\n; d")
		require.Len(t, ranges, 2)
	})

	t.Run("single comment line is not folded", func(t *testing.T) {
		assert.Empty(t, commentFoldingRanges("; just one\n(code)"))
	})

	t.Run("no comments", func(t *testing.T) {
		assert.Empty(t, commentFoldingRanges("{set $x 1}"))
	})

	t.Run("comments at end of file", func(t *testing.T) {
		ranges := commentFoldingRanges("(code)\n; a\n; b")
		require.Len(t, ranges, 1)
		assert.Equal(t, protocol.UInteger(1), ranges[0].StartLine)
		assert.Equal(t, protocol.UInteger(2), ranges[0].EndLine)
	})
}

// filterFoldKind returns only folding ranges with the given kind.
func filterFoldKind(ranges []protocol.FoldingRange, kind protocol.FoldingRangeKind) []protocol.FoldingRange {
	var out []protocol.FoldingRange
	for _, r := range ranges {
		if r.Kind != nil && *r.Kind == string(kind) {
			out = append(out, r)
		}
	}
	return out
}
