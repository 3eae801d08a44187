// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/dtacheck/lint"
	"github.com/luthersystems/dtacheck/parser/rdparser"
	"github.com/luthersystems/dtacheck/parser/token"
	"github.com/luthersystems/dtacheck/signature"
)

// textDocumentHover describes the signature of the command under the
// cursor.  The cursor must be on one of the words of a command path found
// in the signature table.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil || s.linter.Signatures == nil {
		return nil, nil
	}
	doc.mu.Lock()
	f := doc.file
	offset := positionToOffset(doc.Content, params.Position)
	doc.mu.Unlock()

	stmt := innermostStmt(f.Nodes, offset)
	if stmt == nil {
		return nil, nil
	}
	words := lint.LeadingSymbols(stmt)
	fn, depth := s.linter.Signatures.Lookup(words)
	if depth == 0 {
		return nil, nil
	}
	first, last := stmt.Children[0], stmt.Children[depth-1]
	if offset < first.Span.Start || offset > last.Span.End {
		return nil, nil
	}
	rng := spanToRange(f.Lines, token.Span{Start: first.Span.Start, End: last.Span.End})
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hoverContent(words[:depth], fn),
		},
		Range: &rng,
	}, nil
}

func hoverContent(path []string, fn *signature.Function) string {
	return fmt.Sprintf("**command** `%s`\n\n%s", strings.Join(path, " "), fn.Describe())
}

// innermostStmt returns the deepest statement containing offset.
func innermostStmt(nodes []*rdparser.Node, offset int) *rdparser.Node {
	var found *rdparser.Node
	rdparser.Walk(nodes, func(n *rdparser.Node) bool {
		if offset < n.Span.Start || offset > n.Span.End {
			return false
		}
		if n.Kind == rdparser.KindStmt {
			found = n
		}
		return true
	})
	return found
}
