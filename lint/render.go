// Copyright © 2024 The ELPS authors

package lint

import (
	"unicode/utf8"

	"github.com/luthersystems/dtacheck/diagnostic"
	"github.com/luthersystems/dtacheck/parser/token"
)

// RenderDiagnostic converts d to the renderer's line and column model using
// the line index of the file it was reported in.  A label spanning several
// lines is underlined to the end of its first line.
func RenderDiagnostic(d Diagnostic, lines *token.LineIndex) diagnostic.Diagnostic {
	rd := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  d.Message,
		Code:     d.Analyzer,
		Notes:    d.Notes,
	}
	if d.Severity != SeverityError {
		rd.Severity = diagnostic.SeverityWarning
	}
	for _, l := range d.Labels {
		rd.Spans = append(rd.Spans, renderSpan(d.Pos.File, l, lines))
	}
	if len(rd.Spans) == 0 && d.Pos.Line > 0 {
		rd.Spans = append(rd.Spans, diagnostic.Span{
			File: d.Pos.File,
			Line: d.Pos.Line,
			Col:  d.Pos.Col,
		})
	}
	return rd
}

func renderSpan(file string, l Label, lines *token.LineIndex) diagnostic.Span {
	start := lines.Location(l.Span.Start)
	span := diagnostic.Span{
		File:      file,
		Line:      start.Line,
		Col:       start.Col,
		EndCol:    start.Col,
		Label:     l.Message,
		Secondary: l.Role == RoleSecondary,
	}
	if l.Span.Empty() {
		return span
	}
	end := lines.Location(l.Span.End - 1)
	if end.Line == start.Line {
		span.EndCol = end.Col
	} else {
		span.EndCol = utf8.RuneCountInString(lines.LineText(start.Line))
	}
	return span
}
