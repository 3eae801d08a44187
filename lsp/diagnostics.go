// Copyright © 2024 The ELPS authors

package lsp

import (
	"context"
	"strings"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/dtacheck/lint"
	"github.com/luthersystems/dtacheck/parser/token"
)

const debounceDelay = 300 * time.Millisecond

const diagnosticSource = "dtacheck"

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.analyzeAndPublish(doc)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	// Debounce: delay analysis to avoid thrashing during rapid edits.
	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		if d := s.docs.Get(doc.URI); d != nil {
			s.analyzeAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.analyzeAndPublish(doc)
	}
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// analyzeAndPublish lints a document and publishes the resulting
// diagnostics to the client.
func (s *Server) analyzeAndPublish(doc *Document) {
	f := doc.snapshot()
	diags, err := s.linter.LintParsed(context.Background(), f)
	if err != nil {
		s.logger.Warn("lint failed", "uri", doc.URI, "error", err)
		return
	}
	published := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		published = append(published, convertDiagnostic(doc.URI, f.Lines, d))
	}
	s.logger.Debug("publishing diagnostics", "uri", doc.URI, "count", len(published))
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: published,
	})
}

// convertDiagnostic converts a lint.Diagnostic to an LSP Diagnostic.  The
// primary label gives the range; secondary labels become related
// information and notes are appended to the message.
func convertDiagnostic(uri string, lines *token.LineIndex, d lint.Diagnostic) protocol.Diagnostic {
	var rng protocol.Range
	if span, ok := d.PrimarySpan(); ok {
		rng = spanToRange(lines, span)
	} else {
		start := protocol.Position{Line: safeUint(d.Pos.Line - 1), Character: safeUint(d.Pos.Col - 1)}
		rng = protocol.Range{Start: start, End: start}
	}
	var related []protocol.DiagnosticRelatedInformation
	for _, l := range d.Labels {
		if l.Role != lint.RoleSecondary {
			continue
		}
		related = append(related, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{URI: uri, Range: spanToRange(lines, l.Span)},
			Message:  l.Message,
		})
	}
	msg := d.Message
	if len(d.Notes) > 0 {
		msg += "\nnote: " + strings.Join(d.Notes, "\nnote: ")
	}
	sev := mapLintSeverity(d.Severity)
	return protocol.Diagnostic{
		Range:              rng,
		Severity:           &sev,
		Source:             strPtr(diagnosticSource),
		Code:               &protocol.IntegerOrString{Value: d.Analyzer},
		Message:            msg,
		RelatedInformation: related,
	}
}

// mapLintSeverity converts a lint.Severity to a protocol.DiagnosticSeverity.
func mapLintSeverity(sev lint.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return protocol.DiagnosticSeverityError
	case lint.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

func strPtr(s string) *string {
	return &s
}
