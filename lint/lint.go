// Copyright © 2024 The ELPS authors

// Package lint provides static analysis for dta script files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives a parsed file and reports diagnostics. The framework handles
// parsing, running analyzers, collecting results, and formatting output.
package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/luthersystems/dtacheck/parser"
	"github.com/luthersystems/dtacheck/parser/token"
	"github.com/luthersystems/dtacheck/signature"
)

// TracerName names the tracer used when a Linter has no Tracer.
const TracerName = "github.com/luthersystems/dtacheck/lint"

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Role distinguishes the label that locates a problem from labels that
// provide context.
type Role int

const (
	RolePrimary Role = iota
	RoleSecondary
)

func (r Role) String() string {
	if r == RoleSecondary {
		return "secondary"
	}
	return "primary"
}

// MarshalJSON serializes the role as a JSON string.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON deserializes a role from a JSON string.
func (r *Role) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "primary":
		*r = RolePrimary
	case "secondary":
		*r = RoleSecondary
	default:
		return fmt.Errorf("unknown label role: %q", str)
	}
	return nil
}

// Label attaches a message to a byte range of the source.
type Label struct {
	Role    Role       `json:"role"`
	Span    token.Span `json:"span"`
	Message string     `json:"message,omitempty"`
}

// Primary returns a primary label.
func Primary(span token.Span, msg string) Label {
	return Label{Role: RolePrimary, Span: span, Message: msg}
}

// Secondary returns a secondary label.
func Secondary(span token.Span, msg string) Label {
	return Label{Role: RoleSecondary, Span: span, Message: msg}
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "arity").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// NeedsTree analyzers are skipped when the file could not be parsed.
	NeedsTree bool

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// File is the lexed and parsed source.  File.Nodes is nil when the
	// parse failed.
	File *parser.File

	// Signatures is the function signature table used by arity checks.
	Signatures *signature.Function

	// diagnostics collects reported findings.
	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	if d.Pos.File == "" {
		d.Pos.File = p.Filename
	}
	if d.Pos.Line == 0 && p.File != nil {
		if span, ok := d.PrimarySpan(); ok {
			loc := p.File.Location(span.Start)
			d.Pos.Line = loc.Line
			d.Pos.Col = loc.Col
		}
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf is a convenience for reporting a diagnostic with a single primary
// label.
func (p *Pass) Reportf(span token.Span, label string, format string, args ...interface{}) {
	p.Report(Diagnostic{
		Message: fmt.Sprintf(format, args...),
		Labels:  []Label{Primary(span, label)},
	})
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the first primary label.
	Pos Position `json:"pos"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Labels locate the problem in the source.
	Labels []Label `json:"labels,omitempty"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// PrimarySpan returns the span of the first primary label.
func (d Diagnostic) PrimarySpan() (token.Span, bool) {
	for _, l := range d.Labels {
		if l.Role == RolePrimary {
			return l.Span, true
		}
	}
	return token.Span{}, false
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line: message (analyzer)
// with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over source files.  A Linter may be used
// concurrently.
type Linter struct {
	Analyzers []*Analyzer

	// Signatures is shared read-only by all passes.  A nil table accepts
	// any number of arguments to every command.
	Signatures *signature.Function

	// Logger receives debug timings.  Nil disables logging.
	Logger *slog.Logger

	// Tracer records a span per stage.  Nil uses the global provider.
	Tracer trace.Tracer
}

func (l *Linter) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}

func (l *Linter) tracer() trace.Tracer {
	if l.Tracer == nil {
		return otel.GetTracerProvider().Tracer(TracerName)
	}
	return l.Tracer
}

func (l *Linter) signatures() *signature.Function {
	if l.Signatures == nil {
		return signature.New()
	}
	return l.Signatures
}

// LintFile analyzes a single source file and returns all diagnostics.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	return l.LintFileContext(context.Background(), source, filename)
}

// LintFileContext parses source and analyzes the result.
func (l *Linter) LintFileContext(ctx context.Context, source []byte, filename string) ([]Diagnostic, error) {
	ctx, span := l.tracer().Start(ctx, "lint.file",
		trace.WithAttributes(semconv.CodeFilepath(filename)))
	defer span.End()

	start := time.Now()
	_, pspan := l.tracer().Start(ctx, "lint.parse")
	f := parser.ParseFile(filename, source)
	pspan.SetAttributes(
		attribute.Int("dtacheck.tokens", len(f.Tokens)),
		attribute.Bool("dtacheck.parsed", f.OK),
	)
	pspan.End()
	l.logger().Debug("parsed file",
		"file", filename,
		"tokens", len(f.Tokens),
		"ok", f.OK,
		"elapsed", time.Since(start))

	return l.LintParsed(ctx, f)
}

// LintParsed analyzes a file that has already been parsed.  Diagnostics are
// returned grouped by analyzer in the order of l.Analyzers, each group in
// the order its findings were reported.
func (l *Linter) LintParsed(ctx context.Context, f *parser.File) ([]Diagnostic, error) {
	sigs := l.signatures()
	results := make([][]Diagnostic, len(l.Analyzers))
	g, ctx := errgroup.WithContext(ctx)
	for i, analyzer := range l.Analyzers {
		if analyzer.NeedsTree && !f.OK {
			l.logger().Debug("skipping analyzer", "file", f.Name, "analyzer", analyzer.Name)
			continue
		}
		g.Go(func() error {
			_, span := l.tracer().Start(ctx, "lint.analyzer",
				trace.WithAttributes(attribute.String("dtacheck.analyzer", analyzer.Name)))
			defer span.End()
			start := time.Now()
			pass := &Pass{
				Analyzer:   analyzer,
				Filename:   f.Name,
				File:       f,
				Signatures: sigs,
			}
			if err := analyzer.Run(pass); err != nil {
				span.RecordError(err)
				return fmt.Errorf("%s: analyzer %s: %w", f.Name, analyzer.Name, err)
			}
			span.SetAttributes(attribute.Int("dtacheck.diagnostics", len(pass.diagnostics)))
			l.logger().Debug("ran analyzer",
				"file", f.Name,
				"analyzer", analyzer.Name,
				"diagnostics", len(pass.diagnostics),
				"elapsed", time.Since(start))
			results[i] = pass.diagnostics
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Diagnostic
	for _, diags := range results {
		all = append(all, diags...)
	}

	// Filter suppressed diagnostics (;nolint comments)
	return filterSuppressed(all, f), nil
}

// filterSuppressed removes diagnostics on lines with ;nolint comments.
func filterSuppressed(diags []Diagnostic, f *parser.File) []Diagnostic {
	nolintLines := make(map[int]string) // line -> "" (all) or "analyzer1,analyzer2"
	for _, c := range f.Comments {
		checkNolintToken(c, f.Lines, nolintLines)
	}
	if len(nolintLines) == 0 {
		return diags
	}

	var filtered []Diagnostic
	for _, d := range diags {
		directive, ok := nolintLines[d.Pos.Line]
		if !ok {
			filtered = append(filtered, d)
			continue
		}
		// Empty directive = suppress all
		if directive == "" {
			continue
		}
		suppressed := false
		for _, name := range strings.Split(directive, ",") {
			if strings.TrimSpace(name) == d.Analyzer {
				suppressed = true
				break
			}
		}
		if !suppressed {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func checkNolintToken(tok token.Token, lines *token.LineIndex, nolint map[int]string) {
	text := strings.TrimLeft(tok.Text, ";")
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "nolint") {
		return
	}
	line := lines.Location(tok.Span.Start).Line
	rest := strings.TrimPrefix(text, "nolint")
	if rest == "" {
		nolint[line] = ""
		return
	}
	if strings.HasPrefix(rest, ":") {
		nolint[line] = strings.TrimPrefix(rest, ":")
	}
}

// HasErrors reports whether any diagnostic has error severity, or any
// severity at all when strict.
func HasErrors(diags []Diagnostic, strict bool) bool {
	for _, d := range diags {
		if strict || d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}
