// Copyright © 2024 The ELPS authors

// Package diagnostic provides Rust-style annotated rendering of lint
// diagnostics for terminal output.  It does not depend on the lint package
// so that any command can render messages without an import cycle.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
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

// Span identifies a region of source code to highlight in the diagnostic.
// The first primary span locates the diagnostic; secondary spans add
// context and are underlined with '-' instead of '^'.
type Span struct {
	File      string // path for reading source; display name if unreadable
	Line      int    // 1-based line number
	Col       int    // 1-based start column, in runes
	EndCol    int    // 1-based inclusive end column (0 = auto-detect from source)
	Label     string // text shown under the underline
	Secondary bool
}

// Diagnostic represents a single error or warning with optional source
// annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     string // analyzer name shown as error[code]
	Spans    []Span
	Notes    []string // "= note:" lines
}
