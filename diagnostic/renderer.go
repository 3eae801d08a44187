// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// Renderer formats diagnostics as Rust-style annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// MapSource returns a SourceReader serving the given in-memory files.
func MapSource(files map[string][]byte) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		src, ok := files[name]
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
		}
		return src, nil
	}
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	// Header: "error[code]: message" or "warning[code]: message"
	r.writeHeader(ew, d, p)

	// Source spans
	for _, span := range d.Spans {
		r.writeSpan(ew, d.Severity, span, p)
	}

	// Notes
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes. This avoids checking every fmt.Fprintf return value.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func severityColor(sev Severity, p palette) string {
	if sev == SeverityWarning {
		return p.yellow
	}
	return p.boldRed
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	sevText := d.Severity.String()
	if d.Code != "" {
		sevText += "[" + d.Code + "]"
	}
	ew.printf("%s%s%s%s:%s %s%s%s\n",
		severityColor(d.Severity, p), p.bold, sevText, p.reset,
		p.reset,
		p.bold, d.Message, p.reset)
}

func (r *Renderer) writeSpan(ew *errWriter, sev Severity, span Span, p palette) {
	// Location line: "  --> file:line:col"
	loc := span.File
	if span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", span.File, span.Line)
		if span.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	// Try to read and display the source line
	source := r.readSourceLine(span.File, span.Line)
	if source == "" {
		// No source available, just show the location line with a gutter
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	lineStr := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(lineStr))

	// Empty gutter line
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)

	// Source line with line number
	// Replace tabs with spaces for consistent alignment
	displaySource := strings.ReplaceAll(source, "\t", "    ")
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, lineStr, p.reset, displaySource)

	// Underline
	col := span.Col
	endCol := span.EndCol
	if col <= 0 {
		col = 1
	}
	if endCol <= 0 {
		endCol = r.detectEndCol(source, col)
	}
	if endCol < col {
		endCol = col
	}

	// Account for tab expansion in positioning
	displayCol := displayWidth(runePrefix(source, col-1))
	underLen := displayWidth(runeRange(source, col-1, endCol))
	if underLen < 1 {
		underLen = 1
	}

	mark, color := "^", severityColor(sev, p)
	if span.Secondary {
		mark, color = "-", p.boldBlue
	}
	underPad := strings.Repeat(" ", displayCol)
	underline := strings.Repeat(mark, underLen)

	ew.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, pad, p.reset, underPad, color, underline, p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", color, span.Label, p.reset)
	}
	ew.print("\n")

	// Trailing gutter
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) readSourceLine(file string, line int) string {
	if line <= 0 || file == "" {
		return ""
	}
	reader := r.SourceReader
	if reader == nil {
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(file)
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return strings.TrimSuffix(scanner.Text(), "\r")
		}
	}
	return ""
}

// detectEndCol scans from col to find the end of the current word.
func (r *Renderer) detectEndCol(source string, col int) int {
	rest := runeSuffix(source, col-1)
	if rest == "" {
		return col
	}
	n := 0
	for _, ch := range rest {
		if ch == ' ' || ch == '\t' || strings.ContainsRune("()[]{}", ch) {
			break
		}
		n++
	}
	if n == 0 {
		return col // single character
	}
	return col + n - 1
}

// runePrefix returns the first n runes of s.
func runePrefix(s string, n int) string {
	return runeRange(s, 0, n)
}

// runeSuffix returns s without its first n runes.
func runeSuffix(s string, n int) string {
	return s[len(runePrefix(s, n)):]
}

// runeRange returns runes [i, j) of s, clamped to its length.
func runeRange(s string, i, j int) string {
	start, end := len(s), len(s)
	k := 0
	for off := range s {
		if k == i {
			start = off
		}
		if k == j {
			end = off
			break
		}
		k++
	}
	if start > end {
		return ""
	}
	return s[start:end]
}

// displayWidth returns the display width of a string, expanding tabs to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
