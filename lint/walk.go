// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/luthersystems/dtacheck/parser/rdparser"
)

// WalkStmts calls fn for every `{...}` statement in the tree, depth-first,
// outer statements before the statements they contain.  Statements nested
// in arrays, properties and #define bodies are visited.
func WalkStmts(nodes []*rdparser.Node, fn func(stmt *rdparser.Node)) {
	rdparser.Walk(nodes, func(n *rdparser.Node) bool {
		if n.Kind == rdparser.KindStmt {
			fn(n)
		}
		return true
	})
}

// HasDirective reports whether any immediate child of n is a preprocessor
// directive.
func HasDirective(n *rdparser.Node) bool {
	for _, child := range n.Children {
		if child.IsPreprocessor() {
			return true
		}
	}
	return false
}

// LeadingSymbols returns the text of the symbols at the head of n, stopping
// at the first child that is not a symbol.
func LeadingSymbols(n *rdparser.Node) []string {
	var words []string
	for _, child := range n.Children {
		if child.Kind != rdparser.KindSymbol {
			break
		}
		words = append(words, child.Text)
	}
	return words
}

// AnalyzerNames returns the names of the built-in analyzers, sorted.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// SelectAnalyzers returns the built-in analyzers named in names, keeping
// the reporting order of DefaultAnalyzers.  An empty names selects all of
// them.
func SelectAnalyzers(names []string) ([]*Analyzer, error) {
	analyzers := DefaultAnalyzers()
	if len(names) == 0 {
		return analyzers, nil
	}
	selected := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			selected[name] = true
		}
	}
	var filtered []*Analyzer
	for _, a := range analyzers {
		if selected[a.Name] {
			filtered = append(filtered, a)
			delete(selected, a.Name)
		}
	}
	if len(selected) > 0 {
		var unknown []string
		for name := range selected {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown check: %s", strings.Join(unknown, ", "))
	}
	return filtered, nil
}

// AnalyzerDoc returns a formatted documentation string for all analyzers.
// When long is true the full description of each analyzer is included,
// wrapped to width columns.
func AnalyzerDoc(long bool, width int) string {
	if width < 24 {
		width = 24
	}
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s (%s)\n", a.Name, a.Severity)
		doc := a.Doc
		if !long {
			doc, _, _ = strings.Cut(doc, "\n")
		}
		fmt.Fprintf(&b, "%s\n\n", indent.String(wordwrap.String(doc, width-4), 4))
	}
	return b.String()
}
