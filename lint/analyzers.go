// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"
	"strings"

	"github.com/luthersystems/dtacheck/parser/rdparser"
	"github.com/luthersystems/dtacheck/parser/token"
)

// AnalyzerSyntax reports the errors found while parsing the file.
var AnalyzerSyntax = &Analyzer{
	Name:     "syntax",
	Doc:      "Report unmatched delimiters and unexpected tokens.\n\nAn unmatched delimiter is recovered from: the list it opens is closed at the mismatched closing delimiter or at the end of the file. Any other unexpected token stops parsing, and checks that need the parsed tree are skipped.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		for _, err := range pass.File.Errors {
			pass.Report(syntaxDiagnostic(err))
		}
		return nil
	},
}

func syntaxDiagnostic(err *rdparser.Error) Diagnostic {
	switch err.Kind {
	case rdparser.ErrUnmatchedDelimiter:
		closer := "unexpected token"
		if err.Found == token.EOF {
			closer = "end of file"
		}
		return Diagnostic{
			Message: "unmatched delimiter",
			Labels: []Label{
				Primary(err.Open, "unmatched delimiter"),
				Secondary(err.At, closer),
			},
		}
	default:
		return Diagnostic{
			Message: "unexpected token",
			Labels:  []Label{Primary(err.At, "unexpected token")},
		}
	}
}

// AnalyzerArity checks the number of arguments passed to commands against
// the signature table.
var AnalyzerArity = &Analyzer{
	Name:      "arity",
	Doc:       "Check the number of arguments passed to commands.\n\nThe leading symbols of a `{...}` statement are matched against the function signature table, longest command path first. The statement is flagged when its length is outside the bounds of the matched command plus the number of words in its path. Statements containing a preprocessor directive are skipped because their length depends on how the directive is resolved.",
	Severity:  SeverityError,
	NeedsTree: true,
	Run: func(pass *Pass) error {
		WalkStmts(pass.File.Nodes, func(stmt *rdparser.Node) {
			if HasDirective(stmt) {
				return
			}
			words := LeadingSymbols(stmt)
			fn, depth := pass.Signatures.Lookup(words)
			name := strings.Join(words[:depth], " ")
			// the path words are children, so argc >= 0
			argc := len(stmt.Children) - depth
			switch {
			case argc > fn.MaxArgs:
				pass.Reportf(stmt.Span, "too many arguments", "calling `%s` with too many arguments", name)
			case argc < fn.MinArgs:
				pass.Reportf(stmt.Span, "not enough arguments", "calling `%s` with too few arguments", name)
			}
		})
		return nil
	},
}

// AnalyzerPreprocessorBalance checks that conditional directives are
// balanced.
var AnalyzerPreprocessorBalance = &Analyzer{
	Name:     "preprocessor-balance",
	Doc:      "Check that `#ifdef`/`#ifndef` blocks are balanced.\n\nEvery `#ifdef` or `#ifndef` must be closed by `#endif` and may contain at most one `#else`. The check scans tokens, so it runs even when the file cannot be parsed.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		type frame struct {
			open token.Token
			els  bool
		}
		var stack []frame
		pop := func() (frame, bool) {
			if len(stack) == 0 {
				return frame{}, false
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			return top, true
		}
		for _, tok := range pass.File.Tokens {
			switch tok.Type {
			case token.IFDEF, token.IFNDEF:
				stack = append(stack, frame{open: tok})
			case token.ELSE:
				top, ok := pop()
				if !ok || top.els {
					pass.Reportf(tok.Span, "extraneous `#else`", "extraneous `#else`")
				}
				if !ok {
					top.open = tok
				}
				stack = append(stack, frame{open: top.open, els: true})
			case token.ENDIF:
				if _, ok := pop(); !ok {
					pass.Reportf(tok.Span, "extraneous `#endif`", "extraneous `#endif`")
				}
			}
		}
		for _, f := range stack {
			if f.open.Type == token.ELSE {
				// already reported as extraneous
				continue
			}
			msg := fmt.Sprintf("unmatched `%s`", f.open.Type)
			pass.Report(Diagnostic{
				Message: msg,
				Labels:  []Label{Primary(f.open.Span, msg)},
				Notes:   []string{"add a matching `#endif`"},
			})
		}
		return nil
	},
}

// AnalyzerSwitchFallthrough flags switch statements that appear to be
// missing a fallthrough case.
var AnalyzerSwitchFallthrough = &Analyzer{
	Name:      "switch-fallthrough",
	Doc:       "Warn when a `switch` statement ends in a case instead of a fallthrough.\n\nA `{switch ...}` statement whose last element is a `(...)` case has no default branch. This is a heuristic and may be wrong in both directions.",
	Severity:  SeverityWarning,
	NeedsTree: true,
	Run: func(pass *Pass) error {
		WalkStmts(pass.File.Nodes, func(stmt *rdparser.Node) {
			n := len(stmt.Children)
			if n == 0 || !stmt.Children[0].IsSymbol("switch") {
				return
			}
			if stmt.Children[n-1].Kind != rdparser.KindArray {
				return
			}
			end := stmt.Span.End - 1
			pass.Report(Diagnostic{
				Message: "missing fallthrough for switch",
				Labels: []Label{
					Primary(stmt.Span, ""),
					Secondary(token.Span{Start: end, End: end}, "consider adding a fallthrough node here"),
				},
			})
		})
		return nil
	},
}

// DefaultAnalyzers returns the built-in set of lint checks in reporting
// order.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerSyntax,
		AnalyzerArity,
		AnalyzerPreprocessorBalance,
		AnalyzerSwitchFallthrough,
	}
}
