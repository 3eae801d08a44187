// Copyright © 2024 The ELPS authors

package repl

import (
	"io"

	"github.com/luthersystems/dtacheck/diagnostic"
	"github.com/luthersystems/dtacheck/lint"
	"github.com/luthersystems/dtacheck/parser"
)

// renderDiagnostics renders diagnostics found in REPL input with annotated
// snippets of that input.
func renderDiagnostics(w io.Writer, color diagnostic.ColorMode, f *parser.File, diags []lint.Diagnostic) {
	ds := make([]diagnostic.Diagnostic, len(diags))
	for i, d := range diags {
		ds[i] = lint.RenderDiagnostic(d, f.Lines)
	}
	r := &diagnostic.Renderer{
		Color:        color,
		SourceReader: diagnostic.MapSource(map[string][]byte{f.Name: f.Source}),
	}
	_ = r.RenderAll(w, ds)
}
