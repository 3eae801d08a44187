// Copyright © 2018 The ELPS authors

// Package dtatest runs lint checks over annotated .dta fixture files.
//
// A fixture states the diagnostics it expects in comments:
//
//	{set} ; want "too few arguments"
//
// Each quoted string after "want" is a regular expression that must match
// the message of a diagnostic positioned on the comment's line.  Every
// diagnostic reported for the fixture must be matched by an expectation.
package dtatest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/luthersystems/dtacheck/lint"
	"github.com/luthersystems/dtacheck/parser"
	"github.com/luthersystems/dtacheck/signature"
)

// Ext is the extension of fixture files.
const Ext = ".dta"

// Runner is a fixture test runner.
type Runner struct {
	// Analyzers are the checks run on each fixture.  When Analyzers is nil
	// lint.DefaultAnalyzers is used.
	Analyzers []*lint.Analyzer

	// Signatures is the signature table given to the arity check.
	Signatures *signature.Function
}

func (r *Runner) linter(log *Logger) *lint.Linter {
	analyzers := r.Analyzers
	if analyzers == nil {
		analyzers = lint.DefaultAnalyzers()
	}
	l := &lint.Linter{
		Analyzers:  analyzers,
		Signatures: r.Signatures,
	}
	if log != nil {
		l.Logger = NewSlogger(log)
	}
	return l
}

// Expectation is a diagnostic expected on a line of a fixture.
type Expectation struct {
	Line    int
	Pattern *regexp.Regexp
}

var wantString = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)

// Expectations collects the expectations stated in the comments of f.
func Expectations(f *parser.File) ([]*Expectation, error) {
	var exps []*Expectation
	for _, c := range f.Comments {
		text := strings.TrimSpace(strings.TrimLeft(c.Text, ";"))
		rest, ok := strings.CutPrefix(text, "want ")
		if !ok {
			continue
		}
		line := f.Location(c.Span.Start).Line
		quoted := wantString.FindAllString(rest, -1)
		if len(quoted) == 0 {
			return nil, fmt.Errorf("%s:%d: want without a quoted pattern", f.Name, line)
		}
		for _, q := range quoted {
			s, err := strconv.Unquote(q)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", f.Name, line, err)
			}
			re, err := regexp.Compile(s)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", f.Name, line, err)
			}
			exps = append(exps, &Expectation{Line: line, Pattern: re})
		}
	}
	return exps, nil
}

// Check matches diags against exps and returns a description of each
// unexpected diagnostic and each unmet expectation.
func Check(name string, exps []*Expectation, diags []lint.Diagnostic) []string {
	met := make([]bool, len(exps))
	var problems []string
	for _, d := range diags {
		found := false
		for i, exp := range exps {
			if !met[i] && exp.Line == d.Pos.Line && exp.Pattern.MatchString(d.Message) {
				met[i] = true
				found = true
				break
			}
		}
		if !found {
			problems = append(problems, fmt.Sprintf("%s: unexpected diagnostic: %s [%s]", d.Pos, d.Message, d.Analyzer))
		}
	}
	for i, exp := range exps {
		if !met[i] {
			problems = append(problems, fmt.Sprintf("%s:%d: no diagnostic matching %q", name, exp.Line, exp.Pattern))
		}
	}
	return problems
}

// RunTestFile lints the fixture at path and reports each mismatch between
// its diagnostics and its expectations as a test error.
func (r *Runner) RunTestFile(t *testing.T, path string) {
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Errorf("Unable to read test file: %v", err)
		return
	}
	log := NewLogger(t)
	defer log.Flush()

	f := parser.ParseFile(filepath.Base(path), source)
	exps, err := Expectations(f)
	if err != nil {
		t.Error(err)
		return
	}
	diags, err := r.linter(log).LintParsed(context.Background(), f)
	if err != nil {
		t.Error(err)
		return
	}
	for _, problem := range Check(f.Name, exps, diags) {
		t.Error(problem)
	}
}

// RunTestDir runs every fixture in dir as a subtest named after the file.
func (r *Runner) RunTestDir(t *testing.T, dir string) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+Ext))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("no %s fixtures in %s", Ext, dir)
	}
	sort.Strings(paths)
	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), Ext), func(t *testing.T) {
			r.RunTestFile(t, path)
		})
	}
}

// RunBenchmarkFile benchmarks linting the fixture at path.
func (r *Runner) RunBenchmarkFile(b *testing.B, path string) {
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		b.Fatalf("Unable to read source file %v: %v", path, err)
	}
	l := r.linter(nil)
	b.SetBytes(int64(len(source)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := l.LintFile(source, filepath.Base(path)); err != nil {
			b.Fatalf("lint failure: %v", err)
		}
	}
}
