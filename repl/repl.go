// Copyright © 2018 The ELPS authors

// Package repl implements an interactive checker for .dta statements.
// Lines are accumulated until every delimiter is closed, then the input is
// checked and either its diagnostics or its normalized form are printed.
package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ergochat/readline"

	"github.com/luthersystems/dtacheck/diagnostic"
	"github.com/luthersystems/dtacheck/lint"
	"github.com/luthersystems/dtacheck/parser"
	"github.com/luthersystems/dtacheck/parser/rdparser"
	"github.com/luthersystems/dtacheck/parser/token"
	"github.com/luthersystems/dtacheck/signature"
)

// inputName names REPL input in diagnostics.
const inputName = "<repl>"

type config struct {
	stdin      io.ReadCloser
	stderr     io.WriteCloser
	signatures *signature.Function
	analyzers  []*lint.Analyzer
	color      diagnostic.ColorMode
	history    string
}

func newConfig(opts ...Option) *config {
	config := &config{
		analyzers: lint.DefaultAnalyzers(),
		history:   historyPath(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithSignatures sets the signature table used by the arity check and by
// command completion.
func WithSignatures(sigs *signature.Function) Option {
	return func(c *config) {
		c.signatures = sigs
	}
}

// WithAnalyzers replaces the checks run on each input.
func WithAnalyzers(analyzers []*lint.Analyzer) Option {
	return func(c *config) {
		c.analyzers = analyzers
	}
}

// WithColor sets the color mode of rendered diagnostics.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithHistoryFile sets the readline history file.  An empty path disables
// history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// RunRepl reads statements until end of input.  prompt is shown for a new
// statement and a blank prompt of the same width while a statement is
// continued.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	var stderr io.Writer = os.Stderr
	if cfg.stderr != nil {
		stderr = cfg.stderr
	}
	cont := fmt.Sprintf("%*s", len(prompt), "")

	ensureHistoryFilePermissions(cfg.history)
	rlCfg := &readline.Config{
		Stdout:            stderr,
		Stderr:            stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      &commandCompleter{sigs: cfg.signatures},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	l := &lint.Linter{Analyzers: cfg.analyzers, Signatures: cfg.signatures}
	var buf bytes.Buffer
	for {
		line, err := rl.ReadSlice()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if err != nil {
			// Check whatever is left, complete or not.
			if len(bytes.TrimSpace(buf.Bytes())) > 0 {
				evalInput(stderr, l, cfg.color, buf.Bytes())
			}
			return nil
		}
		buf.Write(line)
		buf.WriteByte('\n')
		f := parser.ParseFile(inputName, buf.Bytes())
		if incomplete(f) {
			rl.SetPrompt(cont)
			continue
		}
		if len(f.Tokens) > 1 {
			printResult(stderr, l, cfg.color, f)
		}
		buf.Reset()
		rl.SetPrompt(prompt)
	}
}

// incomplete reports whether f only lacks closing delimiters.
func incomplete(f *parser.File) bool {
	if len(f.Errors) == 0 {
		return false
	}
	for _, err := range f.Errors {
		if err.Kind != rdparser.ErrUnmatchedDelimiter || err.Found != token.EOF {
			return false
		}
	}
	return true
}

func evalInput(w io.Writer, l *lint.Linter, color diagnostic.ColorMode, src []byte) {
	printResult(w, l, color, parser.ParseFile(inputName, src))
}

// printResult checks f and prints its diagnostics.  Input without
// diagnostics is echoed in normalized form, one top-level node per line.
func printResult(w io.Writer, l *lint.Linter, color diagnostic.ColorMode, f *parser.File) {
	diags, err := l.LintParsed(context.Background(), f)
	if err != nil {
		fmt.Fprintln(w, err) //nolint:errcheck // best-effort error display
		return
	}
	if len(diags) > 0 {
		renderDiagnostics(w, color, f, diags)
		return
	}
	for _, n := range f.Nodes {
		fmt.Fprintln(w, n) //nolint:errcheck // best-effort REPL output
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dtacheck_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //nolint:gosec // path is the user's own history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
