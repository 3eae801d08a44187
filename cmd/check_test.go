// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSignatures = `# test table
set 1 1
with game 1 3
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func checkTestOptions(sigs string) checkOptions {
	return checkOptions{Signatures: sigs, Color: "never", Jobs: 2}
}

func TestRunCheckClean(t *testing.T) {
	dir := t.TempDir()
	sigs := writeFile(t, dir, "funcs", testSignatures)
	path := writeFile(t, dir, "ok.dta", "{set $x}\n(song (name \"a\"))\n")

	var stdout, stderr bytes.Buffer
	code := runCheck(context.Background(), checkTestOptions(sigs), []string{path}, nil, &stdout, &stderr)
	assert.Equal(t, exitClean, code)
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunCheckFindings(t *testing.T) {
	dir := t.TempDir()
	sigs := writeFile(t, dir, "funcs", testSignatures)
	path := writeFile(t, dir, "bad.dta", "{set $x 1}\n")

	var stdout, stderr bytes.Buffer
	code := runCheck(context.Background(), checkTestOptions(sigs), []string{path}, nil, &stdout, &stderr)
	assert.Equal(t, exitFindings, code)
	assert.Contains(t, stderr.String(), "error[arity]: calling `set` with too many arguments")
	assert.Contains(t, stderr.String(), "{set $x 1}")
}

func TestRunCheckShort(t *testing.T) {
	dir := t.TempDir()
	sigs := writeFile(t, dir, "funcs", testSignatures)
	path := writeFile(t, dir, "bad.dta", "\n{set}\n")

	opts := checkTestOptions(sigs)
	opts.Short = true
	var stdout, stderr bytes.Buffer
	code := runCheck(context.Background(), opts, []string{path}, nil, &stdout, &stderr)
	assert.Equal(t, exitFindings, code)
	assert.Equal(t, path+":2:1: calling `set` with too few arguments (arity)\n", stderr.String())
}

func TestRunCheckJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.dta", "{a (b c}\n")

	opts := checkTestOptions("")
	opts.JSON = true
	var stdout, stderr bytes.Buffer
	code := runCheck(context.Background(), opts, []string{path}, nil, &stdout, &stderr)
	assert.Equal(t, exitFindings, code)

	var diags []struct {
		Pos struct {
			File string `json:"file"`
			Line int    `json:"line"`
		} `json:"pos"`
		Analyzer string `json:"analyzer"`
		Severity string `json:"severity"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &diags))
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, path, d.Pos.File)
		assert.Equal(t, 1, d.Pos.Line)
		assert.Equal(t, "syntax", d.Analyzer)
		assert.Equal(t, "error", d.Severity)
	}
}

func TestRunCheckJSONClean(t *testing.T) {
	opts := checkTestOptions("")
	opts.JSON = true
	var stdout, stderr bytes.Buffer
	code := runCheck(context.Background(), opts, nil, strings.NewReader("{a b}\n"), &stdout, &stderr)
	assert.Equal(t, exitClean, code)
	assert.Equal(t, "[]\n", stdout.String())
}

func TestRunCheckStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runCheck(context.Background(), checkTestOptions(""), nil, strings.NewReader("#ifdef A\n{a}\n"), &stdout, &stderr)
	assert.Equal(t, exitFindings, code)
	assert.Contains(t, stderr.String(), "<stdin>:1:1")
}

func TestRunCheckStrict(t *testing.T) {
	src := "{switch $x (1 {a})}\n"
	var stdout, stderr bytes.Buffer
	code := runCheck(context.Background(), checkTestOptions(""), nil, strings.NewReader(src), &stdout, &stderr)
	assert.Equal(t, exitClean, code)
	assert.Contains(t, stderr.String(), "warning[switch-fallthrough]")

	opts := checkTestOptions("")
	opts.Strict = true
	stderr.Reset()
	code = runCheck(context.Background(), opts, nil, strings.NewReader(src), &stdout, &stderr)
	assert.Equal(t, exitFindings, code)
}

func TestRunCheckSelectedChecks(t *testing.T) {
	opts := checkTestOptions("")
	opts.Checks = []string{"preprocessor-balance"}
	var stdout, stderr bytes.Buffer
	code := runCheck(context.Background(), opts, nil, strings.NewReader("{switch $x (1 {a})}\n"), &stdout, &stderr)
	assert.Equal(t, exitClean, code)
	assert.Empty(t, stderr.String())
}

func TestRunCheckList(t *testing.T) {
	opts := checkOptions{List: true}
	var stdout, stderr bytes.Buffer
	code := runCheck(context.Background(), opts, nil, nil, &stdout, &stderr)
	assert.Equal(t, exitClean, code)
	names := strings.Fields(stdout.String())
	assert.Contains(t, names, "syntax")
	assert.Contains(t, names, "arity")
	assert.Contains(t, names, "preprocessor-balance")
	assert.Contains(t, names, "switch-fallthrough")
}

func TestRunCheckUsageErrors(t *testing.T) {
	dir := t.TempDir()
	badSigs := writeFile(t, dir, "funcs", "set one 1\n")
	path := writeFile(t, dir, "ok.dta", "{set $x}\n")

	tests := []struct {
		name string
		opts checkOptions
		args []string
		want string
	}{
		{"bad signature table", checkTestOptions(badSigs), []string{path}, "signature table"},
		{"missing signature table", checkTestOptions(filepath.Join(dir, "nope")), []string{path}, "signature table"},
		{"unknown check", checkOptions{Checks: []string{"nope"}, Color: "never"}, []string{path}, "nope"},
		{"bad color", checkOptions{Color: "purple"}, []string{path}, "purple"},
		{"missing file", checkTestOptions(""), []string{filepath.Join(dir, "missing.dta")}, "missing.dta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := runCheck(context.Background(), tt.opts, tt.args, nil, &stdout, &stderr)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestRunCheckRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.dta", "{a}\n")
	writeFile(t, dir, "sub/b.dta", "{b\n")
	writeFile(t, dir, "build/c.dta", "{c\n")

	opts := checkTestOptions("")
	opts.Short = true
	opts.Excludes = []string{"build"}
	var stdout, stderr bytes.Buffer
	code := runCheck(context.Background(), opts, []string{dir + "/..."}, nil, &stdout, &stderr)
	assert.Equal(t, exitFindings, code)
	assert.Contains(t, stderr.String(), filepath.Join("sub", "b.dta"))
	assert.NotContains(t, stderr.String(), "c.dta")
}
