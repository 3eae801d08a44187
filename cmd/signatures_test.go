// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunSignaturesDump(t *testing.T) {
	path := writeFile(t, t.TempDir(), "funcs", testSignatures+"print 0 4\n")
	var stdout, stderr bytes.Buffer
	code := runSignatures(path, nil, &stdout, &stderr)
	assert.Equal(t, exitClean, code)
	assert.Equal(t, "print 0 4\nset 1 1\nwith game 1 3\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunSignaturesLookup(t *testing.T) {
	path := writeFile(t, t.TempDir(), "funcs", testSignatures)
	tests := []struct {
		args []string
		code int
		want string
	}{
		{[]string{"set"}, exitClean, "set: exactly 1 arguments\n"},
		{[]string{"with", "game"}, exitClean, "with game: 1 to 3 arguments\n"},
		{[]string{"with", "game", "extra"}, exitClean, "with game: 1 to 3 arguments\n"},
		{[]string{"print"}, exitFindings, "print: not in table, any number of arguments\n"},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		code := runSignatures(path, tt.args, &stdout, &stderr)
		assert.Equal(t, tt.code, code, tt.args)
		assert.Equal(t, tt.want, stdout.String(), tt.args)
	}
}

func TestRunSignaturesNoTable(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runSignatures("", nil, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "--signatures")
}
