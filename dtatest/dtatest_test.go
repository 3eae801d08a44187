// Copyright © 2024 The ELPS authors

package dtatest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/dtacheck/lint"
	"github.com/luthersystems/dtacheck/parser"
)

func TestExpectations(t *testing.T) {
	src := "{set} ; want \"too few\"\n" +
		"; just a comment\n" +
		"{print} ; want \"a\" \"b\\\"c\"\n"
	exps, err := Expectations(parser.ParseFile("t.dta", []byte(src)))
	require.NoError(t, err)
	require.Len(t, exps, 3)
	assert.Equal(t, 1, exps[0].Line)
	assert.Equal(t, "too few", exps[0].Pattern.String())
	assert.Equal(t, 3, exps[1].Line)
	assert.Equal(t, "a", exps[1].Pattern.String())
	assert.Equal(t, `b"c`, exps[2].Pattern.String())
}

func TestExpectationsErrors(t *testing.T) {
	for _, src := range []string{
		"{set} ; want too few\n",
		"{set} ; want \"(\"\n",
	} {
		_, err := Expectations(parser.ParseFile("t.dta", []byte(src)))
		assert.Error(t, err, src)
	}
}

func TestCheck(t *testing.T) {
	src := "{set} ; want \"too few\"\n{print} ; want \"missing\"\n"
	exps, err := Expectations(parser.ParseFile("t.dta", []byte(src)))
	require.NoError(t, err)
	diags := []lint.Diagnostic{
		{Pos: lint.Position{File: "t.dta", Line: 1, Col: 1}, Message: "calling `set` with too few arguments", Analyzer: "arity"},
		{Pos: lint.Position{File: "t.dta", Line: 3, Col: 1}, Message: "surprise", Analyzer: "syntax"},
	}
	problems := Check("t.dta", exps, diags)
	assert.Equal(t, []string{
		"t.dta:3:1: unexpected diagnostic: surprise [syntax]",
		`t.dta:2: no diagnostic matching "missing"`,
	}, problems)
}

func TestCheckOneDiagnosticPerExpectation(t *testing.T) {
	src := "{set} {set} ; want \"too few\"\n"
	exps, err := Expectations(parser.ParseFile("t.dta", []byte(src)))
	require.NoError(t, err)
	d := lint.Diagnostic{Pos: lint.Position{File: "t.dta", Line: 1}, Message: "too few", Analyzer: "arity"}
	problems := Check("t.dta", exps, []lint.Diagnostic{d, d})
	assert.Equal(t, []string{"t.dta:1: unexpected diagnostic: too few [arity]"}, problems)
}
