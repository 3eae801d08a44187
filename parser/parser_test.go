// Copyright © 2018 The ELPS authors

package parser

import (
	"testing"

	"github.com/luthersystems/dtacheck/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	src := []byte("; header\n{set $x 1} ; trailing\n")
	f := ParseFile("test.dta", src)
	require.True(t, f.OK)
	assert.Empty(t, f.Errors)
	require.Len(t, f.Nodes, 1)
	assert.Equal(t, "{set $x 1}", f.Nodes[0].String())
	assert.Len(t, f.Tokens, 6)
	require.Len(t, f.Comments, 2)
	assert.Equal(t, "; trailing", f.Comments[1].Text)

	loc := f.Location(f.Nodes[0].Span.Start)
	assert.Equal(t, "test.dta:2:1", loc.String())
}

func TestParseFileFatal(t *testing.T) {
	f := ParseFile("bad.dta", []byte("}\n#ifdef A"))
	assert.False(t, f.OK)
	assert.Nil(t, f.Nodes)
	require.Len(t, f.Errors, 1)
	assert.Equal(t, token.Span{Start: 0, End: 1}, f.Errors[0].At)
	// tokens remain available to token level checks
	assert.Equal(t, token.IFDEF, f.Tokens[1].Type)
}
