// Copyright © 2018 The ELPS authors

package lexer

import (
	"reflect"
	"testing"

	"github.com/luthersystems/dtacheck/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []token.Token
	}{
		{``, []token.Token{
			testToken(token.EOF, ""),
		}},
		{`abc`, []token.Token{
			testToken(token.SYMBOL, "abc"),
			testToken(token.EOF, ""),
		}},
		{`()[]{}`, []token.Token{
			testToken(token.PAREN_L, "("),
			testToken(token.PAREN_R, ")"),
			testToken(token.BRACKET_L, "["),
			testToken(token.BRACKET_R, "]"),
			testToken(token.BRACE_L, "{"),
			testToken(token.BRACE_R, "}"),
			testToken(token.EOF, ""),
		}},
		{`{set $x 10}`, []token.Token{
			testToken(token.BRACE_L, "{"),
			testToken(token.SYMBOL, "set"),
			testToken(token.VAR, "x"),
			testInt("10", 10),
			testToken(token.BRACE_R, "}"),
			testToken(token.EOF, ""),
		}},
		{`10 -5 +7 0.5 -1.25 1. .5 1e5 12abc`, []token.Token{
			testInt("10", 10),
			testInt("-5", -5),
			testInt("+7", 7),
			testFloat("0.5", 0.5),
			testFloat("-1.25", -1.25),
			testToken(token.SYMBOL, "1."),
			testToken(token.SYMBOL, ".5"),
			testToken(token.SYMBOL, "1e5"),
			testToken(token.SYMBOL, "12abc"),
			testToken(token.EOF, ""),
		}},
		{`2147483647 2147483648 -2147483648`, []token.Token{
			testInt("2147483647", 2147483647),
			testToken(token.SYMBOL, "2147483648"),
			testInt("-2147483648", -2147483648),
			testToken(token.EOF, ""),
		}},
		{`#ifdef HX_XBOX #ifndef X #else #endif #define #include #merge #autorun #undef kDataUnhandled`, []token.Token{
			testToken(token.IFDEF, "#ifdef"),
			testToken(token.SYMBOL, "HX_XBOX"),
			testToken(token.IFNDEF, "#ifndef"),
			testToken(token.SYMBOL, "X"),
			testToken(token.ELSE, "#else"),
			testToken(token.ENDIF, "#endif"),
			testToken(token.DEFINE, "#define"),
			testToken(token.INCLUDE, "#include"),
			testToken(token.MERGE, "#merge"),
			testToken(token.AUTORUN, "#autorun"),
			testToken(token.UNDEF, "#undef"),
			testToken(token.UNHANDLED, "kDataUnhandled"),
			testToken(token.EOF, ""),
		}},
		{`#ifdefX kDataUnhandled2 $ $a.b $_9`, []token.Token{
			testToken(token.SYMBOL, "#ifdefX"),
			testToken(token.SYMBOL, "kDataUnhandled2"),
			testToken(token.SYMBOL, "$"),
			testToken(token.SYMBOL, "$a.b"),
			testToken(token.VAR, "_9"),
			testToken(token.EOF, ""),
		}},
		{`'quoted sym' "a (string)" 'x'y "" ''`, []token.Token{
			testToken(token.SYMBOL, "quoted sym"),
			testToken(token.STRING, "a (string)"),
			testToken(token.SYMBOL, "'x'y"),
			testToken(token.SYMBOL, `""`),
			testToken(token.SYMBOL, "''"),
			testToken(token.EOF, ""),
		}},
		{"(a ; comment (with parens)\n b) ; trailing", []token.Token{
			testToken(token.PAREN_L, "("),
			testToken(token.SYMBOL, "a"),
			testToken(token.SYMBOL, "b"),
			testToken(token.PAREN_R, ")"),
			testToken(token.EOF, ""),
		}},
		{`a;b 'open`, []token.Token{
			testToken(token.SYMBOL, "a;b"),
			testToken(token.SYMBOL, "'open"),
			testToken(token.EOF, ""),
		}},
	}
	for i, test := range tests {
		tokens := Lex([]byte(test.input))
		for j := range tokens {
			tokens[j].Span = token.Span{}
		}
		if !reflect.DeepEqual(tokens, test.tokens) {
			t.Errorf("test %d: unexpected tokens for input", i)
			t.Logf("source:\n\t%s", test.input)
			t.Logf("tokens:")
			for _, tok := range tokens {
				t.Logf("\t%v", tok)
			}
		}
	}
}

func TestLexEmpty(t *testing.T) {
	for _, input := range []string{"", "   \n\t", "; only a comment"} {
		tokens := Lex([]byte(input))
		require.Len(t, tokens, 1, "input %q", input)
		assert.Equal(t, token.EOF, tokens[0].Type)
		assert.Equal(t, token.Span{Start: 0, End: 0}, tokens[0].Span)
	}
}

func TestLexSpans(t *testing.T) {
	src := "{set $x \"str\"} ; done\n(1 2.5)\n  "
	tokens := Lex([]byte(src))
	spans := make([]token.Span, len(tokens))
	for i, tok := range tokens {
		spans[i] = tok.Span
	}
	assert.Equal(t, []token.Span{
		{0, 1},
		{1, 4},
		{5, 7},
		{8, 13},
		{13, 14},
		{22, 23},
		{23, 24},
		{25, 28},
		{28, 29},
		{29, 29},
	}, spans)

	for i := 1; i < len(tokens); i++ {
		assert.LessOrEqual(t, tokens[i-1].Span.End, tokens[i].Span.Start, "token %d overlaps", i)
		assert.LessOrEqual(t, tokens[i].Span.Start, tokens[i].Span.End)
	}
	last := tokens[len(tokens)-1]
	assert.Equal(t, token.EOF, last.Type)
	assert.True(t, last.Span.Empty())
	assert.Equal(t, tokens[len(tokens)-2].Span.End, last.Span.Start)
}

func TestLexTotal(t *testing.T) {
	inputs := []string{
		"{{{{",
		")))]]]}}}",
		"\"unterminated",
		"'",
		"\xff\xfe(\x00)",
		"#",
		"$",
		"-",
		"+.",
	}
	for _, input := range inputs {
		tokens := Lex([]byte(input))
		require.NotEmpty(t, tokens)
		last := tokens[len(tokens)-1]
		assert.Equal(t, token.EOF, last.Type, "input %q", input)
		for _, tok := range tokens[:len(tokens)-1] {
			assert.NotEqual(t, token.EOF, tok.Type, "input %q", input)
			assert.False(t, tok.Span.Empty(), "input %q: empty token %v", input, tok)
		}
	}
}

func TestLexComments(t *testing.T) {
	lex := New(token.NewScanner("test.dta", []byte("a ; one\n; two\nb"))).KeepComments()
	tokens := lex.Tokens()
	require.Len(t, tokens, 3)
	require.Len(t, lex.Comments, 2)
	assert.Equal(t, "; one", lex.Comments[0].Text)
	assert.Equal(t, token.Span{Start: 2, End: 7}, lex.Comments[0].Span)
	assert.Equal(t, "; two", lex.Comments[1].Text)

	lex = New(token.NewScanner("test.dta", []byte("a ; one")))
	lex.Tokens()
	assert.Empty(t, lex.Comments)
}

func testToken(typ token.Type, text string) token.Token {
	return token.Token{
		Type: typ,
		Text: text,
	}
}

func testInt(text string, x int32) token.Token {
	return token.Token{Type: token.INT, Text: text, Int: x}
}

func testFloat(text string, x float32) token.Token {
	return token.Token{Type: token.FLOAT, Text: text, Float: x}
}
