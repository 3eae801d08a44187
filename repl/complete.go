// Copyright © 2018 The ELPS authors

package repl

import (
	"strings"

	"github.com/luthersystems/dtacheck/signature"
)

// commandCompleter implements readline.AutoCompleter by enumerating the
// command paths of a signature table.  The words already typed in the
// current statement select the node of the table whose children are
// offered.
type commandCompleter struct {
	sigs *signature.Function
}

func (c *commandCompleter) Do(line []rune, pos int) ([][]rune, int) {
	if c.sigs == nil {
		return nil, 0
	}
	// Extract the word being typed (backwards from cursor to whitespace or open brace).
	start := pos
	for start > 0 && !isWordBreak(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])

	path, ok := statementWords(line[:start])
	if !ok {
		return nil, 0
	}
	node, depth := c.sigs.Lookup(path)
	if depth != len(path) {
		return nil, 0
	}
	candidates := node.Commands(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name[len(prefix):]+" "))
	}
	return result, len([]rune(prefix))
}

// statementWords returns the words following the innermost unclosed '{' in
// line.  It fails when the cursor is not directly inside a statement head,
// i.e. when no '{' is open or a list comes between it and the cursor.
func statementWords(line []rune) ([]string, bool) {
	for i := len(line) - 1; i >= 0; i-- {
		switch line[i] {
		case '{':
			return strings.Fields(string(line[i+1:])), true
		case '(', '[', ')', ']', '}':
			return nil, false
		}
	}
	return nil, false
}

func isWordBreak(ch rune) bool {
	return strings.ContainsRune(" \t\n(){}[]", ch)
}
