// Copyright © 2024 The ELPS authors

// Package signature holds the function signature table used to check the
// number of arguments passed to script commands.
//
// A table maps command paths to argument bounds.  A command path is a
// sequence of words, such as "set" or "with" "game", and a statement matches
// the longest prefix of its leading symbols found in the table.
package signature

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Unbounded is the MaxArgs of a command that accepts any number of
// arguments.
const Unbounded = math.MaxInt

// Function is a node of the signature trie.  The bounds of a node apply to
// the arguments following the path that leads to it.
type Function struct {
	MinArgs  int
	MaxArgs  int
	Children map[string]*Function
}

// New returns an empty trie root with default bounds.
func New() *Function {
	return &Function{
		MinArgs: 0,
		MaxArgs: Unbounded,
	}
}

// Insert sets the bounds for path, creating intermediate nodes with default
// bounds as needed.
func (f *Function) Insert(path []string, minArgs, maxArgs int) {
	node := f
	for _, word := range path {
		child, ok := node.Children[word]
		if !ok {
			if node.Children == nil {
				node.Children = make(map[string]*Function)
			}
			child = New()
			node.Children[word] = child
		}
		node = child
	}
	node.MinArgs = minArgs
	node.MaxArgs = maxArgs
}

// Lookup descends the trie following words for as long as a matching child
// exists.  It returns the deepest node reached and the number of words
// consumed.  An unknown word and a known word at the wrong depth are treated
// alike: the bounds of the nearest matched ancestor apply.
func (f *Function) Lookup(words []string) (*Function, int) {
	node := f
	depth := 0
	for _, word := range words {
		child, ok := node.Children[word]
		if !ok {
			break
		}
		node = child
		depth++
	}
	return node, depth
}

// Get returns the node for exactly path.
func (f *Function) Get(path []string) (*Function, bool) {
	node, depth := f.Lookup(path)
	return node, depth == len(path)
}

// Len returns the number of nodes in the trie below f.
func (f *Function) Len() int {
	n := 0
	for _, child := range f.Children {
		n += 1 + child.Len()
	}
	return n
}

// Walk calls fn for every node below f in lexical path order.
func (f *Function) Walk(fn func(path []string, node *Function)) {
	f.walk(nil, fn)
}

func (f *Function) walk(prefix []string, fn func([]string, *Function)) {
	names := make([]string, 0, len(f.Children))
	for name := range f.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := append(prefix[:len(prefix):len(prefix)], name)
		child := f.Children[name]
		fn(path, child)
		child.walk(path, fn)
	}
}

// Commands returns the sorted names of the children of f that start with
// prefix.
func (f *Function) Commands(prefix string) []string {
	var names []string
	for name := range f.Children {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Bounded reports whether the node restricts its argument count at all.
func (f *Function) Bounded() bool {
	return f.MinArgs > 0 || f.MaxArgs != Unbounded
}

// Describe returns the argument bounds of f in words, e.g. "1 to 3
// arguments".
func (f *Function) Describe() string {
	if f.MinArgs == f.MaxArgs {
		return fmt.Sprintf("exactly %d arguments", f.MinArgs)
	}
	maxArgs := "unbounded"
	if f.MaxArgs != Unbounded {
		maxArgs = strconv.Itoa(f.MaxArgs)
	}
	return fmt.Sprintf("%d to %s arguments", f.MinArgs, maxArgs)
}
