// Copyright © 2018 The ELPS authors

package rdparser

import (
	"strconv"
	"strings"

	"github.com/luthersystems/dtacheck/parser/token"
)

// Kind distinguishes the variants of Node.
type Kind uint

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindVar
	KindSymbol
	KindString
	KindUnhandled
	KindIfDef
	KindIfNDef
	KindElse
	KindEndIf
	KindDefine
	KindInclude
	KindMerge
	KindAutorun
	KindUndef
	KindArray
	KindProp
	KindStmt

	numKinds
)

func (k Kind) String() string {
	kindStrings := [numKinds]string{
		KindInvalid:   "invalid",
		KindInt:       "int",
		KindFloat:     "float",
		KindVar:       "var",
		KindSymbol:    "symbol",
		KindString:    "string",
		KindUnhandled: "unhandled",
		KindIfDef:     "ifdef",
		KindIfNDef:    "ifndef",
		KindElse:      "else",
		KindEndIf:     "endif",
		KindDefine:    "define",
		KindInclude:   "include",
		KindMerge:     "merge",
		KindAutorun:   "autorun",
		KindUndef:     "undef",
		KindArray:     "array",
		KindProp:      "prop",
		KindStmt:      "stmt",
	}
	if k >= numKinds {
		return kindStrings[KindInvalid]
	}
	return kindStrings[k]
}

// Node is a parsed script element.  Leaf values are stored in Text, Int or
// Float depending on Kind.  Directives that name a symbol store it in Text,
// as does Define, whose body is held in Children.  Array, Prop and Stmt hold
// their elements in Children.
type Node struct {
	Kind     Kind
	Span     token.Span
	Text     string
	Int      int32
	Float    float32
	Children []*Node
}

// IsPreprocessor reports whether n is a preprocessor directive.
func (n *Node) IsPreprocessor() bool {
	switch n.Kind {
	case KindIfDef, KindIfNDef, KindElse, KindEndIf, KindDefine,
		KindInclude, KindMerge, KindAutorun, KindUndef:
		return true
	}
	return false
}

// IsList reports whether n is a delimited list.
func (n *Node) IsList() bool {
	return n.Kind == KindArray || n.Kind == KindProp || n.Kind == KindStmt
}

// IsSymbol reports whether n is the symbol name.
func (n *Node) IsSymbol(name string) bool {
	return n.Kind == KindSymbol && n.Text == name
}

func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.Kind {
	case KindInt:
		b.WriteString(strconv.FormatInt(int64(n.Int), 10))
	case KindFloat:
		b.WriteString(strconv.FormatFloat(float64(n.Float), 'g', -1, 32))
	case KindVar:
		b.WriteString("$" + n.Text)
	case KindSymbol:
		if strings.ContainsAny(n.Text, " \t\n()[]{}") {
			b.WriteString("'" + n.Text + "'")
		} else {
			b.WriteString(n.Text)
		}
	case KindString:
		b.WriteString(`"` + n.Text + `"`)
	case KindUnhandled:
		b.WriteString("kDataUnhandled")
	case KindIfDef, KindIfNDef, KindInclude, KindMerge, KindUndef:
		b.WriteString("#" + n.Kind.String() + " " + n.Text)
	case KindElse, KindEndIf, KindAutorun:
		b.WriteString("#" + n.Kind.String())
	case KindDefine:
		b.WriteString("#define " + n.Text + " ")
		writeList(b, "(", n.Children, ")")
	case KindArray:
		writeList(b, "(", n.Children, ")")
	case KindProp:
		writeList(b, "[", n.Children, "]")
	case KindStmt:
		writeList(b, "{", n.Children, "}")
	default:
		b.WriteString("<invalid>")
	}
}

func writeList(b *strings.Builder, open string, nodes []*Node, close string) {
	b.WriteString(open)
	for i, c := range nodes {
		if i > 0 {
			b.WriteString(" ")
		}
		c.write(b)
	}
	b.WriteString(close)
}

// Walk calls fn for every node in nodes, depth-first, parent before children.
// If fn returns false the children of that node are skipped.
func Walk(nodes []*Node, fn func(n *Node) bool) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if fn(n) {
			Walk(n.Children, fn)
		}
	}
}

func leaf(tok token.Token) *Node {
	n := &Node{Span: tok.Span}
	switch tok.Type {
	case token.INT:
		n.Kind = KindInt
		n.Int = tok.Int
	case token.FLOAT:
		n.Kind = KindFloat
		n.Float = tok.Float
	case token.VAR:
		n.Kind = KindVar
		n.Text = tok.Text
	case token.SYMBOL:
		n.Kind = KindSymbol
		n.Text = tok.Text
	case token.STRING:
		n.Kind = KindString
		n.Text = tok.Text
	case token.UNHANDLED:
		n.Kind = KindUnhandled
	case token.ELSE:
		n.Kind = KindElse
	case token.ENDIF:
		n.Kind = KindEndIf
	case token.AUTORUN:
		n.Kind = KindAutorun
	}
	return n
}

// directive builds a directive node naming sym, spanning from the directive
// through the symbol.
func directive(kind Kind, dir token.Token, sym token.Token) *Node {
	return &Node{
		Kind: kind,
		Span: token.Span{Start: dir.Span.Start, End: sym.Span.End},
		Text: sym.Text,
	}
}

// define builds a #define node.  The span ends at the smaller of the body's
// end and the name's end.  An empty body does not bound the span.
func define(dir token.Token, sym token.Token, body []*Node) *Node {
	end := sym.Span.End
	if len(body) > 0 {
		bodyEnd := 0
		for _, c := range body {
			if c.Span.End > bodyEnd {
				bodyEnd = c.Span.End
			}
		}
		if bodyEnd < end {
			end = bodyEnd
		}
	}
	return &Node{
		Kind:     KindDefine,
		Span:     token.Span{Start: dir.Span.Start, End: end},
		Text:     sym.Text,
		Children: body,
	}
}
