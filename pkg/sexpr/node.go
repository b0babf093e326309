package sexpr

import "fmt"

// Kind distinguishes the two node variants.
type Kind uint8

const (
	KindExpr Kind = iota
	KindToken
)

// TokenKind classifies a token node.
type TokenKind uint8

const (
	NotToken TokenKind = iota
	Word
	String
	Escaped
	TapMacro
)

var tokenKindNames = map[TokenKind]string{
	NotToken: "expr",
	Word:     "word",
	String:   "string",
	Escaped:  "escaped",
	TapMacro: "tap-macro",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Span is a half-open byte range [Start, End) of the source.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Node is either an expression with children or a token.
// Contents is always src[Span.Start:Span.End].
type Node struct {
	Kind     Kind
	Token    TokenKind
	Span     Span
	Contents string
	Children []*Node
}

// IsToken reports whether n is a token (a tap-macro counts as one).
func (n *Node) IsToken() bool { return n.Kind == KindToken }

// Head returns the first child token's contents, or "" when n is not an
// expression or its first child is not a token.
func (n *Node) Head() string {
	if n.Kind != KindExpr || len(n.Children) == 0 || !n.Children[0].IsToken() {
		return ""
	}
	return n.Children[0].Contents
}

func (n *Node) String() string {
	if n.Kind == KindExpr {
		return fmt.Sprintf("expr[%d:%d] (%d children)", n.Span.Start, n.Span.End, len(n.Children))
	}
	return fmt.Sprintf("%s[%d:%d] %q", n.Token, n.Span.Start, n.Span.End, n.Contents)
}

// Document is a parsed source: its top-level expressions in order.
type Document struct {
	Source string
	Forms  []*Node
}

// Walk calls fn for every node in depth-first order. Returning false from fn
// skips the node's children.
func (d *Document) Walk(fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, f := range d.Forms {
		walk(f, 0)
	}
}
