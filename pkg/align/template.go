package align

import (
	"github.com/matzehuels/kmonadfmt/pkg/sexpr"
	"github.com/matzehuels/kmonadfmt/pkg/textpos"
)

// Token is a block item with its resolved start position.
// Nested expressions are items too; their contents span the whole expression.
type Token struct {
	Contents string
	Line     int
	Column   int
	Start    int // byte offset of the first character
	End      int // byte offset after the last character
}

// Resolve positions nodes against ix, keeping their order.
func Resolve(ix *textpos.Index, nodes []*sexpr.Node) []Token {
	toks := make([]Token, len(nodes))
	for i, n := range nodes {
		p := ix.Position(n.Span.Start)
		toks[i] = Token{
			Contents: n.Contents,
			Line:     p.Line,
			Column:   p.Column,
			Start:    n.Span.Start,
			End:      n.Span.End,
		}
	}
	return toks
}

// GroupByLine splits tokens into runs that share a line. Runs are coalesced
// in the given order; a line that reappears after another one starts a new run.
func GroupByLine(toks []Token) [][]Token {
	var groups [][]Token
	for i, t := range toks {
		if i == 0 || t.Line != toks[i-1].Line {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], t)
	}
	return groups
}

// LineGroup holds the columns of one template line, relative to the column
// of the first reference token.
type LineGroup []int

// Template is the column grid of a reference block, one group per line.
type Template []LineGroup

// Len returns the number of columns across all lines.
func (t Template) Len() int {
	n := 0
	for _, g := range t {
		n += len(g)
	}
	return n
}

// BuildTemplate derives the column grid of the reference tokens.
func BuildTemplate(ref []Token) Template {
	if len(ref) == 0 {
		return nil
	}
	base := ref[0].Column
	groups := GroupByLine(ref)
	tmpl := make(Template, len(groups))
	for i, g := range groups {
		cols := make(LineGroup, len(g))
		for j, t := range g {
			cols[j] = t.Column - base
		}
		tmpl[i] = cols
	}
	return tmpl
}
