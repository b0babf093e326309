package align

import (
	"errors"
	"strings"

	"github.com/matzehuels/kmonadfmt/pkg/textpos"
)

// ErrIncompatible is returned by [Realign] when the layer does not supply
// exactly one item per template column. Callers skip such layers.
var ErrIncompatible = errors.New("layer item count does not match reference block")

// Realign lays the layer tokens out on the template grid and returns the text
// that replaces the span from the first token's start to the last token's end.
//
// Each token is padded to its template column, with at least one space from
// the previous token on the same line. Lines after the first are indented to
// the column of the layer's own first token.
func Realign(layer []Token, tmpl Template, unit textpos.Unit) (string, error) {
	if len(layer) != tmpl.Len() {
		return "", ErrIncompatible
	}
	if len(layer) == 0 {
		return "", nil
	}

	indent := strings.Repeat(" ", layer[0].Column)
	var b strings.Builder
	rest := layer
	for i, group := range tmpl {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(indent)
		}
		rest = realignLine(&b, group, rest, unit)
	}
	return b.String(), nil
}

// realignLine writes one output line and returns the tokens it did not use.
func realignLine(b *strings.Builder, cols LineGroup, toks []Token, unit textpos.Unit) []Token {
	cursor := 0
	for i, col := range cols {
		t := toks[i]
		pad := max(0, col-cursor)
		if pad == 0 && i > 0 {
			pad = 1
		}
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(t.Contents)
		cursor += pad + unit.Len(t.Contents)
	}
	return toks[len(cols):]
}
