package align

import (
	"strings"

	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/textpos"
)

// NormalizeWidth rewrites the reference tokens so every key takes exactly
// width columns, keeping the original line breaks. The first line starts where
// the first token is; later lines are indented to their original column.
//
// It fails with [errs.ErrCodeTokenTooWide] exactly when some token is width
// columns or longer, listing all of them. Width itself is not bounded here;
// callers taking user input apply [errs.ValidateWidth].
func NormalizeWidth(ref []Token, width int, unit textpos.Unit) (string, error) {
	var wide []string
	for _, t := range ref {
		if unit.Len(t.Contents) >= width {
			wide = append(wide, t.Contents)
		}
	}
	if len(wide) > 0 {
		return "", errs.New(errs.ErrCodeTokenTooWide,
			"these keys don't fit in a column of size %d:\n  %s", width, strings.Join(wide, " "))
	}

	var b strings.Builder
	for i, line := range GroupByLine(ref) {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", line[0].Column))
		}
		for _, t := range line {
			b.WriteString(t.Contents)
			b.WriteString(strings.Repeat(" ", width-unit.Len(t.Contents)))
		}
	}
	return b.String(), nil
}
