package textpos

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
)

// Edit replaces the byte span [Start, End) of a text with NewText.
// Range carries the same span as positions for editor hosts.
type Edit struct {
	Range   Range  `json:"range"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"newText"`
}

// Apply applies a batch of edits to src. Edits may be given in any order but
// must not overlap. On error src is returned unchanged.
func Apply(src string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return src, nil
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b Edit) int { return a.Start - b.Start })

	prevEnd := 0
	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			return src, errs.New(errs.ErrCodeInvalidEdit, "edit [%d,%d) out of bounds for text of length %d", e.Start, e.End, len(src))
		}
		if i > 0 && e.Start < prevEnd {
			return src, errs.New(errs.ErrCodeInvalidEdit, "edit [%d,%d) overlaps previous edit ending at %d", e.Start, e.End, prevEnd)
		}
		prevEnd = e.End
	}

	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, e := range sorted {
		b.WriteString(src[last:e.Start])
		b.WriteString(e.NewText)
		last = e.End
	}
	b.WriteString(src[last:])
	return b.String(), nil
}

// Changed reports whether any edit actually alters src.
func Changed(src string, edits []Edit) bool {
	for _, e := range edits {
		if e.Start < 0 || e.End > len(src) || e.Start > e.End {
			return true
		}
		if src[e.Start:e.End] != e.NewText {
			return true
		}
	}
	return false
}
