package textpos

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
)

// Unit selects how columns and token lengths are counted.
type Unit string

const (
	Runes Unit = "runes"
	Cells Unit = "cells"
)

// ParseUnit converts a configuration value into a Unit.
// An empty string selects [Runes].
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case "", Runes:
		return Runes, nil
	case Cells:
		return Cells, nil
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "unknown column unit %q (want %q or %q)", s, Runes, Cells)
}

// Len returns the length of s in the unit.
func (u Unit) Len(s string) int {
	if u == Cells {
		return runewidth.StringWidth(s)
	}
	return utf8.RuneCountInString(s)
}

// Position is a zero-based line/column pair.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Index resolves byte offsets of one source text to positions.
// It is immutable after construction and safe for concurrent use.
type Index struct {
	src   string
	unit  Unit
	lines []int // byte offset where each line starts
}

// NewIndex scans src once for line breaks.
func NewIndex(src string, unit Unit) *Index {
	if unit == "" {
		unit = Runes
	}
	lines := []int{0}
	for i := 0; i < len(src); {
		switch {
		case src[i] == '\n':
			i++
		case src[i] == '\r':
			i++
			if i < len(src) && src[i] == '\n' {
				i++
			}
		case isSeparator(src, i):
			i += 3
		default:
			i++
			continue
		}
		lines = append(lines, i)
	}
	return &Index{src: src, unit: unit, lines: lines}
}

// isSeparator reports whether a U+2028 or U+2029 starts at src[i].
func isSeparator(src string, i int) bool {
	return i+2 < len(src) && src[i] == 0xE2 && src[i+1] == 0x80 && (src[i+2] == 0xA8 || src[i+2] == 0xA9)
}

// Unit returns the column unit of the index.
func (ix *Index) Unit() Unit { return ix.unit }

// LineCount returns the number of lines, counting a trailing empty line.
func (ix *Index) LineCount() int { return len(ix.lines) }

// Position returns the line/column of a byte offset.
// Offsets outside the text are clamped.
func (ix *Index) Position(offset int) Position {
	offset = max(0, min(offset, len(ix.src)))
	line := sort.Search(len(ix.lines), func(i int) bool { return ix.lines[i] > offset }) - 1
	return Position{
		Line:   line,
		Column: ix.unit.Len(ix.src[ix.lines[line]:offset]),
	}
}

// Range returns the range covering the byte span [start, end).
func (ix *Index) Range(start, end int) Range {
	return Range{Start: ix.Position(start), End: ix.Position(end)}
}

// Edit builds an edit replacing the byte span [start, end) with text.
func (ix *Index) Edit(start, end int, text string) Edit {
	return Edit{
		Range:   ix.Range(start, end),
		Start:   start,
		End:     end,
		NewText: text,
	}
}
