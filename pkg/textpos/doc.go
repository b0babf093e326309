// Package textpos maps byte offsets in a source text to line/column
// positions and applies batches of ranged replacements.
//
// It plays the role of the host document model: the formatter computes edits
// as byte spans, this package gives them a (line, column) [Range] for display
// and editor protocols, and [Apply] writes them back atomically.
//
// # Lines
//
// A line ends at LF, CR, CRLF, U+2028 or U+2029. Lines and columns are
// zero-based.
//
// # Columns
//
// Columns are measured in a [Unit]:
//
//   - [Runes]: one column per Unicode code point (the default)
//   - [Cells]: terminal display cells, so that wide CJK characters and
//     emoji count as two columns
//
// The same unit must be used for positions and token lengths, otherwise
// alignment computed from them drifts.
package textpos
