// Package align lays out block items on a column grid.
//
// The reference block (defsrc) defines the grid: [BuildTemplate] records, per
// source line, where each key starts relative to the first key. [Realign]
// re-emits a layer block's items onto that grid, [NormalizeWidth] rewrites the
// reference block itself with fixed-width columns, and [Skeleton] produces
// the body of a new layer.
//
// All functions are pure. They work on [Token] values, which can be resolved
// from parse tree nodes with [Resolve] or built directly in tests:
//
//	ref := align.Resolve(ix, cfg.Source.Items)
//	tmpl := align.BuildTemplate(ref)
//	text, err := align.Realign(align.Resolve(ix, layer.Items), tmpl, textpos.Runes)
//	if errors.Is(err, align.ErrIncompatible) {
//		// skip the layer
//	}
package align
