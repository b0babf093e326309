// Package pkg provides the libraries behind kmonadfmt, a formatter for kmonad
// keyboard configurations.
//
// # Overview
//
// A kmonad configuration declares the physical keyboard once in a (defsrc)
// block and then any number of (deflayer) blocks that remap it key by key.
// kmonadfmt lays every layer out on the same column grid as (defsrc), so that
// corresponding keys line up vertically.
//
// # Architecture
//
// The typical data flow through kmonadfmt:
//
//	.kbd source text
//	         ↓
//	    [sexpr] package (tokenize into s-expression trees with byte spans)
//	         ↓
//	    [kbd] package (find the (defsrc) and (deflayer) blocks)
//	         ↓
//	    [textpos] package (byte offsets to line/column positions)
//	         ↓
//	    [align] package (column template, realign, fixed width)
//	         ↓
//	    [format] package (edits against the original text)
//
// # Quick Start
//
//	f := format.New(nil, textpos.Runes)
//	res, err := f.Format(src)
//	if err != nil {
//	    return err
//	}
//	out, err := res.Apply(src)
//
// # Main Packages
//
// ## Formatting
//
// [sexpr] - Participle-based tokenizer for kmonad s-expressions, including
// escaped characters, strings and #( ) tap-macros.
//
// [kbd] - Extraction of the reference (defsrc) block and the layers.
//
// [textpos] - Position index and text edits, with columns counted in runes
// or terminal cells.
//
// [align] - Pure layout algorithms over resolved tokens.
//
// [format] - The three editing operations: format, set width, new layer.
//
// ## Infrastructure
//
// [config] - TOML settings with file lookup.
//
// [pipeline] - Parallel formatting of files with clean-file caching.
//
// [cache] - File, Redis and null cache backends.
//
// [source] - Discovery of configuration files on disk.
//
// [observability] - Hooks for format, cache and server events.
//
// [render/dot] - Graphviz rendering of the parsed tree.
//
// [errors] - Coded errors and input validation.
package pkg
