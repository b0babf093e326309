// Package dot draws the parse tree of a kmonad configuration as a Graphviz
// graph, for inspecting how the tokenizer split a file.
//
//	doc, _ := sexpr.NewParser().Parse(src)
//	svg, err := dot.RenderSVG(ctx, dot.ToDOT(doc, dot.Options{Detailed: true}))
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kmonadfmt/pkg/kbd"
	"github.com/matzehuels/kmonadfmt/pkg/sexpr"
)

// Options configures tree rendering.
type Options struct {
	// Detailed adds byte spans and token kinds to labels.
	Detailed bool
	// MaxDepth limits the drawn depth below the top-level forms; 0 draws all.
	MaxDepth int
}

// ToDOT converts a parsed document to Graphviz DOT format.
// Top-level (defsrc) and (deflayer) forms are highlighted; tap-macros are
// drawn dashed since they are opaque tokens.
func ToDOT(doc *sexpr.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=14];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")
	buf.WriteString("  \"doc\" [label=\"document\", shape=ellipse];\n")

	ids := make(map[*sexpr.Node]string)
	parent := []string{"doc"}
	var edges []string
	doc.Walk(func(n *sexpr.Node, depth int) bool {
		id := fmt.Sprintf("n%d", len(ids))
		ids[n] = id
		parent = append(parent[:depth+1], id)

		attrs := fmtAttrs(n, depth, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", parent[depth], id))
		return opts.MaxDepth == 0 || depth < opts.MaxDepth
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *sexpr.Node, detailed bool) string {
	label := n.Contents
	if n.Kind == sexpr.KindExpr {
		label = "( " + n.Head() + " )"
		if n.Head() == "" {
			label = "( )"
		}
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%s [%d:%d]", label, n.Token, n.Span.Start, n.Span.End)
}

func fmtAttrs(n *sexpr.Node, depth int, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case depth == 0 && n.Head() == kbd.KeywordSource:
		attrs = append(attrs, "fillcolor=\"#ffe08a\"")
	case depth == 0 && n.Head() == kbd.KeywordLayer:
		attrs = append(attrs, "fillcolor=\"#c6e2ff\"")
	case n.Kind == sexpr.KindExpr:
		attrs = append(attrs, "fillcolor=\"#eeeeee\"")
	case n.Token == sexpr.TapMacro:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	case n.Token == sexpr.String:
		attrs = append(attrs, "fontcolor=\"#2e7d32\"")
	case n.Token == sexpr.Escaped:
		attrs = append(attrs, "fontcolor=\"#c62828\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the SVG scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
