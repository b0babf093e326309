// Package format implements the three editing operations on a kmonad
// configuration: aligning layers to the (defsrc) grid, setting a fixed
// (defsrc) column width, and generating a new layer.
//
// Operations never modify their input. They return a [Result] whose edits
// can be applied with [textpos.Apply] or [Result.Apply].
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/kmonadfmt/pkg/align"
	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/kbd"
	"github.com/matzehuels/kmonadfmt/pkg/sexpr"
	"github.com/matzehuels/kmonadfmt/pkg/textpos"
)

// Result is the outcome of an operation.
type Result struct {
	Info  string         `json:"info,omitempty"`
	Edits []textpos.Edit `json:"edits"`

	// Layer counts; set by Format and InsertLayer.
	Compatible int      `json:"compatible"`
	Total      int      `json:"total"`
	Skipped    []string `json:"skipped,omitempty"`
}

// Apply returns src with the result's edits applied.
func (r *Result) Apply(src string) (string, error) {
	return textpos.Apply(src, r.Edits)
}

// Changed reports whether applying the result would alter src.
func (r *Result) Changed(src string) bool {
	return textpos.Changed(src, r.Edits)
}

// Formatter runs operations with a shared parser. It is safe for concurrent
// use.
type Formatter struct {
	parser *sexpr.Parser
	unit   textpos.Unit
}

// New creates a Formatter measuring columns in unit. A nil parser is
// replaced by a fresh one.
func New(parser *sexpr.Parser, unit textpos.Unit) *Formatter {
	if parser == nil {
		parser = sexpr.NewParser()
	}
	if unit == "" {
		unit = textpos.Runes
	}
	return &Formatter{parser: parser, unit: unit}
}

// Unit returns the column unit.
func (f *Formatter) Unit() textpos.Unit { return f.unit }

// document is a parsed source with its index.
type document struct {
	src string
	ix  *textpos.Index
	cfg *kbd.Config
	ref []align.Token
}

func (f *Formatter) load(src string) (*document, error) {
	doc, err := f.parser.Parse(src)
	if err != nil {
		return nil, err
	}
	cfg, err := kbd.Extract(doc)
	if err != nil {
		return nil, err
	}
	ix := textpos.NewIndex(src, f.unit)
	return &document{
		src: src,
		ix:  ix,
		cfg: cfg,
		ref: align.Resolve(ix, cfg.Source.Items),
	}, nil
}

// Format aligns every layer that has as many items as (defsrc) to the
// (defsrc) column grid. Other layers are left untouched and listed in
// Result.Skipped. Each compatible layer yields one edit covering its items,
// so comments between items are dropped.
func (f *Formatter) Format(src string) (*Result, error) {
	d, err := f.load(src)
	if err != nil {
		return nil, err
	}

	tmpl := align.BuildTemplate(d.ref)
	res := &Result{Total: len(d.cfg.Layers)}
	for _, layer := range d.cfg.Layers {
		toks := align.Resolve(d.ix, layer.Items)
		text, err := align.Realign(toks, tmpl, f.unit)
		if errors.Is(err, align.ErrIncompatible) {
			res.Skipped = append(res.Skipped, layer.Name)
			continue
		}
		if err != nil {
			return nil, err
		}
		res.Compatible++
		if len(toks) == 0 {
			continue
		}
		res.Edits = append(res.Edits, d.ix.Edit(toks[0].Start, toks[len(toks)-1].End, text))
	}
	res.Info = fmt.Sprintf("Formatted %d/%d layers", res.Compatible, res.Total)
	return res, nil
}

// SetSourceWidth pads every (defsrc) key to width columns. It fails without
// edits if any key does not fit.
func (f *Formatter) SetSourceWidth(src string, width int) (*Result, error) {
	d, err := f.load(src)
	if err != nil {
		return nil, err
	}
	text, err := align.NormalizeWidth(d.ref, width, f.unit)
	if err != nil {
		return nil, err
	}
	res := &Result{Info: "Ok"}
	if len(d.ref) > 0 {
		res.Edits = []textpos.Edit{d.ix.Edit(d.ref[0].Start, d.ref[len(d.ref)-1].End, text)}
	}
	return res, nil
}

// NewLayer returns the body of a new layer: one item per (defsrc) key,
// filled according to p, indented like the first (defsrc) key.
func (f *Formatter) NewLayer(src string, p align.Placeholder) (string, error) {
	if err := validatePlaceholder(p); err != nil {
		return "", err
	}
	d, err := f.load(src)
	if err != nil {
		return "", err
	}
	return align.Skeleton(d.ref, p), nil
}

// InsertLayer appends a new (deflayer name ...) block to the end of src and
// formats the result. The returned edits apply to src: one insertion for the
// new block plus the format edits of the existing layers.
func (f *Formatter) InsertLayer(src, name string, p align.Placeholder) (*Result, error) {
	if err := errs.ValidateLayerName(name); err != nil {
		return nil, err
	}
	body, err := f.NewLayer(src, p)
	if err != nil {
		return nil, err
	}

	sep := "\n\n"
	switch {
	case strings.HasSuffix(src, "\n\n"):
		sep = ""
	case strings.HasSuffix(src, "\n"):
		sep = "\n"
	}
	block := "(deflayer " + name + "\n" + body + "\n)\n"
	joined := src + sep + block

	res, err := f.Format(joined)
	if err != nil {
		return nil, err
	}

	// Edits past the end of src belong to the new block; fold them into it.
	at := len(src) + len(sep)
	var own, inserted []textpos.Edit
	for _, e := range res.Edits {
		if e.Start >= at {
			e.Start -= at
			e.End -= at
			inserted = append(inserted, e)
		} else {
			own = append(own, e)
		}
	}
	block, err = textpos.Apply(block, inserted)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "format new layer")
	}

	ix := textpos.NewIndex(src, f.unit)
	res.Edits = append(own, ix.Edit(len(src), len(src), sep+block))
	return res, nil
}

func validatePlaceholder(p align.Placeholder) error {
	if p == align.PlaceholderCopy {
		return nil
	}
	return errs.ValidatePlaceholder(string(p))
}
