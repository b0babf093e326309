// Package kbd extracts the kmonad blocks relevant to alignment from a parsed
// configuration: the (defsrc) reference block and every (deflayer) block.
package kbd

import (
	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/sexpr"
)

// Block keywords.
const (
	KeywordSource = "defsrc"
	KeywordLayer  = "deflayer"
)

// Block is one top-level form.
type Block struct {
	Expr    *sexpr.Node
	Keyword string // first token's contents, "" if the form starts with an expression
	Name    string // layer name; empty for other blocks
	Items   []*sexpr.Node
}

// Config holds the blocks of a configuration in document order.
type Config struct {
	Source *Block
	Layers []*Block
	Forms  []*Block
}

// Extract finds the reference block and the layer blocks of doc.
// The first (defsrc) wins; later ones are ignored. It fails with
// [errs.ErrCodeMissingReferenceBlock] when there is none.
func Extract(doc *sexpr.Document) (*Config, error) {
	cfg := &Config{}
	for _, form := range doc.Forms {
		b := newBlock(form)
		cfg.Forms = append(cfg.Forms, b)
		switch b.Keyword {
		case KeywordSource:
			if cfg.Source == nil {
				cfg.Source = b
			}
		case KeywordLayer:
			cfg.Layers = append(cfg.Layers, b)
		}
	}
	if cfg.Source == nil {
		return nil, errs.New(errs.ErrCodeMissingReferenceBlock, "kmonad config must contain exactly one (defsrc) block")
	}
	return cfg, nil
}

func newBlock(form *sexpr.Node) *Block {
	b := &Block{Expr: form, Keyword: form.Head()}
	if b.Keyword == "" {
		return b
	}
	items := form.Children[1:]
	if b.Keyword == KeywordLayer && len(items) > 0 {
		b.Name = items[0].Contents
		items = items[1:]
	}
	b.Items = items
	return b
}

// Compatible reports whether a layer supplies exactly one item per
// reference key.
func (c *Config) Compatible(layer *Block) bool {
	return len(layer.Items) == len(c.Source.Items)
}
