package kbd

import (
	"testing"

	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/sexpr"
)

func extract(t *testing.T, src string) (*Config, error) {
	t.Helper()
	doc, err := sexpr.NewParser().Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return Extract(doc)
}

func itemContents(b *Block) []string {
	out := make([]string, len(b.Items))
	for i, it := range b.Items {
		out[i] = it.Contents
	}
	return out
}

func TestExtract(t *testing.T) {
	cfg, err := extract(t, `
(defcfg fallthrough true)
(defalias nav (layer-toggle nav))
(defsrc a b c)
(deflayer base x y z)
(deflayer nav @nav _)
`)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if got := itemContents(cfg.Source); len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("source items = %q, want [a b c]", got)
	}
	if len(cfg.Layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(cfg.Layers))
	}
	if cfg.Layers[0].Name != "base" || cfg.Layers[1].Name != "nav" {
		t.Errorf("layer names = %q, %q", cfg.Layers[0].Name, cfg.Layers[1].Name)
	}
	if got := itemContents(cfg.Layers[1]); len(got) != 2 || got[0] != "@nav" {
		t.Errorf("nav items = %q", got)
	}
	if len(cfg.Forms) != 5 {
		t.Errorf("forms = %d, want 5", len(cfg.Forms))
	}
	if !cfg.Compatible(cfg.Layers[0]) {
		t.Error("base should be compatible")
	}
	if cfg.Compatible(cfg.Layers[1]) {
		t.Error("nav should not be compatible")
	}
}

func TestExtractFirstSourceWins(t *testing.T) {
	cfg, err := extract(t, "(defsrc a b) (defsrc c d e)")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if got := itemContents(cfg.Source); len(got) != 2 || got[0] != "a" {
		t.Errorf("source items = %q, want [a b]", got)
	}
}

func TestExtractMissingSource(t *testing.T) {
	tests := []string{
		"",
		"(deflayer foo a b)",
		"((defsrc) a b)",
		`("defsrc" a b)`,
	}
	for _, src := range tests {
		_, err := extract(t, src)
		if !errs.Is(err, errs.ErrCodeMissingReferenceBlock) {
			t.Errorf("Extract(%q) error = %v, want %s", src, err, errs.ErrCodeMissingReferenceBlock)
		}
	}
}

func TestExtractNestedItems(t *testing.T) {
	cfg, err := extract(t, "(defsrc a b) (deflayer x (tap-hold 200 a b) #(c d))")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	items := cfg.Layers[0].Items
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Contents != "(tap-hold 200 a b)" || items[0].IsToken() {
		t.Errorf("item 0 = %v", items[0])
	}
	if items[1].Token != sexpr.TapMacro {
		t.Errorf("item 1 kind = %v, want tap-macro", items[1].Token)
	}
}

func TestExtractLayerWithoutName(t *testing.T) {
	cfg, err := extract(t, "(defsrc) (deflayer)")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if cfg.Layers[0].Name != "" || len(cfg.Layers[0].Items) != 0 {
		t.Errorf("empty layer = %+v", cfg.Layers[0])
	}
	if !cfg.Compatible(cfg.Layers[0]) {
		t.Error("empty layer against empty source should be compatible")
	}
}
