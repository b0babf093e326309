package format

import (
	"reflect"
	"sync"
	"testing"

	"github.com/matzehuels/kmonadfmt/pkg/align"
	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/textpos"
)

var scenarios = []struct {
	name  string
	input string
	want  string
}{
	{
		name: "simple",
		input: `
        (defsrc a b c) (deflayer foo a  b  c)`,
		want: `
        (defsrc a b c) (deflayer foo a b c)`,
	},
	{
		name: "escape characters",
		input: `
        (defcfg foo "C:\\bar\\baz 1)" a(a)
        (defsrc        1   2   3   4   5   6   7) 
        (deflayer foo  \ \\ \) \" \( ")" @foo)`,
		want: `
        (defcfg foo "C:\\bar\\baz 1)" a(a)
        (defsrc        1   2   3   4   5   6   7) 
        (deflayer foo  \   \\  \)  \"  \(  ")" @foo)`,
	},
	{
		name: "bigger, multiple layers",
		input: `
        (defsrc
          _    _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _              _              _    _    _    _
        )
        (deflayer foo
          _ _ _ _ _ _ _ _ _ _ _ _ _    _
          _    _     _        _         _               _    
          _    
          _    ;; whitespace between the first and last keys
          _    ;; is ignored, so this comment will not be kept
          _      _    _      _    _
          _    _    _    _    _    _    _    
          _    _        _    _    _    _
          _     _    _        _    _    _    _    
          _    _    _    _    _
          _     _    _              _              _    _    _    _
        )
        (deflayer bar ;; start
          _ _ _ _ _ _ _ _ _ _ _ _ _ _
          _  _  _  _  _  _  _  _  _  _  _  _
          _  _  _  _  _  _  _  _  _  _  _  _
          _  _  _  _  _  _  _  _  _  _  _  _
          _  _  _        _        _  _  _  _
          _ _ _ #| end |# )
        `,
		want: `
        (defsrc
          _    _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _              _              _    _    _    _
        )
        (deflayer foo
          _    _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _              _              _    _    _    _
        )
        (deflayer bar ;; start
          _    _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _    _    _    _    _    _    _    _    _    _
          _    _    _              _              _    _    _    _ #| end |# )
        `,
	},
	{
		name: "indentation is preserved",
		input: `
        (defsrc 
          a b c
          d e f
        )       (deflayer weird  a  b  c  d  e  f)`,
		want: `
        (defsrc 
          a b c
          d e f
        )       (deflayer weird  a b c
                                 d e f)`,
	},
	{
		name: "longer expressions",
		input: `
        (defsrc 
          a   b   c   d   e   f   g   h
          i   j   k   l   m   n   o   p
        )
        (deflayer foo
          _ _ #(c \ c) _ _ _ _ _
          @iiiiii _ _ _ _ _ _ 
          @ppppp
        )`,
		want: `
        (defsrc 
          a   b   c   d   e   f   g   h
          i   j   k   l   m   n   o   p
        )
        (deflayer foo
          _   _   #(c \ c) _ _ _  _   _
          @iiiiii _ _ _   _   _   _   @ppppp
        )`,
	},
}

func apply(t *testing.T, src string, res *Result) string {
	t.Helper()
	out, err := res.Apply(src)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	return out
}

func TestFormatScenarios(t *testing.T) {
	f := New(nil, textpos.Runes)
	for _, tt := range scenarios {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Format(tt.input)
			if err != nil {
				t.Fatalf("Format error: %v", err)
			}
			if got := apply(t, tt.input, res); got != tt.want {
				t.Errorf("Format =\n%s\nwant\n%s", got, tt.want)
			}
			if res.Compatible != res.Total || len(res.Skipped) != 0 {
				t.Errorf("counts = %d/%d skipped %q", res.Compatible, res.Total, res.Skipped)
			}
		})
	}
}

func TestFormatIdempotent(t *testing.T) {
	f := New(nil, textpos.Runes)
	for _, tt := range scenarios {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Format(tt.want)
			if err != nil {
				t.Fatalf("Format error: %v", err)
			}
			if res.Changed(tt.want) {
				t.Errorf("formatting formatted text changed it:\n%s", apply(t, tt.want, res))
			}
		})
	}
}

func TestFormatInfo(t *testing.T) {
	src := "(defsrc a b c)\n(deflayer ok 1 2 3)\n(deflayer short 1 2)\n(deflayer long 1 2 3 4)\n"
	res, err := New(nil, "").Format(src)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if res.Info != "Formatted 1/3 layers" {
		t.Errorf("Info = %q", res.Info)
	}
	if want := []string{"short", "long"}; !reflect.DeepEqual(res.Skipped, want) {
		t.Errorf("Skipped = %q, want %q", res.Skipped, want)
	}
	if len(res.Edits) != 1 {
		t.Errorf("edits = %d, want 1", len(res.Edits))
	}
}

func TestFormatSkipsIncompatibleLayers(t *testing.T) {
	src := "(defsrc a b c)\n(deflayer bad   x    y)\n(deflayer good x    y  z)"
	res, err := New(nil, textpos.Runes).Format(src)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	want := "(defsrc a b c)\n(deflayer bad   x    y)\n(deflayer good x y z)"
	if got := apply(t, src, res); got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatEditRange(t *testing.T) {
	src := scenarios[0].input
	res, err := New(nil, textpos.Runes).Format(src)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if len(res.Edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(res.Edits))
	}
	want := textpos.Range{
		Start: textpos.Position{Line: 1, Column: 37},
		End:   textpos.Position{Line: 1, Column: 44},
	}
	if got := res.Edits[0].Range; got != want {
		t.Errorf("Range = %+v, want %+v", got, want)
	}
	if got := src[res.Edits[0].Start:res.Edits[0].End]; got != "a  b  c" {
		t.Errorf("replaced text = %q", got)
	}
}

func TestFormatKeepsTrailingComment(t *testing.T) {
	src := "(defsrc a b)\n(deflayer x  1 ;; one\n  2 ;; two\n)"
	res, err := New(nil, textpos.Runes).Format(src)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	// Comments between items are dropped, the one after the last item stays.
	want := "(defsrc a b)\n(deflayer x  1 2 ;; two\n)"
	if got := apply(t, src, res); got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatNestedItems(t *testing.T) {
	src := "(defsrc a    b    c)\n(deflayer x (tap-hold 200 a b) #(press-only alt) c)"
	res, err := New(nil, textpos.Runes).Format(src)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	want := "(defsrc a    b    c)\n(deflayer x (tap-hold 200 a b) #(press-only alt) c)"
	if got := apply(t, src, res); got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatSpacedTapMacro(t *testing.T) {
	src := "(defsrc a    b    c)\n(deflayer x (tap-hold 200 a b)   # (press-only alt)   c)"
	res, err := New(nil, textpos.Runes).Format(src)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	want := "(defsrc a    b    c)\n(deflayer x (tap-hold 200 a b) # (press-only alt) c)"
	if got := apply(t, src, res); got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatCells(t *testing.T) {
	src := "(defsrc a    b) (deflayer x 日本 c)"
	tests := []struct {
		unit textpos.Unit
		want string
	}{
		{textpos.Runes, "(defsrc a    b) (deflayer x 日本   c)"},
		{textpos.Cells, "(defsrc a    b) (deflayer x 日本 c)"},
	}
	for _, tt := range tests {
		res, err := New(nil, tt.unit).Format(src)
		if err != nil {
			t.Fatalf("Format error: %v", err)
		}
		if got := apply(t, src, res); got != tt.want {
			t.Errorf("%s: Format = %q, want %q", tt.unit, got, tt.want)
		}
	}
}

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errs.Code
	}{
		{"unbalanced", "(defsrc a b", errs.ErrCodeSyntax},
		{"unterminated string", `(defsrc "a b)`, errs.ErrCodeSyntax},
		{"no defsrc", "(deflayer x a b)", errs.ErrCodeMissingReferenceBlock},
	}
	f := New(nil, textpos.Runes)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Format(tt.src)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
		})
	}
}

func TestFormatConcurrent(t *testing.T) {
	f := New(nil, textpos.Runes)
	var wg sync.WaitGroup
	for _, tt := range scenarios {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.Format(tt.input)
			if err != nil {
				t.Errorf("%s: %v", tt.name, err)
				return
			}
			if got, _ := res.Apply(tt.input); got != tt.want {
				t.Errorf("%s: concurrent result differs", tt.name)
			}
		}()
	}
	wg.Wait()
}

func TestSetSourceWidth(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		width int
		want  string
	}{
		{
			name:  "single line",
			src:   "(defsrc a b c)\n(deflayer x 1 2 3)",
			width: 4,
			want:  "(defsrc a   b   c   )\n(deflayer x 1 2 3)",
		},
		{
			name:  "wrapped",
			src:   "(defsrc\n  esc f1\n    grv 1\n)",
			width: 5,
			want:  "(defsrc\n  esc  f1   \n    grv  1    \n)",
		},
		{
			name:  "empty defsrc",
			src:   "(defsrc)",
			width: 6,
			want:  "(defsrc)",
		},
	}
	f := New(nil, textpos.Runes)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.SetSourceWidth(tt.src, tt.width)
			if err != nil {
				t.Fatalf("SetSourceWidth error: %v", err)
			}
			if res.Info != "Ok" {
				t.Errorf("Info = %q", res.Info)
			}
			if got := apply(t, tt.src, res); got != tt.want {
				t.Errorf("SetSourceWidth = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetSourceWidthTooWide(t *testing.T) {
	res, err := New(nil, textpos.Runes).SetSourceWidth("(defsrc esc f1 lctl)", 3)
	if !errs.Is(err, errs.ErrCodeTokenTooWide) {
		t.Fatalf("error = %v, want %s", err, errs.ErrCodeTokenTooWide)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
}

func TestNewLayer(t *testing.T) {
	src := "(defsrc\n  a b\n  c)"
	tests := []struct {
		p    align.Placeholder
		want string
	}{
		{align.PlaceholderCopy, "  a b c"},
		{align.PlaceholderPassthrough, "  _ _ _"},
		{align.PlaceholderBlocked, "  XX XX XX"},
	}
	f := New(nil, textpos.Runes)
	for _, tt := range tests {
		got, err := f.NewLayer(src, tt.p)
		if err != nil {
			t.Fatalf("NewLayer(%q) error: %v", tt.p, err)
		}
		if got != tt.want {
			t.Errorf("NewLayer(%q) = %q, want %q", tt.p, got, tt.want)
		}
	}

	for _, p := range []align.Placeholder{"", "a b", "(x)"} {
		if _, err := f.NewLayer(src, p); !errs.Is(err, errs.ErrCodeInvalidPlaceholder) {
			t.Errorf("NewLayer(%q) error = %v, want %s", p, err, errs.ErrCodeInvalidPlaceholder)
		}
	}
}

func TestInsertLayer(t *testing.T) {
	src := "(defsrc\n  a   b\n  c   d)\n(deflayer base  1 2\n  3 4)\n"
	res, err := New(nil, textpos.Runes).InsertLayer(src, "nav", align.PlaceholderPassthrough)
	if err != nil {
		t.Fatalf("InsertLayer error: %v", err)
	}
	want := "(defsrc\n  a   b\n  c   d)\n(deflayer base  1   2\n                3   4)\n" +
		"\n(deflayer nav\n  _   _\n  _   _\n)\n"
	if got := apply(t, src, res); got != want {
		t.Errorf("InsertLayer =\n%s\nwant\n%s", got, want)
	}
	if res.Info != "Formatted 2/2 layers" {
		t.Errorf("Info = %q", res.Info)
	}
}

func TestInsertLayerInvalidName(t *testing.T) {
	_, err := New(nil, textpos.Runes).InsertLayer("(defsrc a)", "two words", align.PlaceholderBlocked)
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}
}
