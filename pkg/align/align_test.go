package align

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/textpos"
)

// layout builds tokens from whitespace-separated words of text, with rune
// columns and byte offsets.
func layout(text string) []Token {
	var toks []Token
	offset := 0
	for line, s := range strings.Split(text, "\n") {
		for i := 0; i < len(s); {
			if s[i] == ' ' {
				i++
				continue
			}
			j := strings.IndexByte(s[i:], ' ')
			if j < 0 {
				j = len(s) - i
			}
			toks = append(toks, Token{
				Contents: s[i : i+j],
				Line:     line,
				Column:   utf8.RuneCountInString(s[:i]),
				Start:    offset + i,
				End:      offset + i + j,
			})
			i += j
		}
		offset += len(s) + 1
	}
	return toks
}

func words(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Contents
	}
	return out
}

func TestGroupByLine(t *testing.T) {
	toks := layout("a b\n  c\nd e f")
	groups := GroupByLine(toks)
	var got [][]string
	for _, g := range groups {
		got = append(got, words(g))
	}
	want := [][]string{{"a", "b"}, {"c"}, {"d", "e", "f"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupByLine = %q, want %q", got, want)
	}

	// A line that reappears later starts a new run.
	unordered := []Token{{Contents: "a", Line: 0}, {Contents: "b", Line: 1}, {Contents: "c", Line: 0}}
	if n := len(GroupByLine(unordered)); n != 3 {
		t.Errorf("GroupByLine(unordered) = %d groups, want 3", n)
	}
	if GroupByLine(nil) != nil {
		t.Error("GroupByLine(nil) should be nil")
	}
}

func TestBuildTemplate(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want Template
	}{
		{"single line", "    a b c", Template{{0, 2, 4}}},
		{"wrapped", "  esc  f1\n  grv  1    2", Template{{0, 5}, {0, 5, 10}}},
		{"outdented line", "    a b\n  c", Template{{0, 2}, {-2}}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := BuildTemplate(layout(tt.ref))
			if !reflect.DeepEqual(tmpl, tt.want) {
				t.Errorf("BuildTemplate = %v, want %v", tmpl, tt.want)
			}
			if tmpl.Len() != len(layout(tt.ref)) {
				t.Errorf("Len() = %d, want %d", tmpl.Len(), len(layout(tt.ref)))
			}
		})
	}
}

func TestRealign(t *testing.T) {
	tests := []struct {
		name  string
		ref   string
		layer string
		want  string
	}{
		{
			name:  "collapse spaces",
			ref:   "a b c",
			layer: "a  b  c",
			want:  "a b c",
		},
		{
			name:  "long token pushes neighbours",
			ref:   "a b c d",
			layer: "x @verylongname y z",
			want:  "x @verylongname y z",
		},
		{
			name:  "wide grid",
			ref:   "a    b    c",
			layer: "1 2 3",
			want:  "1    2    3",
		},
		{
			name:  "rewraps to reference lines",
			ref:   "  a b c\n  d e f",
			layer: "       1 2 3 4 5 6",
			want:  "1 2 3\n       4 5 6",
		},
		{
			name:  "joins layer lines",
			ref:   "a b c d",
			layer: " w x\n y z",
			want:  "w x y z",
		},
		{
			name:  "keeps template gaps",
			ref:   "a   b\n    c",
			layer: "1 2 3",
			want:  "1   2\n    3",
		},
		{
			name:  "negative column clamps",
			ref:   "    a\n  b",
			layer: "x y",
			want:  "x\ny",
		},
		{
			name:  "empty",
			ref:   "",
			layer: "",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Realign(layout(tt.layer), BuildTemplate(layout(tt.ref)), textpos.Runes)
			if err != nil {
				t.Fatalf("Realign error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Realign =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRealignIncompatible(t *testing.T) {
	tmpl := BuildTemplate(layout("a b c"))
	for _, layer := range []string{"x y", "w x y z", ""} {
		if _, err := Realign(layout(layer), tmpl, textpos.Runes); !errors.Is(err, ErrIncompatible) {
			t.Errorf("Realign(%q) error = %v, want ErrIncompatible", layer, err)
		}
	}
}

func TestRealignCells(t *testing.T) {
	tmpl := BuildTemplate(layout("a    b"))
	layer := []Token{{Contents: "日本"}, {Contents: "x"}}

	runes, _ := Realign(layer, tmpl, textpos.Runes)
	if runes != "日本   x" {
		t.Errorf("runes = %q", runes)
	}
	cells, _ := Realign(layer, tmpl, textpos.Cells)
	if cells != "日本 x" {
		t.Errorf("cells = %q", cells)
	}
}

// Properties checked over a set of reference/layer pairs.
var propertyCases = []struct {
	ref, layer string
}{
	{"a b c", "a  b  c"},
	{"  esc  f1  f2\n  grv  1   2", "  @long _ _ x y #(a)"},
	{"a   b   c   d\ni   j   k   l", "_ _ #(c\\c) _\n@iiiiii _ _ _"},
	{"a b\nc d\ne f", "x y z w v u"},
	{"q w e r t", "aaaa bbbb c dd eeeee"},
}

func TestRealignIdempotent(t *testing.T) {
	for _, c := range propertyCases {
		layer := layout(c.layer)
		tmpl := BuildTemplate(layout(c.ref))
		once, err := Realign(layer, tmpl, textpos.Runes)
		if err != nil {
			t.Fatalf("Realign(%q): %v", c.layer, err)
		}
		indent := strings.Repeat(" ", layer[0].Column)
		twice, err := Realign(layout(indent+once), tmpl, textpos.Runes)
		if err != nil {
			t.Fatalf("second Realign(%q): %v", once, err)
		}
		if once != twice {
			t.Errorf("not idempotent:\n%q\n%q", once, twice)
		}
	}
}

func TestRealignPreservesTokens(t *testing.T) {
	for _, c := range propertyCases {
		layer := layout(c.layer)
		out, _ := Realign(layer, BuildTemplate(layout(c.ref)), textpos.Runes)
		if got, want := strings.Fields(out), words(layer); !reflect.DeepEqual(got, want) {
			t.Errorf("tokens = %q, want %q", got, want)
		}
	}
}

func TestRealignColumnFidelity(t *testing.T) {
	for _, c := range propertyCases {
		layer := layout(c.layer)
		tmpl := BuildTemplate(layout(c.ref))
		out, _ := Realign(layer, tmpl, textpos.Runes)

		indent := layer[0].Column
		got := GroupByLine(layout(strings.Repeat(" ", indent) + out))
		if len(got) != len(tmpl) {
			t.Fatalf("%q: %d output lines, want %d", out, len(got), len(tmpl))
		}
		for i, line := range got {
			prevEnd := -1
			for j, tok := range line {
				col := tok.Column - indent
				want := max(tmpl[i][j], 0)
				if j > 0 {
					want = max(tmpl[i][j], prevEnd+1)
				}
				if col != want {
					t.Errorf("%q line %d token %q at column %d, want %d", out, i, tok.Contents, col, want)
				}
				prevEnd = col + utf8.RuneCountInString(tok.Contents)
			}
		}
	}
}

func TestNormalizeWidth(t *testing.T) {
	tests := []struct {
		name  string
		ref   string
		width int
		want  string
	}{
		{
			name:  "single line",
			ref:   "a b c",
			width: 4,
			want:  "a   b   c   ",
		},
		{
			name:  "keeps line starts",
			ref:   "    esc f1\n      grv 1",
			width: 5,
			want:  "esc  f1   \n      grv  1    ",
		},
		{
			name:  "shrinks",
			ref:   "a      b      c",
			width: 2,
			want:  "a b c ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeWidth(layout(tt.ref), tt.width, textpos.Runes)
			if err != nil {
				t.Fatalf("NormalizeWidth error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeWidth = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeWidthTooWide(t *testing.T) {
	_, err := NormalizeWidth(layout("esc f1 lctl\nab"), 3, textpos.Runes)
	if !errs.Is(err, errs.ErrCodeTokenTooWide) {
		t.Fatalf("error = %v, want %s", err, errs.ErrCodeTokenTooWide)
	}
	want := "these keys don't fit in a column of size 3:\n  esc lctl"
	if msg := errs.UserMessage(err); msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}

	// A key exactly as wide as the column leaves no separator.
	if _, err := NormalizeWidth(layout("ab"), 2, textpos.Runes); !errs.Is(err, errs.ErrCodeTokenTooWide) {
		t.Errorf("width == len: error = %v", err)
	}
}

func TestNormalizeWidthUnbounded(t *testing.T) {
	for _, w := range []int{-1, 0, 1} {
		if _, err := NormalizeWidth(layout("a"), w, textpos.Runes); !errs.Is(err, errs.ErrCodeTokenTooWide) {
			t.Errorf("width %d: error = %v, want %s", w, err, errs.ErrCodeTokenTooWide)
		}
	}

	got, err := NormalizeWidth(layout("a b c"), 100, textpos.Runes)
	if err != nil {
		t.Fatalf("width 100: %v", err)
	}
	pad := strings.Repeat(" ", 99)
	if want := "a" + pad + "b" + pad + "c" + pad; got != want {
		t.Errorf("width 100: got %d bytes, want %d", len(got), len(want))
	}
}

func TestSkeleton(t *testing.T) {
	ref := layout("  esc f1\n  grv 1")
	tests := []struct {
		p    Placeholder
		want string
	}{
		{PlaceholderCopy, "  esc f1 grv 1"},
		{PlaceholderPassthrough, "  _ _ _ _"},
		{PlaceholderBlocked, "  XX XX XX XX"},
		{"@nav", "  @nav @nav @nav @nav"},
	}
	for _, tt := range tests {
		if got := Skeleton(ref, tt.p); got != tt.want {
			t.Errorf("Skeleton(%q) = %q, want %q", tt.p, got, tt.want)
		}
	}
	if got := Skeleton(nil, PlaceholderBlocked); got != "" {
		t.Errorf("Skeleton(nil) = %q", got)
	}
}
