package sexpr

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Character classes shared by the rules below.
const (
	blank   = `\t\x0B\x0C \x{00A0}\x{FEFF}`
	newline = `\n\r\x{2028}\x{2029}`
	space   = blank + newline
)

// Rules are tried in order at every position; the first match wins.
// Words and escaped literals may not swallow a comment opener, so a lone
// ";" or "#" that the word patterns cannot take is lexed as Stray and glued
// back onto an adjacent word by the parser.
var rules = lexer.Rules{
	"Root": {
		{Name: "LineComment", Pattern: `;;[^` + newline + `]*`},
		{Name: "BlockComment", Pattern: `#\|(?s:.*?)\|#`},
		{Name: "OpenComment", Pattern: `#\|`},
		{Name: "Space", Pattern: `[` + space + `]+`},
		{Name: "TapOpen", Pattern: `#\(`},
		{Name: "LParen", Pattern: `\(`},
		{Name: "RParen", Pattern: `\)`},
		{Name: "String", Pattern: `"[^"]*"`},
		{Name: "OpenString", Pattern: `"`},
		{Name: "Escaped", Pattern: `\\(?:[^` + space + `;#]|;[^;` + space + `]|#[^|` + space + `])*`},
		{Name: "Word", Pattern: `(?:[^` + space + `);#]|;[^;` + space + `)]|#[^|` + space + `)])+`},
		{Name: "Stray", Pattern: `[;#]`},
	},
}

// symbols holds the token types assigned by the lexer definition.
type symbols struct {
	lineComment  lexer.TokenType
	blockComment lexer.TokenType
	openComment  lexer.TokenType
	space        lexer.TokenType
	tapOpen      lexer.TokenType
	lparen       lexer.TokenType
	rparen       lexer.TokenType
	str          lexer.TokenType
	openString   lexer.TokenType
	escaped      lexer.TokenType
	word         lexer.TokenType
	stray        lexer.TokenType
}

func newSymbols(def *lexer.StatefulDefinition) symbols {
	s := def.Symbols()
	return symbols{
		lineComment:  s["LineComment"],
		blockComment: s["BlockComment"],
		openComment:  s["OpenComment"],
		space:        s["Space"],
		tapOpen:      s["TapOpen"],
		lparen:       s["LParen"],
		rparen:       s["RParen"],
		str:          s["String"],
		openString:   s["OpenString"],
		escaped:      s["Escaped"],
		word:         s["Word"],
		stray:        s["Stray"],
	}
}

// skippable reports whether t separates tokens without being one.
func (s symbols) skippable(t lexer.TokenType) bool {
	return t == s.space || t == s.lineComment || t == s.blockComment
}

// bare reports whether t can absorb an adjacent Stray fragment.
func (s symbols) bare(t lexer.TokenType) bool {
	return t == s.word || t == s.escaped || t == s.stray
}

// Parser holds the compiled lexer definition. Build it once with NewParser
// and reuse it; Parse keeps no state between calls.
type Parser struct {
	def *lexer.StatefulDefinition
	sym symbols
}

// NewParser compiles the kmonad lexer rules.
func NewParser() *Parser {
	def := lexer.MustStateful(rules)
	return &Parser{def: def, sym: newSymbols(def)}
}
