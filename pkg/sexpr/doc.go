// Package sexpr parses kmonad configuration source into a concrete tree of
// parenthesized expressions and tokens, keeping the exact byte span of every
// node.
//
// # Grammar
//
//	document   = { space } { expression { space } }
//	expression = "(" { space | expression | token } ")"
//	token      = tap-macro | string | escaped | word
//	tap-macro  = "#" { space } expression        one opaque token
//	string     = '"' { any but '"' } '"'
//	escaped    = "\" { any but space }
//	word       = any but space or ")" { any but space or ")" }
//	space      = whitespace | newline | ";;" comment | "#|" comment "|#"
//
// Tokens need no separator between them: "a(b" is one word followed by
// whatever comes after. A word or escaped literal ends where a comment
// starts, so "a;;b" is the word "a" followed by a comment, while a lone ";"
// is an ordinary word.
//
// # Usage
//
// The lexer definition is compiled once by [NewParser]; the returned
// [Parser] is safe for concurrent use.
//
//	p := sexpr.NewParser()
//	doc, err := p.Parse(src)
//	if err != nil {
//	    // errors.Is(err, errors.ErrCodeSyntax)
//	}
//	for _, form := range doc.Forms {
//	    fmt.Println(form.Children[0].Contents)
//	}
//
// Malformed input (unbalanced parentheses, unterminated string or block
// comment, a token outside any expression) fails the whole parse with a
// [*SyntaxError]; there is no recovery mode.
package sexpr
