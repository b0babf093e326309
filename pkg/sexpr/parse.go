package sexpr

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"

	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/textpos"
)

// SyntaxError reports malformed source at a byte offset.
type SyntaxError struct {
	Offset   int
	Position textpos.Position
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

// fragment is a significant lexer token after comments and whitespace
// have been dropped and stray characters glued back onto their words.
type fragment struct {
	typ   lexer.TokenType
	value string
	start int
}

func (f fragment) end() int { return f.start + len(f.value) }

// Parse parses src into a Document. Errors carry the
// [errs.ErrCodeSyntax] code and wrap a [*SyntaxError].
func (p *Parser) Parse(src string) (*Document, error) {
	frags, err := p.scan(src)
	if err == nil {
		var forms []*Node
		forms, err = (&parser{src: src, sym: p.sym, frags: frags}).document()
		if err == nil {
			return &Document{Source: src, Forms: forms}, nil
		}
	}

	if se, ok := err.(*SyntaxError); ok {
		se.Position = textpos.NewIndex(src, textpos.Runes).Position(se.Offset)
	}
	return nil, errs.Wrap(errs.ErrCodeSyntax, err, "malformed configuration")
}

// scan lexes src and returns its significant fragments.
func (p *Parser) scan(src string) ([]fragment, error) {
	lex, err := p.def.LexString("", src)
	if err != nil {
		return nil, err
	}
	toks, err := lexer.ConsumeAll(lex)
	if err != nil {
		if lerr, ok := err.(*lexer.Error); ok {
			return nil, &SyntaxError{Offset: lerr.Pos.Offset, Message: lerr.Msg}
		}
		return nil, err
	}

	frags := make([]fragment, 0, len(toks)/2)
	for _, t := range toks {
		switch {
		case t.EOF():
			return frags, nil
		case p.sym.skippable(t.Type):
			continue
		case t.Type == p.sym.openString:
			return nil, &SyntaxError{Offset: t.Pos.Offset, Message: "unterminated string"}
		case t.Type == p.sym.openComment:
			return nil, &SyntaxError{Offset: t.Pos.Offset, Message: "unterminated block comment"}
		}

		f := fragment{typ: t.Type, value: t.Value, start: t.Pos.Offset}
		if n := len(frags); n > 0 && f.typ == p.sym.stray {
			if prev := &frags[n-1]; p.sym.bare(prev.typ) && prev.end() == f.start {
				prev.value += f.value
				continue
			}
		}
		frags = append(frags, f)
	}
	return frags, nil
}

// parser builds the tree from fragments by recursive descent.
type parser struct {
	src   string
	sym   symbols
	frags []fragment
	pos   int
}

func (p *parser) document() ([]*Node, error) {
	var forms []*Node
	for p.pos < len(p.frags) {
		f := p.frags[p.pos]
		p.pos++
		switch f.typ {
		case p.sym.lparen:
			n, err := p.expression(f.start)
			if err != nil {
				return nil, err
			}
			forms = append(forms, n)
		case p.sym.rparen:
			return nil, &SyntaxError{Offset: f.start, Message: "unexpected ')' without matching '('"}
		default:
			return nil, &SyntaxError{Offset: f.start, Message: fmt.Sprintf("unexpected %q outside of an expression", f.value)}
		}
	}
	return forms, nil
}

// expression parses the body of an expression whose "(" (or "#(") starts
// at open and consumes the closing ")".
func (p *parser) expression(open int) (*Node, error) {
	n := &Node{Kind: KindExpr}
	for p.pos < len(p.frags) {
		f := p.frags[p.pos]
		p.pos++
		switch f.typ {
		case p.sym.rparen:
			n.Span = Span{Start: open, End: f.end()}
			n.Contents = p.src[open:f.end()]
			return n, nil
		case p.sym.lparen:
			child, err := p.expression(f.start)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case p.sym.tapOpen:
			inner, err := p.expression(f.start)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, p.token(TapMacro, inner.Span.Start, inner.Span.End))
		case p.sym.str:
			n.Children = append(n.Children, p.token(String, f.start, f.end()))
		case p.sym.escaped:
			n.Children = append(n.Children, p.token(Escaped, f.start, f.end()))
		case p.sym.stray:
			// A lone "#" followed by "(" after blanks or comments still opens a tap macro.
			if f.value == "#" && p.pos < len(p.frags) && p.frags[p.pos].typ == p.sym.lparen {
				next := p.frags[p.pos]
				p.pos++
				inner, err := p.expression(next.start)
				if err != nil {
					return nil, err
				}
				n.Children = append(n.Children, p.token(TapMacro, f.start, inner.Span.End))
				continue
			}
			n.Children = append(n.Children, p.token(Word, f.start, f.end()))
		default:
			n.Children = append(n.Children, p.token(Word, f.start, f.end()))
		}
	}
	return nil, &SyntaxError{Offset: open, Message: "unclosed '(': missing ')'"}
}

func (p *parser) token(kind TokenKind, start, end int) *Node {
	return &Node{
		Kind:     KindToken,
		Token:    kind,
		Span:     Span{Start: start, End: end},
		Contents: p.src[start:end],
	}
}
