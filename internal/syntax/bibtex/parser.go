package bibtex

import (
	"strings"

	"github.com/texls/texls/internal/syntax"
)

// Parse lexes and parses BibTeX source text into a concrete syntax tree.
// As with the latex grammar, parsing never fails: a malformed entry
// produces a tree missing the absent tokens/groups rather than an error
// (§7 "parsing always produces a tree, possibly containing missing-node
// markers"); the diagnostics analyzer detects the absences.
func Parse(text string) *syntax.Node {
	p := &parser{tokens: lex(text)}
	var children []*syntax.Node
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		if t.kind == TYPE {
			children = append(children, p.parseTypeBlock())
		} else {
			p.pos++
			children = append(children, p.token(t))
		}
	}
	return syntax.NewNode(ROOT, children...)
}

type parser struct {
	tokens []rawToken
	pos    int
}

func (p *parser) peek() (rawToken, bool) {
	if p.pos >= len(p.tokens) {
		return rawToken{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (rawToken, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *parser) token(t rawToken) *syntax.Node {
	return syntax.NewToken(t.kind, t.start, t.text)
}

func (p *parser) skipWhitespace() []*syntax.Node {
	var ws []*syntax.Node
	for {
		t, ok := p.peek()
		if !ok || t.kind != WHITESPACE {
			return ws
		}
		p.pos++
		ws = append(ws, p.token(t))
	}
}

// parseTypeBlock dispatches on the entry-type keyword text.
func (p *parser) parseTypeBlock() *syntax.Node {
	typeTok, _ := p.next()
	kw := strings.ToLower(strings.TrimPrefix(typeTok.text, "@"))
	switch kw {
	case "string":
		return p.parseStringDef(typeTok)
	case "preamble":
		return p.parsePreamble(typeTok)
	case "comment":
		return p.parseCommentBlock(typeTok)
	default:
		return p.parseEntry(typeTok)
	}
}

// parseEntry parses @type{key, field=value, ...}.
func (p *parser) parseEntry(typeTok rawToken) *syntax.Node {
	children := []*syntax.Node{p.token(typeTok)}
	children = append(children, p.skipWhitespace()...)

	t, ok := p.peek()
	if !ok || t.kind != L_DELIM {
		// missing opening delimiter: stop here, leaving the entry with no
		// body (§8 scenario 4).
		return syntax.NewNode(ENTRY, children...)
	}
	p.pos++
	children = append(children, p.token(t))
	children = append(children, p.skipWhitespace()...)

	if w, ok := p.peek(); ok && w.kind == WORD {
		p.pos++
		children = append(children, syntax.NewNode(KEY, p.token(w)))
	}
	children = append(children, p.skipWhitespace()...)

	if c, ok := p.peek(); ok && c.kind == COMMA {
		p.pos++
		children = append(children, p.token(c))
	}

	for {
		children = append(children, p.skipWhitespace()...)
		t, ok := p.peek()
		if !ok || t.kind == R_DELIM {
			break
		}
		if t.kind != WORD {
			p.pos++
			children = append(children, p.token(t))
			continue
		}
		children = append(children, p.parseField())
	}

	if r, ok := p.peek(); ok && r.kind == R_DELIM {
		p.pos++
		children = append(children, p.token(r))
	}
	return syntax.NewNode(ENTRY, children...)
}

// parseField parses name = value [, ].
func (p *parser) parseField() *syntax.Node {
	nameTok, _ := p.next()
	children := []*syntax.Node{p.token(nameTok)}
	children = append(children, p.skipWhitespace()...)

	eq, ok := p.peek()
	if !ok || eq.kind != EQUALITY_SIGN {
		return syntax.NewNode(FIELD, children...)
	}
	p.pos++
	children = append(children, p.token(eq))
	children = append(children, p.skipWhitespace()...)

	value := p.parseValue()
	if value != nil {
		children = append(children, value)
	}
	children = append(children, p.skipWhitespace()...)
	if c, ok := p.peek(); ok && c.kind == COMMA {
		p.pos++
		children = append(children, p.token(c))
	}
	return syntax.NewNode(FIELD, children...)
}

// parseValue parses a single value atom, optionally concatenated with '#'.
func (p *parser) parseValue() *syntax.Node {
	atom := p.parseValueAtom()
	if atom == nil {
		return nil
	}
	children := []*syntax.Node{atom}
	for {
		save := p.pos
		ws := p.skipWhitespace()
		t, ok := p.peek()
		if !ok || t.kind != POUND {
			p.pos = save
			break
		}
		p.pos++
		children = append(children, ws...)
		children = append(children, p.token(t))
		children = append(children, p.skipWhitespace()...)
		next := p.parseValueAtom()
		if next == nil {
			break
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0]
	}
	return syntax.NewNode(CONCAT, children...)
}

func (p *parser) parseValueAtom() *syntax.Node {
	t, ok := p.peek()
	if !ok {
		return nil
	}
	switch t.kind {
	case WORD:
		p.pos++
		return syntax.NewNode(WORD_VALUE, p.token(t))
	case QUOTE:
		return p.parseQuoteValue()
	case L_DELIM:
		return p.parseCurlyValue()
	default:
		return nil
	}
}

func (p *parser) parseQuoteValue() *syntax.Node {
	open, _ := p.next()
	children := []*syntax.Node{p.token(open)}
	for {
		t, ok := p.peek()
		if !ok || t.kind == QUOTE {
			break
		}
		p.pos++
		children = append(children, p.token(t))
	}
	if c, ok := p.peek(); ok && c.kind == QUOTE {
		p.pos++
		children = append(children, p.token(c))
	}
	return syntax.NewNode(QUOTE_VALUE, children...)
}

func (p *parser) parseCurlyValue() *syntax.Node {
	open, _ := p.next()
	children := []*syntax.Node{p.token(open)}
	depth := 1
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		if t.kind == L_DELIM {
			depth++
		} else if t.kind == R_DELIM {
			depth--
			if depth == 0 {
				p.pos++
				children = append(children, p.token(t))
				break
			}
		}
		p.pos++
		children = append(children, p.token(t))
	}
	return syntax.NewNode(CURLY_VALUE, children...)
}

// parseStringDef parses @string{name = value}.
func (p *parser) parseStringDef(typeTok rawToken) *syntax.Node {
	children := []*syntax.Node{p.token(typeTok)}
	children = append(children, p.skipWhitespace()...)
	t, ok := p.peek()
	if !ok || t.kind != L_DELIM {
		return syntax.NewNode(STRING, children...)
	}
	p.pos++
	children = append(children, p.token(t))
	children = append(children, p.skipWhitespace()...)
	if w, ok := p.peek(); ok && w.kind == WORD {
		p.pos++
		children = append(children, syntax.NewNode(KEY, p.token(w)))
	}
	children = append(children, p.skipWhitespace()...)
	if eq, ok := p.peek(); ok && eq.kind == EQUALITY_SIGN {
		p.pos++
		children = append(children, p.token(eq))
		children = append(children, p.skipWhitespace()...)
		if v := p.parseValue(); v != nil {
			children = append(children, v)
		}
	}
	children = append(children, p.skipWhitespace()...)
	if r, ok := p.peek(); ok && r.kind == R_DELIM {
		p.pos++
		children = append(children, p.token(r))
	}
	return syntax.NewNode(STRING, children...)
}

func (p *parser) parsePreamble(typeTok rawToken) *syntax.Node {
	children := []*syntax.Node{p.token(typeTok)}
	children = append(children, p.skipWhitespace()...)
	t, ok := p.peek()
	if !ok || t.kind != L_DELIM {
		return syntax.NewNode(PREAMBLE, children...)
	}
	p.pos++
	children = append(children, p.token(t))
	children = append(children, p.skipWhitespace()...)
	if v := p.parseValue(); v != nil {
		children = append(children, v)
	}
	children = append(children, p.skipWhitespace()...)
	if r, ok := p.peek(); ok && r.kind == R_DELIM {
		p.pos++
		children = append(children, p.token(r))
	}
	return syntax.NewNode(PREAMBLE, children...)
}

// parseCommentBlock skips a balanced @comment{...} block as JUNK.
func (p *parser) parseCommentBlock(typeTok rawToken) *syntax.Node {
	children := []*syntax.Node{p.token(typeTok)}
	children = append(children, p.skipWhitespace()...)
	t, ok := p.peek()
	if !ok || t.kind != L_DELIM {
		return syntax.NewNode(JUNK, children...)
	}
	p.pos++
	children = append(children, p.token(t))
	depth := 1
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		if t.kind == L_DELIM {
			depth++
		} else if t.kind == R_DELIM {
			depth--
			if depth == 0 {
				p.pos++
				children = append(children, p.token(t))
				break
			}
		}
		p.pos++
		children = append(children, p.token(t))
	}
	return syntax.NewNode(JUNK, children...)
}
