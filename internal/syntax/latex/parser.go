package latex

import (
	"strings"

	"github.com/texls/texls/internal/syntax"
)

// Parse lexes and parses LaTeX source text into a concrete syntax tree.
// Parsing never fails: malformed input produces a tree with missing
// groups rather than an error (§7: "parsing always produces a tree").
func Parse(text string) *syntax.Node {
	p := &parser{tokens: lex(text), text: text}
	children := p.parseContent(func(rawToken) bool { return false })
	return syntax.NewNode(ROOT, children...)
}

type parser struct {
	tokens []rawToken
	pos    int
	text   string
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

// parseContent consumes tokens into nodes until stop(tok) is true for the
// next pending token, or input is exhausted.
func (p *parser) parseContent(stop func(rawToken) bool) []*syntax.Node {
	var out []*syntax.Node
	for {
		t, ok := p.peek()
		if !ok || stop(t) {
			return out
		}
		p.pos++
		switch t.kind {
		case COMMAND_NAME:
			out = append(out, p.parseCommand(t))
		case L_BRACE:
			out = append(out, p.parseCurlyGeneric(t))
		default:
			out = append(out, p.token(t))
		}
	}
}

func commandWord(t rawToken) string {
	return strings.TrimPrefix(strings.TrimSuffix(t.text, "*"), "\\")
}

func (p *parser) parseCommand(cmd rawToken) *syntax.Node {
	name := commandWord(cmd)
	cmdTok := p.token(cmd)

	switch {
	case name == "begin":
		return p.parseEnvironment(cmdTok)
	case SectionCommands[name] != syntax.Kind(0):
		return p.parseSection(cmdTok, SectionCommands[name])
	case LabelDefinitionCommands[name]:
		return p.parseSingleWordCommand(cmdTok, LABEL_DEFINITION)
	case LabelReferenceCommands[name]:
		return p.parseWordListCommand(cmdTok, LABEL_REFERENCE)
	case LabelReferenceRangeCommands[name]:
		return p.parseRangeCommand(cmdTok, LABEL_REFERENCE_RANGE)
	case CitationCommands[name]:
		return p.parseWordListCommand(cmdTok, CITATION)
	case IncludeCommands[name]:
		return p.parseWordListCommand(cmdTok, INCLUDE)
	case BibliographyCommands[name]:
		return p.parseWordListCommand(cmdTok, BIBLATEX_INCLUDE)
	case name == "documentclass":
		return p.parseDocumentClass(cmdTok)
	case name == "caption":
		return p.parseCaption(cmdTok)
	case name == "item":
		return p.parseEnumItem(cmdTok)
	case name == "newtheorem":
		return p.parseGenericWithGroups(cmdTok, 3)
	default:
		return p.parseGenericWithGroups(cmdTok, 1)
	}
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

// parseCurlyGeneric consumes a balanced {...} group as a CURLY_GROUP,
// recursively parsing its content.
func (p *parser) parseCurlyGeneric(open rawToken) *syntax.Node {
	children := []*syntax.Node{p.token(open)}
	content := p.parseContent(func(t rawToken) bool { return t.kind == R_BRACE })
	children = append(children, content...)
	if t, ok := p.next(); ok {
		children = append(children, p.token(t)) // R_BRACE
	}
	return syntax.NewNode(CURLY_GROUP, children...)
}

// parseCurlyGroupWord parses a { word } form used by single-key commands.
func (p *parser) parseCurlyGroupWord(kind syntax.Kind) *syntax.Node {
	var children []*syntax.Node
	t, ok := p.peek()
	if !ok || t.kind != L_BRACE {
		return syntax.NewNode(kind)
	}
	p.pos++
	children = append(children, p.token(t))
	children = append(children, p.skipWhitespace()...)
	if w, ok := p.peek(); ok && w.kind == WORD {
		p.pos++
		key := syntax.NewNode(KEY, p.token(w))
		children = append(children, key)
	}
	children = append(children, p.skipWhitespace()...)
	if r, ok := p.peek(); ok && r.kind == R_BRACE {
		p.pos++
		children = append(children, p.token(r))
	}
	return syntax.NewNode(kind, children...)
}

// parseCurlyGroupWordList parses a { word, word, ... } form.
func (p *parser) parseCurlyGroupWordList() *syntax.Node {
	var children []*syntax.Node
	t, ok := p.peek()
	if !ok || t.kind != L_BRACE {
		return syntax.NewNode(CURLY_GROUP_WORD_LIST)
	}
	p.pos++
	children = append(children, p.token(t))
	for {
		children = append(children, p.skipWhitespace()...)
		w, ok := p.peek()
		if !ok || w.kind == R_BRACE {
			break
		}
		if w.kind == WORD {
			p.pos++
			children = append(children, syntax.NewNode(KEY, p.token(w)))
		} else if w.kind == COMMA {
			p.pos++
			children = append(children, p.token(w))
		} else {
			p.pos++
			children = append(children, p.token(w))
		}
	}
	if r, ok := p.peek(); ok && r.kind == R_BRACE {
		p.pos++
		children = append(children, p.token(r))
	}
	return syntax.NewNode(CURLY_GROUP_WORD_LIST, children...)
}

func (p *parser) parseBrackGroupGeneric() *syntax.Node {
	t, ok := p.peek()
	if !ok || t.kind != L_BRACKET {
		return nil
	}
	p.pos++
	children := []*syntax.Node{p.token(t)}
	content := p.parseContent(func(t rawToken) bool { return t.kind == R_BRACKET })
	children = append(children, content...)
	if r, ok := p.next(); ok {
		children = append(children, p.token(r))
	}
	return syntax.NewNode(BRACK_GROUP, children...)
}

func (p *parser) parseSingleWordCommand(cmdTok *syntax.Node, kind syntax.Kind) *syntax.Node {
	children := []*syntax.Node{cmdTok}
	children = append(children, p.skipWhitespace()...)
	group := p.parseCurlyGroupWord(CURLY_GROUP_WORD)
	children = append(children, group)
	return syntax.NewNode(kind, children...)
}

func (p *parser) parseWordListCommand(cmdTok *syntax.Node, kind syntax.Kind) *syntax.Node {
	children := []*syntax.Node{cmdTok}
	children = append(children, p.skipWhitespace()...)
	group := p.parseCurlyGroupWordList()
	children = append(children, group)
	return syntax.NewNode(kind, children...)
}

func (p *parser) parseRangeCommand(cmdTok *syntax.Node, kind syntax.Kind) *syntax.Node {
	children := []*syntax.Node{cmdTok}
	children = append(children, p.skipWhitespace()...)
	from := p.parseCurlyGroupWord(CURLY_GROUP_WORD)
	children = append(children, from)
	children = append(children, p.skipWhitespace()...)
	to := p.parseCurlyGroupWord(CURLY_GROUP_WORD)
	children = append(children, to)
	return syntax.NewNode(kind, children...)
}

// sectionLevel orders section kinds by nesting depth so that a section
// command's body can be bounded by the next command of equal or higher
// level (§4.9 classifies a label by walking up to its enclosing section,
// which requires sections to actually nest their trailing content).
var sectionLevel = map[syntax.Kind]int{
	PART: 0, CHAPTER: 1, SECTION: 2, SUBSECTION: 3,
	SUBSUBSECTION: 4, PARAGRAPH: 5, SUBPARAGRAPH: 6,
}

func (p *parser) parseSection(cmdTok *syntax.Node, kind syntax.Kind) *syntax.Node {
	children := []*syntax.Node{cmdTok}
	children = append(children, p.skipWhitespace()...)
	if bg := p.parseBrackGroupGeneric(); bg != nil {
		children = append(children, bg)
	}
	children = append(children, p.skipWhitespace()...)
	if t, ok := p.peek(); ok && t.kind == L_BRACE {
		p.pos++
		group := p.parseCurlyGeneric(t)
		children = append(children, group)
	}

	level := sectionLevel[kind]
	body := p.parseContent(func(t rawToken) bool {
		if t.kind != COMMAND_NAME {
			return false
		}
		name := commandWord(t)
		if otherKind, ok := SectionCommands[name]; ok {
			return sectionLevel[otherKind] <= level
		}
		return name == "end"
	})
	children = append(children, body...)
	return syntax.NewNode(kind, children...)
}

func (p *parser) parseCaption(cmdTok *syntax.Node) *syntax.Node {
	children := []*syntax.Node{cmdTok}
	children = append(children, p.skipWhitespace()...)
	if bg := p.parseBrackGroupGeneric(); bg != nil {
		children = append(children, bg)
	}
	children = append(children, p.skipWhitespace()...)
	if t, ok := p.peek(); ok && t.kind == L_BRACE {
		p.pos++
		group := p.parseCurlyGeneric(t)
		children = append(children, group)
	}
	return syntax.NewNode(CAPTION, children...)
}

func (p *parser) parseEnumItem(cmdTok *syntax.Node) *syntax.Node {
	children := []*syntax.Node{cmdTok}
	children = append(children, p.skipWhitespace()...)
	if bg := p.parseBrackGroupGeneric(); bg != nil {
		children = append(children, bg)
	}
	return syntax.NewNode(ENUM_ITEM, children...)
}

func (p *parser) parseDocumentClass(cmdTok *syntax.Node) *syntax.Node {
	children := []*syntax.Node{cmdTok}
	children = append(children, p.skipWhitespace()...)
	if bg := p.parseBrackGroupGeneric(); bg != nil {
		children = append(children, bg)
	}
	children = append(children, p.skipWhitespace()...)
	group := p.parseCurlyGroupWord(CURLY_GROUP_WORD)
	children = append(children, group)
	return syntax.NewNode(DOCUMENT_CLASS, children...)
}

// parseGenericWithGroups wraps an unrecognized command together with up to
// maxGroups trailing curly/bracket groups as a GENERIC_COMMAND node.
func (p *parser) parseGenericWithGroups(cmdTok *syntax.Node, maxGroups int) *syntax.Node {
	children := []*syntax.Node{cmdTok}
	for i := 0; i < maxGroups; i++ {
		t, ok := p.peek()
		if !ok {
			break
		}
		switch t.kind {
		case L_BRACE:
			p.pos++
			children = append(children, p.parseCurlyGeneric(t))
		case L_BRACKET:
			children = append(children, p.parseBrackGroupGeneric())
		default:
			return syntax.NewNode(GENERIC_COMMAND, children...)
		}
	}
	return syntax.NewNode(GENERIC_COMMAND, children...)
}

// parseEnvironment parses \begin{name}[opts] ... \end{name}, dispatching
// verbatim-like environments to a raw scan that does not parse the body.
func (p *parser) parseEnvironment(beginCmd *syntax.Node) *syntax.Node {
	beginChildren := []*syntax.Node{beginCmd}
	beginChildren = append(beginChildren, p.skipWhitespace()...)
	nameGroup := p.parseCurlyGroupWord(CURLY_GROUP_WORD)
	beginChildren = append(beginChildren, nameGroup)
	name := wordOf(nameGroup)
	if bg := p.parseBrackGroupGeneric(); bg != nil {
		beginChildren = append(beginChildren, bg)
	}
	begin := syntax.NewNode(BEGIN, beginChildren...)

	var body []*syntax.Node
	if VerbatimEnvironments[name] {
		body = p.consumeVerbatimUntilEnd(name)
	} else {
		body = p.parseContent(func(t rawToken) bool {
			return t.kind == COMMAND_NAME && commandWord(t) == "end"
		})
	}

	var end *syntax.Node
	if t, ok := p.peek(); ok && t.kind == COMMAND_NAME && commandWord(t) == "end" {
		p.pos++
		endChildren := []*syntax.Node{p.token(t)}
		endChildren = append(endChildren, p.skipWhitespace()...)
		endChildren = append(endChildren, p.parseCurlyGroupWord(CURLY_GROUP_WORD))
		end = syntax.NewNode(END, endChildren...)
	}

	all := append([]*syntax.Node{begin}, body...)
	if end != nil {
		all = append(all, end)
	}
	return syntax.NewNode(ENVIRONMENT, all...)
}

// consumeVerbatimUntilEnd scans raw text up to (not including) the matching
// \end{name}, producing a single WORD token with the raw content.
func (p *parser) consumeVerbatimUntilEnd(name string) []*syntax.Node {
	startPos := p.pos
	startOffset := len(p.text)
	if startPos < len(p.tokens) {
		startOffset = p.tokens[startPos].start
	}
	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		if t.kind == COMMAND_NAME && commandWord(t) == "end" {
			break
		}
		p.pos++
	}
	endOffset := len(p.text)
	if p.pos < len(p.tokens) {
		endOffset = p.tokens[p.pos].start
	}
	if endOffset <= startOffset {
		return nil
	}
	return []*syntax.Node{syntax.NewToken(WORD, startOffset, p.text[startOffset:endOffset])}
}

func wordOf(curlyGroupWord *syntax.Node) string {
	if curlyGroupWord == nil {
		return ""
	}
	key := curlyGroupWord.FirstChildOfKind(KEY)
	if key == nil {
		return ""
	}
	for _, c := range key.Children {
		if c.Kind == WORD {
			return c.Text
		}
	}
	return ""
}
