package latex

import (
	"strings"

	"github.com/texls/texls/internal/syntax"
)

// Root walks up from any node to the ROOT ancestor.
func Root(n *syntax.Node) *syntax.Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Words returns the text of every KEY child of a CURLY_GROUP_WORD_LIST or
// CURLY_GROUP_WORD node, in source order.
func Words(group *syntax.Node) []string {
	if group == nil {
		return nil
	}
	var out []string
	for _, key := range group.ChildrenOfKind(KEY) {
		for _, c := range key.Children {
			if c.Kind == WORD {
				out = append(out, c.Text)
			}
		}
	}
	return out
}

// Word returns the single word in a CURLY_GROUP_WORD node, or "".
func Word(group *syntax.Node) string {
	words := Words(group)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

// CommandNameText strips the leading backslash and any trailing '*' from a
// COMMAND_NAME token's text.
func CommandNameText(tok *syntax.Node) string {
	if tok == nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSuffix(tok.Text, "*"), "\\")
}

// LabelName returns the key under a LABEL_DEFINITION node.
func LabelName(def *syntax.Node) string {
	return Word(def.FirstChildOfKind(CURLY_GROUP_WORD))
}

// ReferenceNames returns the keys under a LABEL_REFERENCE or CITATION node.
func ReferenceNames(ref *syntax.Node) []string {
	return Words(ref.FirstChildOfKind(CURLY_GROUP_WORD_LIST))
}

// ReferenceRange returns the (from, to) keys of a LABEL_REFERENCE_RANGE node.
func ReferenceRange(rng *syntax.Node) (from, to string) {
	groups := rng.ChildrenOfKind(CURLY_GROUP_WORD)
	if len(groups) > 0 {
		from = Word(groups[0])
	}
	if len(groups) > 1 {
		to = Word(groups[1])
	}
	return
}

// IncludePaths returns the comma-separated target paths of an INCLUDE or
// BIBLATEX_INCLUDE node.
func IncludePaths(inc *syntax.Node) []string {
	return Words(inc.FirstChildOfKind(CURLY_GROUP_WORD_LIST))
}

// EnvironmentName returns the name of an ENVIRONMENT's BEGIN child.
func EnvironmentName(env *syntax.Node) string {
	begin := env.FirstChildOfKind(BEGIN)
	if begin == nil {
		return ""
	}
	return Word(begin.FirstChildOfKind(CURLY_GROUP_WORD))
}

// EnvironmentContent returns an ENVIRONMENT's children excluding BEGIN/END.
func EnvironmentContent(env *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, c := range env.Children {
		if c.Kind == BEGIN || c.Kind == END {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CaptionText flattens a CAPTION node's CURLY_GROUP body to plain text,
// dropping command markup (used for float label rendering text, §4.9).
func CaptionText(caption *syntax.Node) string {
	group := caption.FirstChildOfKind(CURLY_GROUP)
	if group == nil {
		return ""
	}
	var sb strings.Builder
	for _, tok := range group.Tokens() {
		switch tok.Kind {
		case WORD, WHITESPACE:
			sb.WriteString(tok.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// DocumentClassName returns the class name of a DOCUMENT_CLASS node.
func DocumentClassName(dc *syntax.Node) string {
	return Word(dc.FirstChildOfKind(CURLY_GROUP_WORD))
}

// FindLabelDefinition searches the whole tree rooted at root for a
// LABEL_DEFINITION node whose key equals name; first match in document
// order wins (§4.9).
func FindLabelDefinition(root *syntax.Node, name string) *syntax.Node {
	for _, n := range root.Descendants() {
		if n.Kind == LABEL_DEFINITION && LabelName(n) == name {
			return n
		}
	}
	return nil
}

// FindEnclosingEnvironment walks ancestors of n looking for the nearest
// ENVIRONMENT node.
func FindEnclosingEnvironment(n *syntax.Node) *syntax.Node {
	for _, a := range n.Ancestors() {
		if a.Kind == ENVIRONMENT {
			return a
		}
	}
	return nil
}

// EnclosingWordCommand walks up from a WORD token found inside a
// CURLY_GROUP_WORD or CURLY_GROUP_WORD_LIST argument (via its wrapping
// KEY node) to the command node that owns that argument — a
// LABEL_DEFINITION, LABEL_REFERENCE, LABEL_REFERENCE_RANGE, CITATION,
// INCLUDE, or BIBLATEX_INCLUDE. Returns nil when n isn't positioned
// inside one of these single/list word arguments (the token's immediate
// parent is the KEY wrapper, never the command node itself, so callers
// that need to classify "which kind of reference am I inside" must go
// through this rather than inspecting n.Parent directly).
func EnclosingWordCommand(n *syntax.Node) *syntax.Node {
	if n == nil || n.Parent == nil || n.Parent.Kind != KEY {
		return nil
	}
	group := n.Parent.Parent
	if group == nil {
		return nil
	}
	switch group.Kind {
	case CURLY_GROUP_WORD, CURLY_GROUP_WORD_LIST:
		return group.Parent
	default:
		return nil
	}
}

// FindEnclosingSection walks ancestors of n looking for the nearest
// section-family node.
func FindEnclosingSection(n *syntax.Node) *syntax.Node {
	for _, a := range n.Ancestors() {
		if SectionPrefix(a.Kind) != "" {
			return a
		}
	}
	return nil
}

// SectionTitleText flattens a section node's CURLY_GROUP title to text.
func SectionTitleText(section *syntax.Node) string {
	group := section.FirstChildOfKind(CURLY_GROUP)
	if group == nil {
		return ""
	}
	var sb strings.Builder
	for _, tok := range group.Tokens() {
		if tok.Kind == WORD || tok.Kind == WHITESPACE {
			sb.WriteString(tok.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// FindCaptionChild returns the first CAPTION descendant of n that is not
// itself nested inside a deeper environment (the float's own caption).
func FindCaptionChild(n *syntax.Node) *syntax.Node {
	for _, d := range n.Descendants() {
		if d.Kind == CAPTION {
			return d
		}
	}
	return nil
}
