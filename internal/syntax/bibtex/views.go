package bibtex

import (
	"strings"

	"github.com/texls/texls/internal/syntax"
)

// Entries returns every ENTRY node directly under root.
func Entries(root *syntax.Node) []*syntax.Node {
	return root.ChildrenOfKind(ENTRY)
}

// Strings returns every STRING (@string{...}) node directly under root.
func Strings(root *syntax.Node) []*syntax.Node {
	return root.ChildrenOfKind(STRING)
}

// EntryType returns the TYPE token of an ENTRY or STRING node, or nil.
func EntryType(entry *syntax.Node) *syntax.Node {
	if len(entry.Children) == 0 {
		return nil
	}
	if entry.Children[0].Kind == TYPE {
		return entry.Children[0]
	}
	return nil
}

// EntryKey returns the KEY child's word text, or "".
func EntryKey(entry *syntax.Node) string {
	key := entry.FirstChildOfKind(KEY)
	if key == nil || len(key.Children) == 0 {
		return ""
	}
	return key.Children[0].Text
}

// HasOpenDelim reports whether entry has an L_DELIM as a direct child.
func HasOpenDelim(entry *syntax.Node) bool {
	return entry.FirstChildOfKind(L_DELIM) != nil
}

// HasCloseDelim reports whether entry has an R_DELIM as a direct child.
func HasCloseDelim(entry *syntax.Node) bool {
	return entry.FirstChildOfKind(R_DELIM) != nil
}

// HasKey reports whether entry has a KEY child.
func HasKey(entry *syntax.Node) bool {
	return entry.FirstChildOfKind(KEY) != nil
}

// Fields returns every FIELD child of entry.
func Fields(entry *syntax.Node) []*syntax.Node {
	return entry.ChildrenOfKind(FIELD)
}

// FieldName returns a FIELD node's name token text, lowercased.
func FieldName(field *syntax.Node) string {
	if len(field.Children) == 0 {
		return ""
	}
	return strings.ToLower(field.Children[0].Text)
}

// HasEquals reports whether field has an EQUALITY_SIGN child.
func HasEquals(field *syntax.Node) bool {
	return field.FirstChildOfKind(EQUALITY_SIGN) != nil
}

// FieldValue returns a FIELD's value node (WORD_VALUE, QUOTE_VALUE,
// CURLY_VALUE, or CONCAT), or nil if the field has no value.
func FieldValue(field *syntax.Node) *syntax.Node {
	for _, c := range field.Children {
		switch c.Kind {
		case WORD_VALUE, QUOTE_VALUE, CURLY_VALUE, CONCAT:
			return c
		}
	}
	return nil
}

// StringValue returns a STRING node's value node, or nil.
func StringValue(str *syntax.Node) *syntax.Node {
	return FieldValue(str)
}

// ResolveText renders a value node to plain text, resolving @string-macro
// references (WORD_VALUE atoms) against defs and concatenating CONCAT
// parts (§4.7 stage 1: fixed sequence "collect string defs, then flatten").
func ResolveText(value *syntax.Node, defs map[string]string) string {
	if value == nil {
		return ""
	}
	switch value.Kind {
	case WORD_VALUE:
		name := strings.ToLower(wordText(value))
		if resolved, ok := defs[name]; ok {
			return resolved
		}
		return wordText(value)
	case QUOTE_VALUE, CURLY_VALUE:
		return innerText(value)
	case CONCAT:
		var sb strings.Builder
		for _, c := range value.Children {
			switch c.Kind {
			case WORD_VALUE, QUOTE_VALUE, CURLY_VALUE, CONCAT:
				sb.WriteString(ResolveText(c, defs))
			}
		}
		return sb.String()
	default:
		return ""
	}
}

func wordText(value *syntax.Node) string {
	for _, c := range value.Children {
		if c.Kind == WORD {
			return c.Text
		}
	}
	return ""
}

// innerText concatenates WORD tokens between a value's opening/closing
// delimiter tokens, collapsing whitespace runs to single spaces.
func innerText(value *syntax.Node) string {
	var sb strings.Builder
	for i, c := range value.Children {
		if i == 0 || i == len(value.Children)-1 {
			if c.Kind == QUOTE || c.Kind == L_DELIM || c.Kind == R_DELIM {
				continue
			}
		}
		switch c.Kind {
		case WORD:
			sb.WriteString(c.Text)
		case WHITESPACE:
			sb.WriteString(" ")
		}
	}
	return strings.TrimSpace(sb.String())
}
