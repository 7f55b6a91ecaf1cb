package citeproc

import (
	"fmt"
	"strings"

	"github.com/texls/texls/internal/syntax"
	"github.com/texls/texls/internal/syntax/bibtex"
)

// stringDefs collects every @string macro definition in root, resolving
// nested macro references as it goes (a macro may reference an earlier
// one), matching §4.7 step 1's "collect string defs" substage.
func stringDefs(root *syntax.Node) map[string]string {
	defs := make(map[string]string)
	for _, str := range bibtex.Strings(root) {
		name := strings.ToLower(bibtex.EntryKey(str))
		if name == "" {
			continue
		}
		defs[name] = bibtex.ResolveText(bibtex.StringValue(str), defs)
	}
	return defs
}

// BuildMiniSource finds the entry named key in root, resolves every
// field's text (flattening @string macro references and concatenations
// against the document's full macro table), and re-emits a minimal,
// self-contained BibTeX entry containing only that entry's fields as
// literal curly-braced values (§4.7 step 1: "collect string defs plus
// the target entry into a minimal re-emitted mini-source"). Returns ""
// if the key does not resolve to an entry, matching the "unknown key"
// failure case (§8 scenario 3).
func BuildMiniSource(root *syntax.Node, key string) string {
	defs := stringDefs(root)

	for _, entry := range bibtex.Entries(root) {
		if bibtex.EntryKey(entry) != key {
			continue
		}
		entryType := ""
		if t := bibtex.EntryType(entry); t != nil {
			entryType = t.Text
		}
		if entryType == "" {
			return ""
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "@%s{%s,\n", entryType, key)
		for _, field := range bibtex.Fields(entry) {
			name := bibtex.FieldName(field)
			if name == "" || !bibtex.HasEquals(field) {
				continue
			}
			value := bibtex.ResolveText(bibtex.FieldValue(field), defs)
			value = escapeFieldValue(value)
			fmt.Fprintf(&sb, "  %s = {%s},\n", name, value)
		}
		sb.WriteString("}\n")
		return sb.String()
	}
	return ""
}

// escapeFieldValue applies the fixed, small escape-normalization fixup
// set from §4.7 step 1: literal braces inside a resolved value would
// break the re-emitted curly-braced field, so they are stripped.
func escapeFieldValue(v string) string {
	v = strings.ReplaceAll(v, "{", "")
	v = strings.ReplaceAll(v, "}", "")
	return v
}
