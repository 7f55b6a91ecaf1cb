// Package bibtex implements a minimal lexer/parser for BibTeX source,
// producing a syntax.Node tree with byte ranges plus typed accessor views
// (Entry, StringDef, Field). Grounded on the shape implied by
// original_source/src/syntax/bibtex (referenced by citeproc and the
// diagnostics analyzer, not included verbatim in the filtered source).
package bibtex

import "github.com/texls/texls/internal/syntax"

// Token kinds. The Kind space starts at 200 so a stray cast from the latex
// package's Kind space fails loudly rather than aliasing.
const (
	WHITESPACE syntax.Kind = iota + 200
	COMMENT
	TYPE // "@article", "@string", "@comment", "@preamble"
	WORD
	L_DELIM // '{' or '('
	R_DELIM // '}' or ')'
	COMMA
	EQUALITY_SIGN
	QUOTE // '"'
	POUND // '#' string concatenation operator
	OTHER_TOKEN
)

// Node (interior) kinds.
const (
	ROOT syntax.Kind = iota + 300
	JUNK
	PREAMBLE
	STRING
	ENTRY
	FIELD
	KEY
	VALUE
	WORD_VALUE
	QUOTE_VALUE
	CURLY_VALUE
	CONCAT
)

// EntryTypeText strips the leading '@' from a TYPE token's text and
// lowercases nothing (BibTeX entry types are matched case-insensitively by
// convention but the raw text is preserved for diagnostics/hover).
func EntryTypeText(tok *syntax.Node) string {
	if tok == nil || len(tok.Text) == 0 {
		return ""
	}
	return tok.Text[1:]
}
