// Package latex implements a minimal lexer/parser for LaTeX source,
// producing a syntax.Node tree with byte ranges, plus typed accessor views
// over that tree (Environment, LabelDefinition, Citation, ...). Grounded on
// the shape described in the original texlab implementation's
// src/syntax/latex module (not included in the retrieval pack's filtered
// source, but referenced by src/label.rs, src/features/cursor.rs and
// src/workspace/{children,parent}_expand.rs, which this package's node
// kinds and accessors are built to satisfy).
package latex

import "github.com/texls/texls/internal/syntax"

// Token kinds.
const (
	WHITESPACE syntax.Kind = iota + 1
	COMMENT
	COMMAND_NAME
	WORD
	L_BRACE
	R_BRACE
	L_BRACKET
	R_BRACKET
	EQUALITY_SIGN
	COMMA
	DOLLAR
	OTHER_TOKEN
)

// Node (interior) kinds.
const (
	ROOT syntax.Kind = iota + 100
	KEY
	CURLY_GROUP
	CURLY_GROUP_WORD
	CURLY_GROUP_WORD_LIST
	CURLY_GROUP_KEY_VALUE
	BRACK_GROUP
	KEY_VALUE_BODY
	KEY_VALUE_PAIR
	GENERIC_COMMAND
	ENVIRONMENT
	BEGIN
	END
	LABEL_DEFINITION
	LABEL_REFERENCE
	LABEL_REFERENCE_RANGE
	CITATION
	CAPTION
	SECTION
	PART
	CHAPTER
	SUBSECTION
	SUBSUBSECTION
	PARAGRAPH
	SUBPARAGRAPH
	ENUM_ITEM
	INCLUDE
	IMPORT
	BIBLATEX_INCLUDE
	DOCUMENT_CLASS
	EQUATION
	MATH_OPERATOR
)

// IsCommandName reports whether kind is a command-name token ("\foo").
func IsCommandName(kind syntax.Kind) bool {
	return kind == COMMAND_NAME
}

// sectionKindPrefix maps a section Kind to its display prefix (§4.9).
var sectionKindPrefix = map[syntax.Kind]string{
	PART:          "Part",
	CHAPTER:       "Chapter",
	SECTION:       "Section",
	SUBSECTION:    "Subsection",
	SUBSUBSECTION: "Subsubsection",
	PARAGRAPH:     "Paragraph",
	SUBPARAGRAPH:  "Subparagraph",
}

// SectionPrefix returns the display prefix for a section Kind, or "" if
// kind is not a section kind.
func SectionPrefix(kind syntax.Kind) string {
	return sectionKindPrefix[kind]
}

// VerbatimEnvironments lists environment names whose body is not parsed as
// structured source (§4.6).
var VerbatimEnvironments = map[string]bool{
	"asy": true, "asycode": true, "luacode": true,
	"lstlisting": true, "minted": true, "verbatim": true,
}

// MathEnvironments lists environment names whose label targets are
// rendered as Equation (§4.9).
var MathEnvironments = map[string]bool{
	"equation": true, "equation*": true, "align": true, "align*": true,
	"gather": true, "gather*": true, "multline": true, "multline*": true,
	"flalign": true, "flalign*": true, "math": true, "displaymath": true,
}

// FloatKind classifies a float environment name to its rendered kind label
// (§4.9). Returns ("", false) if name is not a float environment.
func FloatKind(name string) (string, bool) {
	switch name {
	case "figure", "subfigure":
		return "Figure", true
	case "table", "subtable":
		return "Table", true
	case "listing", "lstlisting":
		return "Listing", true
	case "algorithm":
		return "Algorithm", true
	default:
		return "", false
	}
}

// LabelDefinitionCommands name commands that introduce a label definition.
var LabelDefinitionCommands = map[string]bool{"label": true}

// LabelReferenceCommands name commands that reference one or more labels
// by a comma-separated word list.
var LabelReferenceCommands = map[string]bool{
	"ref": true, "autoref": true, "eqref": true, "cref": true,
	"Cref": true, "vref": true, "nameref": true, "pageref": true,
}

// LabelReferenceRangeCommands name commands that reference a label range
// given as two word arguments.
var LabelReferenceRangeCommands = map[string]bool{
	"crefrange": true, "Crefrange": true,
}

// CitationCommands name commands that cite one or more BibTeX entries.
var CitationCommands = map[string]bool{
	"cite": true, "citep": true, "citet": true, "citeauthor": true,
	"citeyear": true, "nocite": true, "textcite": true, "parencite": true,
}

// IncludeCommands name commands that include another LaTeX source file.
var IncludeCommands = map[string]bool{
	"include": true, "input": true, "subfile": true, "subfileinclude": true,
}

// BibliographyCommands name commands that link to a BibTeX file.
var BibliographyCommands = map[string]bool{
	"bibliography": true, "addbibresource": true,
}

// SectionCommands maps a sectioning command name to its node Kind.
var SectionCommands = map[string]syntax.Kind{
	"part": PART, "chapter": CHAPTER, "section": SECTION,
	"subsection": SUBSECTION, "subsubsection": SUBSUBSECTION,
	"paragraph": PARAGRAPH, "subparagraph": SUBPARAGRAPH,
}
