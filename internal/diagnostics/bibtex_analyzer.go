package diagnostics

import (
	"github.com/texls/texls/internal/lineindex"
	"github.com/texls/texls/internal/syntax"
	"github.com/texls/texls/internal/syntax/bibtex"
)

// AnalyzeBibtex walks a parsed BibTeX tree and emits the four structural
// diagnostic kinds named in §4.5: missing delimiter, missing key, missing
// equality sign, missing field value.
//
// Each kind's precondition is independent of the others but is only
// checked once the tree shape makes it meaningful: a missing key can only
// be diagnosed once the opening delimiter was actually found (otherwise
// the parser never attempted to read one at all). This resolves the open
// question in §9 about the duplicated missing-key check: with the
// preconditions ordered this way, scenario 4 (`@article foo, ...`, no
// opening brace) produces exactly the one delimiter diagnostic.
func AnalyzeBibtex(root *syntax.Node, index *lineindex.LineIndex) []Diagnostic {
	var out []Diagnostic
	for _, entry := range bibtex.Entries(root) {
		out = append(out, analyzeEntry(entry, index)...)
	}
	return out
}

func analyzeEntry(entry *syntax.Node, index *lineindex.LineIndex) []Diagnostic {
	typeTok := bibtex.EntryType(entry)
	if typeTok == nil {
		return nil
	}
	typeRange := index.RangeToLSP(typeTok.Start, typeTok.End)

	if !bibtex.HasOpenDelim(entry) {
		return []Diagnostic{{
			Range:    typeRange,
			Message:  `Expecting a curly bracket: "{"`,
			Severity: severityError,
			Source:   "texls",
		}}
	}

	var out []Diagnostic
	if !bibtex.HasKey(entry) {
		out = append(out, Diagnostic{
			Range:    typeRange,
			Message:  "Expecting a key",
			Severity: severityError,
			Source:   "texls",
		})
	}

	for _, field := range bibtex.Fields(entry) {
		out = append(out, analyzeField(field, index)...)
	}
	return out
}

func analyzeField(field *syntax.Node, index *lineindex.LineIndex) []Diagnostic {
	if len(field.Children) == 0 {
		return nil
	}
	nameRange := index.RangeToLSP(field.Children[0].Start, field.Children[0].End)

	if !bibtex.HasEquals(field) {
		return []Diagnostic{{
			Range:    nameRange,
			Message:  `Expecting an equality sign: "="`,
			Severity: severityError,
			Source:   "texls",
		}}
	}

	if bibtex.FieldValue(field) == nil {
		return []Diagnostic{{
			Range:    nameRange,
			Message:  "Expecting a field value",
			Severity: severityError,
			Source:   "texls",
		}}
	}
	return nil
}
