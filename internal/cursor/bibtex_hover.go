package cursor

import (
	"strings"

	"github.com/texls/texls/internal/syntax"
	"github.com/texls/texls/internal/syntax/bibtex"
)

// BibtexHoverKind classifies what a BibTeX cursor is resting on for
// hover/completion purposes (§C supplemented feature: "hovering an
// @article entry-type token shows its required/optional field list;
// hovering a @string-macro reference shows the referenced definition").
type BibtexHoverKind int

const (
	BibtexHoverNone BibtexHoverKind = iota
	BibtexHoverEntryType
	BibtexHoverStringRef
)

// entryFieldCatalog gives the required/optional field sets for the
// handful of entry types a LaTeX workspace encounters most often. Types
// outside this table still resolve (BibtexHoverEntryType with empty
// lists) rather than falling back to "no hover".
var entryFieldCatalog = map[string]struct {
	Required []string
	Optional []string
}{
	"article":      {[]string{"author", "title", "journal", "year"}, []string{"volume", "number", "pages", "month", "doi", "note"}},
	"book":         {[]string{"author", "title", "publisher", "year"}, []string{"volume", "series", "address", "edition", "isbn", "note"}},
	"inproceedings": {[]string{"author", "title", "booktitle", "year"}, []string{"editor", "pages", "organization", "publisher", "note"}},
	"techreport":   {[]string{"author", "title", "institution", "year"}, []string{"number", "address", "note"}},
	"phdthesis":    {[]string{"author", "title", "school", "year"}, []string{"address", "note"}},
	"misc":         {nil, []string{"author", "title", "howpublished", "year", "note", "url"}},
}

// BibtexHover derives the hover kind for a cursor positioned over a
// BibTeX tree, along with the data it resolves to: for an entry-type
// token, the (required, optional) field lists; for a @string reference,
// the resolved definition text.
type BibtexHover struct {
	Kind           BibtexHoverKind
	EntryType      string
	RequiredFields []string
	OptionalFields []string
	StringName     string
	StringValue    string
}

// DetectBibtexHover inspects c.Node (expected to come from NewBibtex) and,
// if it rests on an entry-type token or a WORD_VALUE referencing a
// @string macro, resolves the hover payload against root's @string
// definitions.
func DetectBibtexHover(c *Cursor, root *syntax.Node) *BibtexHover {
	if c.IsNothing() {
		return nil
	}
	n := c.Node

	if n.Kind == bibtex.TYPE {
		name := strings.ToLower(bibtex.EntryTypeText(n))
		catalog := entryFieldCatalog[name]
		return &BibtexHover{
			Kind:           BibtexHoverEntryType,
			EntryType:      name,
			RequiredFields: catalog.Required,
			OptionalFields: catalog.Optional,
		}
	}

	if n.Kind == bibtex.WORD && n.Parent != nil && n.Parent.Kind == bibtex.WORD_VALUE {
		name := strings.ToLower(n.Text)
		defs := stringDefs(root)
		if value, ok := defs[name]; ok {
			return &BibtexHover{Kind: BibtexHoverStringRef, StringName: name, StringValue: value}
		}
	}

	return nil
}

func stringDefs(root *syntax.Node) map[string]string {
	defs := make(map[string]string)
	for _, str := range bibtex.Strings(root) {
		name := strings.ToLower(bibtex.EntryKey(str))
		value := bibtex.ResolveText(bibtex.StringValue(str), defs)
		if name != "" {
			defs[name] = value
		}
	}
	return defs
}
