// Package label resolves a LaTeX label name to a normalized, human
// readable description of the object it labels (§4.9, §3 GLOSSARY
// "RenderedLabel"). Grounded on the classification rules given directly
// in spec.md §4.9, shaped after original_source/src/label.rs's
// render_label entry point (not present verbatim in the filtered
// source, but its output shape — a tagged kind plus optional number and
// text — is named by spec.md's GLOSSARY and §8 round-trip property).
package label

import (
	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/syntax"
	"github.com/texls/texls/internal/syntax/latex"
)

// Kind classifies the kind of object a label targets.
type Kind int

const (
	KindUnknown Kind = iota
	KindSection
	KindFloat
	KindTheorem
	KindEquation
	KindEnumItem
)

// RenderedLabel is the normalized, derived-never-stored description of a
// labelled object (§3 GLOSSARY).
type RenderedLabel struct {
	Kind   Kind
	Prefix string // e.g. "Section", "Figure", a theorem's catalog description
	Text   string // section title / float caption text, if any
	Number string // from the owning document's label_numbers_by_name, if any
}

// Render scans subset for a LABEL_DEFINITION whose key equals name (first
// match in document order wins, §4.9), classifies its enclosing
// structure, and returns the RenderedLabel. Returns nil if no definition
// is found anywhere in subset.
func Render(subset []*documents.Document, name string) *RenderedLabel {
	def, owner := findDefinition(subset, name)
	if def == nil {
		return nil
	}

	number := ""
	if owner.Latex.Extras != nil {
		number = owner.Latex.Extras.LabelNumbersByName[name]
	}

	kind, prefix, text := classify(def, owner.Latex.Extras)
	return &RenderedLabel{Kind: kind, Prefix: prefix, Text: text, Number: number}
}

func findDefinition(subset []*documents.Document, name string) (*syntax.Node, *documents.Document) {
	for _, doc := range subset {
		if doc.Latex == nil {
			continue
		}
		if def := latex.FindLabelDefinition(doc.Latex.Root, name); def != nil {
			return def, doc
		}
	}
	return nil, nil
}

// classify walks def's ancestors to determine what kind of object it
// labels, in the priority order spec.md §4.9 implies: float environment,
// math (equation) environment, theorem-catalog environment, enclosing
// section, then an enclosing \item.
func classify(def *syntax.Node, extras *latex.Extras) (Kind, string, string) {
	env := latex.FindEnclosingEnvironment(def)
	for env != nil {
		name := latex.EnvironmentName(env)

		if prefix, ok := latex.FloatKind(name); ok {
			caption := latex.FindCaptionChild(env)
			text := ""
			if caption != nil {
				text = latex.CaptionText(caption)
			}
			return KindFloat, prefix, text
		}

		if latex.MathEnvironments[name] {
			return KindEquation, "Equation", ""
		}

		if extras != nil {
			if desc, ok := extras.TheoremEnvironments[name]; ok {
				return KindTheorem, desc, ""
			}
		}

		if env.Parent == nil {
			break
		}
		env = latex.FindEnclosingEnvironment(env.Parent)
	}

	if section := latex.FindEnclosingSection(def); section != nil {
		return KindSection, latex.SectionPrefix(section.Kind), latex.SectionTitleText(section)
	}

	for _, a := range def.Ancestors() {
		if a.Kind == latex.ENUM_ITEM {
			return KindEnumItem, "Item", ""
		}
	}

	return KindUnknown, "", ""
}
