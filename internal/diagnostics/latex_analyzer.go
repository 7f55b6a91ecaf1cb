package diagnostics

import (
	"fmt"

	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/lineindex"
	"github.com/texls/texls/internal/syntax"
	"github.com/texls/texls/internal/syntax/bibtex"
	"github.com/texls/texls/internal/syntax/latex"
)

// AnalyzeLatexStructure emits local structural diagnostics for a single
// LaTeX document: environments whose \end is missing.
func AnalyzeLatexStructure(root *syntax.Node, index *lineindex.LineIndex) []Diagnostic {
	var out []Diagnostic
	for _, n := range root.Descendants() {
		if n.Kind != latex.ENVIRONMENT {
			continue
		}
		if n.FirstChildOfKind(latex.END) == nil {
			begin := n.FirstChildOfKind(latex.BEGIN)
			if begin == nil {
				continue
			}
			out = append(out, Diagnostic{
				Range:    index.RangeToLSP(begin.Start, begin.End),
				Message:  fmt.Sprintf(`Expecting "\end{%s}"`, latex.EnvironmentName(n)),
				Severity: severityError,
				Source:   "texls",
			})
		}
	}
	return out
}

// AnalyzeLatexDuplicateLabels emits a diagnostic for every label
// definition whose name already occurred earlier within the same subset
// (§4.5: "duplicate entry/label").
func AnalyzeLatexDuplicateLabels(subset []*documents.Document) map[string][]Diagnostic {
	seen := make(map[string]bool)
	out := make(map[string][]Diagnostic)
	for _, doc := range subset {
		if doc.Latex == nil {
			continue
		}
		for _, n := range doc.Latex.Root.Descendants() {
			if n.Kind != latex.LABEL_DEFINITION {
				continue
			}
			name := latex.LabelName(n)
			if name == "" {
				continue
			}
			if seen[name] {
				out[doc.Uri.String()] = append(out[doc.Uri.String()], Diagnostic{
					Range:    doc.Index.RangeToLSP(n.Start, n.End),
					Message:  fmt.Sprintf("Duplicate label: %q", name),
					Severity: severityWarning,
					Source:   "texls",
				})
			}
			seen[name] = true
		}
	}
	return out
}

// AnalyzeLatexUnresolvedReferences emits a diagnostic for every label
// reference/range/citation in doc whose target is not defined anywhere in
// subset (§4.5: "unresolved citation/label").
func AnalyzeLatexUnresolvedReferences(doc *documents.Document, subset []*documents.Document) []Diagnostic {
	if doc.Latex == nil {
		return nil
	}
	labels := collectLabelNames(subset)
	keys := collectBibKeys(subset)

	var out []Diagnostic
	for _, n := range doc.Latex.Root.Descendants() {
		switch n.Kind {
		case latex.LABEL_REFERENCE:
			for _, name := range latex.ReferenceNames(n) {
				if !labels[name] {
					out = append(out, unresolvedDiag(doc, n, "label", name))
				}
			}
		case latex.LABEL_REFERENCE_RANGE:
			from, to := latex.ReferenceRange(n)
			if from != "" && !labels[from] {
				out = append(out, unresolvedDiag(doc, n, "label", from))
			}
			if to != "" && !labels[to] {
				out = append(out, unresolvedDiag(doc, n, "label", to))
			}
		case latex.CITATION:
			for _, name := range latex.ReferenceNames(n) {
				if !keys[name] {
					out = append(out, unresolvedDiag(doc, n, "entry", name))
				}
			}
		}
	}
	return out
}

func unresolvedDiag(doc *documents.Document, n *syntax.Node, kind, name string) Diagnostic {
	return Diagnostic{
		Range:    doc.Index.RangeToLSP(n.Start, n.End),
		Message:  fmt.Sprintf("Undefined %s: %q", kind, name),
		Severity: severityWarning,
		Source:   "texls",
	}
}

func collectLabelNames(subset []*documents.Document) map[string]bool {
	out := make(map[string]bool)
	for _, doc := range subset {
		if doc.Latex == nil {
			continue
		}
		for _, n := range doc.Latex.Root.Descendants() {
			if n.Kind == latex.LABEL_DEFINITION {
				if name := latex.LabelName(n); name != "" {
					out[name] = true
				}
			}
		}
	}
	return out
}

func collectBibKeys(subset []*documents.Document) map[string]bool {
	out := make(map[string]bool)
	for _, doc := range subset {
		if doc.Bibtex == nil {
			continue
		}
		for _, entry := range bibtex.Entries(doc.Bibtex.Root) {
			if key := bibtex.EntryKey(entry); key != "" {
				out[key] = true
			}
		}
	}
	return out
}
