package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/uri"
)

func openLatex(t *testing.T, store *documents.Store, path, text string) *documents.Document {
	t.Helper()
	u := uri.FromPath(path)
	return store.Open(u, text, documents.LanguageLatex)
}

func TestAnalyzeLatexStructureMissingEnd(t *testing.T) {
	store := documents.NewStore()
	doc := openLatex(t, store, "/tmp/a.tex", `\begin{figure}\caption{X}`)

	diags := AnalyzeLatexStructure(doc.Latex.Root, doc.Index)

	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, `\end{figure}`)
}

func TestAnalyzeLatexStructureCleanEnvironment(t *testing.T) {
	store := documents.NewStore()
	doc := openLatex(t, store, "/tmp/a.tex", `\begin{figure}\caption{X}\end{figure}`)

	diags := AnalyzeLatexStructure(doc.Latex.Root, doc.Index)

	assert.Empty(t, diags)
}

func TestAnalyzeLatexDuplicateLabels(t *testing.T) {
	store := documents.NewStore()
	docA := openLatex(t, store, "/tmp/a.tex", `\label{fig:x}`)
	docB := openLatex(t, store, "/tmp/b.tex", `\label{fig:x}`)

	byURI := AnalyzeLatexDuplicateLabels([]*documents.Document{docA, docB})

	assert.Empty(t, byURI[docA.Uri.String()])
	require.Len(t, byURI[docB.Uri.String()], 1)
	assert.Contains(t, byURI[docB.Uri.String()][0].Message, "fig:x")
}

func TestAnalyzeLatexUnresolvedReferences(t *testing.T) {
	store := documents.NewStore()
	docA := openLatex(t, store, "/tmp/a.tex", `\ref{fig:x}\cite{smith2020}`)

	diags := AnalyzeLatexUnresolvedReferences(docA, []*documents.Document{docA})

	require.Len(t, diags, 2)
	assert.Contains(t, diags[0].Message, "fig:x")
	assert.Contains(t, diags[1].Message, "smith2020")
}

func TestAnalyzeLatexResolvedReferencesProduceNoDiagnostics(t *testing.T) {
	store := documents.NewStore()
	docA := openLatex(t, store, "/tmp/a.tex", `\label{fig:x}\ref{fig:x}`)

	diags := AnalyzeLatexUnresolvedReferences(docA, []*documents.Document{docA})

	assert.Empty(t, diags)
}
