package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/uri"
)

func openLatex(t *testing.T, store *documents.Store, path, text string) *documents.Document {
	t.Helper()
	return store.Open(uri.FromPath(path), text, documents.LanguageLatex)
}

func TestRenderLabelFloatRoundTrip(t *testing.T) {
	store := documents.NewStore()
	doc := openLatex(t, store, "/tmp/a.tex", `\begin{figure}\label{fig:x}\caption{A caption}\end{figure}`)

	rendered := Render([]*documents.Document{doc}, "fig:x")

	require.NotNil(t, rendered)
	assert.Equal(t, KindFloat, rendered.Kind)
	assert.Equal(t, "Figure", rendered.Prefix)
	assert.Equal(t, "A caption", rendered.Text)
}

func TestRenderLabelSection(t *testing.T) {
	store := documents.NewStore()
	doc := openLatex(t, store, "/tmp/a.tex", `\section{Intro}\label{sec:intro}`)

	rendered := Render([]*documents.Document{doc}, "sec:intro")

	require.NotNil(t, rendered)
	assert.Equal(t, KindSection, rendered.Kind)
	assert.Equal(t, "Section", rendered.Prefix)
	assert.Equal(t, "Intro", rendered.Text)
}

func TestRenderLabelTheorem(t *testing.T) {
	store := documents.NewStore()
	doc := openLatex(t, store, "/tmp/a.tex",
		`\newtheorem{lem}{Lemma}\begin{lem}\label{lem:one}\end{lem}`)

	rendered := Render([]*documents.Document{doc}, "lem:one")

	require.NotNil(t, rendered)
	assert.Equal(t, KindTheorem, rendered.Kind)
	assert.Equal(t, "Lemma", rendered.Prefix)
}

func TestRenderLabelEquation(t *testing.T) {
	store := documents.NewStore()
	doc := openLatex(t, store, "/tmp/a.tex", `\begin{equation}\label{eq:one}x=y\end{equation}`)

	rendered := Render([]*documents.Document{doc}, "eq:one")

	require.NotNil(t, rendered)
	assert.Equal(t, KindEquation, rendered.Kind)
}

func TestRenderLabelNotFoundReturnsNil(t *testing.T) {
	store := documents.NewStore()
	doc := openLatex(t, store, "/tmp/a.tex", `\section{Intro}`)

	rendered := Render([]*documents.Document{doc}, "missing")

	assert.Nil(t, rendered)
}

func TestRenderLabelSearchesWholeSubset(t *testing.T) {
	store := documents.NewStore()
	docA := openLatex(t, store, "/tmp/a.tex", `\input{b}`)
	docB := openLatex(t, store, "/tmp/b.tex", `\section{Other}\label{sec:other}`)

	rendered := Render([]*documents.Document{docA, docB}, "sec:other")

	require.NotNil(t, rendered)
	assert.Equal(t, "Other", rendered.Text)
}
