package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/uri"
	"github.com/texls/texls/internal/workspace"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newFullWorkspace() workspace.Workspace {
	return workspace.NewParentExpander(workspace.NewChildExpander(workspace.NewBase()))
}

// TestLabelRenameSubsetScenario mirrors §8 scenario 5: foo.tex labels
// "foo" and includes bar.tex; bar.tex and baz.tex both \ref{foo}; baz.tex
// is not included by anything and must not appear in foo.tex's subset.
func TestLabelRenameSubsetScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bar.tex", `\ref{foo}`)
	writeFile(t, dir, "baz.tex", `\ref{foo}`)
	fooPath := writeFile(t, dir, "foo.tex", `\label{foo}\include{bar}`)

	ws := newFullWorkspace()
	fooURI := uri.FromPath(fooPath)
	ws.Open(fooURI, `\label{foo}\include{bar}`, documents.LanguageLatex)

	subset := ws.Subset(fooURI)
	var names []string
	for _, d := range subset {
		names = append(names, filepath.Base(d.Uri.Path()))
	}
	assert.Contains(t, names, "foo.tex")
	assert.Contains(t, names, "bar.tex")
	assert.NotContains(t, names, "baz.tex")
}

func TestSubsetRootFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "child.tex", `hello`)
	rootPath := writeFile(t, dir, "root.tex", `\include{child}`)

	ws := newFullWorkspace()
	rootURI := uri.FromPath(rootPath)
	ws.Open(rootURI, `\include{child}`, documents.LanguageLatex)

	subset := ws.Subset(rootURI)
	require.NotEmpty(t, subset)
	assert.True(t, subset[0].Uri.Equal(rootURI))
}

func TestSubsetHandlesCycles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.tex", `\include{b}`)
	bPath := writeFile(t, dir, "b.tex", `\include{a}`)

	ws := newFullWorkspace()
	bURI := uri.FromPath(bPath)
	ws.Open(bURI, `\include{a}`, documents.LanguageLatex)

	subset := ws.Subset(bURI)
	assert.LessOrEqual(t, len(subset), 2)
}

func TestBibliographyEdgeIncludedInSubset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "refs.bib", `@article{x,title={T}}`)
	mainPath := writeFile(t, dir, "main.tex", `\bibliography{refs}`)

	ws := newFullWorkspace()
	mainURI := uri.FromPath(mainPath)
	ws.Open(mainURI, `\bibliography{refs}`, documents.LanguageLatex)

	subset := ws.Subset(mainURI)
	var names []string
	for _, d := range subset {
		names = append(names, filepath.Base(d.Uri.Path()))
	}
	assert.Contains(t, names, "refs.bib")
}
