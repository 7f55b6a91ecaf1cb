package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/log"
	"github.com/texls/texls/internal/uri"
)

// ParentExpander wraps a Workspace, walking upward through ancestor
// directories of a newly opened file-scheme document until it finds (or
// loads) a document that makes the opened document reachable as a child —
// the include closure root (§4.2). This bounds work to the smallest
// enclosing project and guarantees termination at the filesystem root.
type ParentExpander struct {
	Workspace
}

// NewParentExpander wraps inner and registers the expansion open-handler.
func NewParentExpander(inner Workspace) *ParentExpander {
	pe := &ParentExpander{Workspace: inner}
	inner.RegisterOpenHandler(pe.onOpen)
	return pe
}

var latexSourceExts = map[string]bool{".tex": true, ".sty": true, ".cls": true}

func (pe *ParentExpander) onOpen(doc *documents.Document) {
	if doc.Uri.Scheme() != "file" {
		return
	}
	dir := filepath.Dir(doc.Uri.Path())
	for {
		pe.loadSiblingsParallel(dir)
		if hasParent(pe.Workspace, doc.Uri) {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // reached filesystem root; no enclosing project
		}
		dir = parent
	}
}

// loadSiblingsParallel loads every not-yet-loaded LaTeX source file found
// directly in dir, in parallel.
func (pe *ParentExpander) loadSiblingsParallel(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debug("workspace: parent expansion could not read %s: %v", dir, err)
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var wg sync.WaitGroup
	for _, e := range entries {
		if e.IsDir() || !latexSourceExts[filepath.Ext(e.Name())] {
			continue
		}
		cand := uri.FromPath(filepath.Join(dir, e.Name()))
		if pe.Has(cand) {
			continue
		}
		wg.Add(1)
		go func(u uri.Uri) {
			defer wg.Done()
			if _, err := pe.Load(u); err != nil {
				log.Debug("workspace: parent expansion load failed for %s: %v", u, err)
			}
		}(cand)
	}
	wg.Wait()
}

// hasParent reports whether some loaded document-scope root (has a
// top-level \begin{document} and is not itself a subfiles-class document)
// explicitly includes target.
func hasParent(ws Workspace, target uri.Uri) bool {
	for _, other := range ws.Documents() {
		if other.Latex == nil || other.Uri.Equal(target) {
			continue
		}
		if !other.Latex.Extras.HasDocumentEnvironment || other.Latex.Extras.IsSubfiles {
			continue
		}
		for _, link := range other.Latex.Extras.ExplicitLinks {
			if link.Kind != "include" {
				continue
			}
			for _, raw := range link.Paths {
				for _, cand := range Candidates(other.Uri, raw, link.Kind) {
					if cand.Equal(target) {
						return true
					}
				}
			}
		}
	}
	return false
}
