package workspace

import (
	"os"
	"sync"

	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/log"
	"github.com/texls/texls/internal/uri"
)

// ChildExpander wraps a Workspace, automatically loading the explicit
// (include/bibliography) and implicit (aux/log) link targets of every
// opened LaTeX document (§4.2). All probing across distinct target lists
// runs in parallel; within a single list candidates are probed in order
// and the search stops at the first that loads successfully, preserving
// first-wins semantics.
type ChildExpander struct {
	Workspace
}

// NewChildExpander wraps inner and registers the expansion open-handler.
func NewChildExpander(inner Workspace) *ChildExpander {
	ce := &ChildExpander{Workspace: inner}
	inner.RegisterOpenHandler(ce.onOpen)
	return ce
}

func (ce *ChildExpander) onOpen(doc *documents.Document) {
	if doc.Latex == nil {
		return
	}
	lists := explicitTargetLists(doc)
	lists = append(lists, implicitTargetLists(doc)...)

	var wg sync.WaitGroup
	for _, list := range lists {
		wg.Add(1)
		go func(candidates []uri.Uri) {
			defer wg.Done()
			ce.probeSequential(candidates)
		}(list)
	}
	wg.Wait()
}

// probeSequential tries each candidate in order, stopping at the first
// that exists on disk and loads successfully.
func (ce *ChildExpander) probeSequential(candidates []uri.Uri) {
	for _, cand := range candidates {
		if ce.Has(cand) {
			return
		}
		path := cand.Path()
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := ce.Load(cand); err != nil {
			log.Debug("workspace: child expansion failed for %s: %v", cand, err)
			continue
		}
		return
	}
}

func explicitTargetLists(doc *documents.Document) [][]uri.Uri {
	var lists [][]uri.Uri
	for _, link := range doc.Latex.Extras.ExplicitLinks {
		for _, raw := range link.Paths {
			lists = append(lists, Candidates(doc.Uri, raw, link.Kind))
		}
	}
	return lists
}

// implicitTargetLists produces the aux/log candidate lists derived from
// the document's own basename (§3 "implicit links: auxiliary and log
// paths").
func implicitTargetLists(doc *documents.Document) [][]uri.Uri {
	return [][]uri.Uri{
		{doc.Uri.WithExt(".aux")},
		{doc.Uri.WithExt(".log")},
	}
}
