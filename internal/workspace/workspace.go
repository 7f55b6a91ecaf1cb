// Package workspace composes the document store with the cross-document
// graph: parent/child expansion and subset closure (§4.2). Grounded on the
// teacher's layered-wrapper shape (internal/documents.Manager wrapped by
// feature-specific decorators) and on other_examples/upbound-up's
// dispatcher-over-workspace pattern, which independently confirms the
// "small capability interface wrapped by composable layers" shape for an
// LSP workspace graph.
package workspace

import (
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/collections"
	"github.com/texls/texls/internal/documents"
	"github.com/texls/texls/internal/fswatch"
	"github.com/texls/texls/internal/log"
	"github.com/texls/texls/internal/uri"
)

// Workspace is the shared capability set every layer (base store, child
// expander, parent expander, filesystem watcher) implements (§9: "express
// as a composed chain where each layer implements the same small
// workspace capability set").
type Workspace interface {
	Open(u uri.Uri, text string, language documents.Language) *documents.Document
	Get(u uri.Uri) *documents.Document
	Close(u uri.Uri)
	Has(u uri.Uri) bool
	Documents() []*documents.Document
	Subset(root uri.Uri) []*documents.Document
	RegisterOpenHandler(h documents.OpenHandler)
	Load(u uri.Uri) (*documents.Document, error)
	Edit(u uri.Uri, changes []protocol.TextDocumentContentChangeEvent) (*documents.Document, error)

	// Watch starts (or, on a later call, restarts) a non-recursive
	// filesystem watch of dir, loading matching create/write events
	// through Load (§4.3). An empty dir stops any running watch.
	Watch(dir string) error
}

// Base is the innermost Workspace layer: a documents.Store plus disk IO for
// Load (the store itself only accepts already-read text).
type Base struct {
	store *documents.Store

	watchMu sync.Mutex
	watcher *fswatch.Watcher
}

// NewBase creates a Base workspace over a fresh document store.
func NewBase() *Base {
	return &Base{store: documents.NewStore()}
}

func (b *Base) Open(u uri.Uri, text string, language documents.Language) *documents.Document {
	return b.store.Open(u, text, language)
}

func (b *Base) Get(u uri.Uri) *documents.Document { return b.store.Get(u) }
func (b *Base) Close(u uri.Uri)                   { b.store.Close(u) }
func (b *Base) Has(u uri.Uri) bool                { return b.store.Has(u) }
func (b *Base) Documents() []*documents.Document  { return b.store.Documents() }

func (b *Base) RegisterOpenHandler(h documents.OpenHandler) { b.store.RegisterOpenHandler(h) }

// Edit splices incremental changes into u's current text and publishes
// the reparsed snapshot (§5 incremental sync).
func (b *Base) Edit(u uri.Uri, changes []protocol.TextDocumentContentChangeEvent) (*documents.Document, error) {
	return b.store.ApplyChange(u, changes)
}

// Watch starts watching dir for the auxiliary/log artefacts a build
// produces, reloading each as it changes (§4.3). Calling Watch again
// replaces any previously running watch; an empty dir just stops it.
// Errors starting the watcher are logged and swallowed, matching §4.3's
// "failures must not poison the workspace".
func (b *Base) Watch(dir string) error {
	b.watchMu.Lock()
	defer b.watchMu.Unlock()

	if b.watcher != nil {
		b.watcher.Close()
		b.watcher = nil
	}
	if dir == "" {
		return nil
	}

	w, err := fswatch.New(dir, fswatch.DefaultPatterns, func(path string) {
		if _, err := b.Load(uri.FromPath(path)); err != nil {
			log.Debug("workspace: aux watch load failed for %s: %v", path, err)
		}
	})
	if err != nil {
		log.Warn("workspace: could not watch %s: %v", dir, err)
		return nil
	}
	b.watcher = w
	return nil
}

// Load reads u's path from disk and publishes it via the store. IO errors
// leave the document absent, per §7.
func (b *Base) Load(u uri.Uri) (*documents.Document, error) {
	path := u.Path()
	if path == "" {
		return nil, errors.Newf("workspace: not a file uri: %s", u)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug("workspace: load failed for %s: %v", u, err)
		return nil, errors.Wrapf(err, "workspace: reading %s", path)
	}
	return b.store.Load(u, string(data))
}

// Subset returns the reachability closure of root under parent/child and
// bibliography edges: root first, then breadth-first discovery order,
// cycle-safe via a visited set (§4.2, §8).
func (b *Base) Subset(root uri.Uri) []*documents.Document {
	return subsetBFS(b, root)
}

func subsetBFS(w Workspace, root uri.Uri) []*documents.Document {
	rootDoc := w.Get(root)
	if rootDoc == nil {
		return nil
	}
	visited := collections.NewSet(root.String())
	order := []*documents.Document{rootDoc}
	queue := []uri.Uri{root}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curDoc := w.Get(cur)
		if curDoc == nil {
			continue
		}
		for _, n := range neighbors(w, curDoc) {
			if visited.Has(n.String()) {
				continue
			}
			doc := w.Get(n)
			if doc == nil {
				continue
			}
			visited.Add(n.String())
			order = append(order, doc)
			queue = append(queue, n)
		}
	}
	return order
}

// neighbors returns every Uri linked to or from d: d's own explicit
// include/bibliography targets (children), plus every other loaded
// document whose explicit targets resolve to d (parents).
func neighbors(w Workspace, d *documents.Document) []uri.Uri {
	var out []uri.Uri
	seen := collections.NewSet[string]()
	add := func(u uri.Uri) {
		if !u.IsZero() && !seen.Has(u.String()) {
			seen.Add(u.String())
			out = append(out, u)
		}
	}

	if d.Latex != nil {
		for _, link := range d.Latex.Extras.ExplicitLinks {
			for _, raw := range link.Paths {
				for _, cand := range Candidates(d.Uri, raw, link.Kind) {
					if w.Has(cand) {
						add(cand)
					}
				}
			}
		}
	}

	for _, other := range w.Documents() {
		if other.Latex == nil || other.Uri.Equal(d.Uri) {
			continue
		}
		for _, link := range other.Latex.Extras.ExplicitLinks {
			for _, raw := range link.Paths {
				for _, cand := range Candidates(other.Uri, raw, link.Kind) {
					if cand.Equal(d.Uri) {
						add(other.Uri)
					}
				}
			}
		}
	}
	return out
}

// Candidates returns the ordered list of Uri candidates a raw include
// target expands to relative to base (§3 LinkTarget: "an ordered list of
// Uri candidates resolved from an include directive; the first existing
// candidate wins, but all are recorded").
func Candidates(base uri.Uri, rawPath, kind string) []uri.Uri {
	var exts []string
	switch kind {
	case "bibliography":
		exts = []string{"", ".bib"}
	default:
		exts = []string{"", ".tex", ".sty", ".cls"}
	}
	var out []uri.Uri
	for _, ext := range exts {
		out = append(out, base.Join(rawPath+ext))
	}
	return out
}
