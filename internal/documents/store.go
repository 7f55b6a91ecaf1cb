package documents

import (
	"sync"

	"github.com/cockroachdb/errors"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/lineindex"
	"github.com/texls/texls/internal/log"
	"github.com/texls/texls/internal/uri"
)

// OpenHandler is invoked with the new snapshot every time open() publishes
// one (§4.1: "invokes every registered open-handler with the new
// Document"). Expanders register these to trigger workspace graph growth.
type OpenHandler func(doc *Document)

type entry struct {
	doc          *Document
	clientOpened bool
	refCount     int
}

// Store is the thread-safe, URI-keyed map of Document snapshots (§4.1,
// §5). A single RWMutex guards the whole map: readers (Get) take the read
// lock and never block each other; writers (Open/Close/Load) take the
// write lock, which bounds every critical section to O(1) map access plus
// a parse that has already happened before the lock is acquired — the
// store never holds the lock across a parse.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	handlers []OpenHandler
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// RegisterOpenHandler adds a callback invoked after every successful open.
// Not safe to call concurrently with Open/Load.
func (s *Store) RegisterOpenHandler(h OpenHandler) {
	s.handlers = append(s.handlers, h)
}

// Open parses text as language and publishes it as u's current snapshot,
// marking it client-opened. Idempotent: opening the same (uri, text) twice
// produces equivalent snapshots, and both calls fire the open-handlers
// (§4.1).
func (s *Store) Open(u uri.Uri, text string, language Language) *Document {
	doc := parse(u, text, language)
	s.mu.Lock()
	e, ok := s.entries[u.String()]
	if !ok {
		e = &entry{}
		s.entries[u.String()] = e
	}
	e.doc = doc
	e.clientOpened = true
	s.mu.Unlock()

	for _, h := range s.handlers {
		h(doc)
	}
	return doc
}

// Get returns the current snapshot for u, or nil if absent. Never waits on
// a parse — parsing happens before a snapshot is published.
func (s *Store) Get(u uri.Uri) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[u.String()]
	if !ok {
		return nil
	}
	return e.doc
}

// Has reports whether u has a current snapshot.
func (s *Store) Has(u uri.Uri) bool {
	return s.Get(u) != nil
}

// Close removes a document opened by the client. A document loaded only
// as a dependency (via Load/Retain, never Open) is unaffected; a
// client-opened document whose reference count (see Retain) is above zero
// remains until Release drops the count to zero (§3 lifecycle).
func (s *Store) Close(u uri.Uri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[u.String()]
	if !ok || !e.clientOpened {
		return
	}
	e.clientOpened = false
	if e.refCount <= 0 {
		delete(s.entries, u.String())
	}
}

// Retain increments u's dependency reference count. The workspace
// expanders do not call it: documents they load through links keep a
// count of zero, so closing a client-opened document removes it even when
// another loaded document links to it.
func (s *Store) Retain(u uri.Uri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[u.String()]
	if !ok {
		e = &entry{}
		s.entries[u.String()] = e
	}
	e.refCount++
}

// Release decrements u's dependency reference count, removing the
// document if it is not client-opened and no longer referenced.
func (s *Store) Release(u uri.Uri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[u.String()]
	if !ok {
		return
	}
	e.refCount--
	if e.refCount <= 0 && !e.clientOpened {
		delete(s.entries, u.String())
	}
}

// Documents returns every current snapshot. Order is unspecified.
func (s *Store) Documents() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, 0, len(s.entries))
	for _, e := range s.entries {
		if e.doc != nil {
			out = append(out, e.doc)
		}
	}
	return out
}

// Load reads raw bytes already fetched by the caller (the filesystem
// access itself lives in the caller, e.g. internal/workspace or
// internal/fswatch, which know how to turn a Uri into a path) and
// publishes them as u's snapshot without marking it client-opened. IO
// failures are the caller's responsibility per §7 ("on load, the document
// is simply absent").
func (s *Store) Load(u uri.Uri, text string) (*Document, error) {
	if text == "" {
		return nil, errors.Newf("documents: empty content for %s", u)
	}
	language := DetectLanguage(u)
	doc := parse(u, text, language)

	s.mu.Lock()
	e, ok := s.entries[u.String()]
	if !ok {
		e = &entry{}
		s.entries[u.String()] = e
	}
	e.doc = doc
	s.mu.Unlock()

	log.Debug("documents: loaded %s (%s)", u, language)
	for _, h := range s.handlers {
		h(doc)
	}
	return doc, nil
}

// ApplyChange publishes a new snapshot for u produced by splicing changes
// into the current text in arrival order (§5 incremental sync). A change
// with a nil Range replaces the text wholesale. Returns the new snapshot,
// or an error if u has no current snapshot to edit.
func (s *Store) ApplyChange(u uri.Uri, changes []protocol.TextDocumentContentChangeEvent) (*Document, error) {
	s.mu.Lock()
	e, ok := s.entries[u.String()]
	if !ok || e.doc == nil {
		s.mu.Unlock()
		return nil, errors.Newf("documents: no document for %s", u)
	}
	text := e.doc.Text
	index := e.doc.Index
	language := e.doc.Language
	s.mu.Unlock()

	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			index = lineindex.New(text)
			continue
		}
		start, end := index.LSPToRange(*change.Range)
		text = text[:start] + change.Text + text[end:]
		index = lineindex.New(text)
	}

	doc := parse(u, text, language)
	s.mu.Lock()
	e.doc = doc
	s.mu.Unlock()
	return doc, nil
}
