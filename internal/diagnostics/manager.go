package diagnostics

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/log"
)

// Publisher sends a publishDiagnostics notification for a URI.
type Publisher func(uri string, diagnostics []protocol.Diagnostic)

// Manager keeps, per URI, independent static and external diagnostic
// lists under a single mutex, and publishes their concatenation after
// releasing it (§3, §4.5
// invariant: "published diagnostics for a URI are always the
// concatenation of the latest static and latest external lists, never
// interleaved partials").
type Manager struct {
	mu       sync.Mutex
	static   map[string][]Diagnostic
	external map[string][]Diagnostic
	publish  Publisher
}

// NewManager creates a Manager that calls publish after every update.
func NewManager(publish Publisher) *Manager {
	return &Manager{
		static:   make(map[string][]Diagnostic),
		external: make(map[string][]Diagnostic),
		publish:  publish,
	}
}

// SetStatic replaces the static diagnostics for uri and republishes the
// merged list.
func (m *Manager) SetStatic(uri string, diags []Diagnostic) {
	m.mu.Lock()
	m.static[uri] = diags
	merged := m.mergedLocked(uri)
	m.mu.Unlock()
	m.publishLocked(uri, merged)
}

// SetExternal replaces the external (linter) diagnostics for uri and
// republishes the merged list.
func (m *Manager) SetExternal(uri string, diags []Diagnostic) {
	m.mu.Lock()
	m.external[uri] = diags
	merged := m.mergedLocked(uri)
	m.mu.Unlock()
	m.publishLocked(uri, merged)
}

// Merged returns the current concatenation of static and external
// diagnostics for uri (§8: "Diagnostic merge" property).
func (m *Manager) Merged(uri string) []Diagnostic {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mergedLocked(uri)
}

func (m *Manager) mergedLocked(uri string) []Diagnostic {
	out := make([]Diagnostic, 0, len(m.static[uri])+len(m.external[uri]))
	out = append(out, m.static[uri]...)
	out = append(out, m.external[uri]...)
	return out
}

// Forget drops both lists for uri (called on document close).
func (m *Manager) Forget(uri string) {
	m.mu.Lock()
	delete(m.static, uri)
	delete(m.external, uri)
	m.mu.Unlock()
}

func (m *Manager) publishLocked(uri string, diags []Diagnostic) {
	if m.publish == nil {
		return
	}
	protoDiags := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		protoDiags = append(protoDiags, d.ToProtocol())
	}
	log.Debug("diagnostics: publishing %d for %s", len(protoDiags), uri)
	m.publish(uri, protoDiags)
}
