// Package lsp wires every domain package into a running protocol.Handler
// (§6). Grounded on the teacher's lsp package: a ServerContext interface
// handlers depend on instead of a concrete *Server, a generic
// method/notify/noParam middleware wrapping every handler with panic
// recovery and window/logMessage forwarding, and a CustomHandler wrapper
// intercepting methods protocol.Handler has no field for.
package lsp

import (
	"github.com/tliron/glsp"

	"github.com/texls/texls/internal/buildengine"
	"github.com/texls/texls/internal/config"
	"github.com/texls/texls/internal/diagnostics"
	"github.com/texls/texls/internal/reqqueue"
	"github.com/texls/texls/internal/workspace"
)

// ServerContext is the dependency set every handler is given, in place of
// a concrete *Server, so handlers can be tested against a fake.
type ServerContext interface {
	Workspace() workspace.Workspace
	Diagnostics() *diagnostics.Manager
	Debouncer() *diagnostics.Debouncer
	Requests() *reqqueue.Queue
	Build() *buildengine.Engine
	Config() config.ServerConfig
	SetConfig(cfg config.ServerConfig)
	RootPath() string
	SetRootPath(path string)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)
}

// RequestContext carries the per-request inputs a handler needs: the
// server dependencies and the raw glsp.Context for notifications and
// server-initiated calls.
type RequestContext struct {
	Server   ServerContext
	GLSP     *glsp.Context
	warnings []error
}

// NewRequestContext creates a RequestContext for a single incoming
// request or notification.
func NewRequestContext(s ServerContext, ctx *glsp.Context) *RequestContext {
	return &RequestContext{Server: s, GLSP: ctx}
}

// Warn records a non-fatal issue to be forwarded as a window/logMessage
// warning once the handler returns, whether or not it returned an error.
func (r *RequestContext) Warn(err error) {
	r.warnings = append(r.warnings, err)
}

// HasWarnings reports whether Warn was called during this request.
func (r *RequestContext) HasWarnings() bool {
	return len(r.warnings) > 0
}

// Warnings returns every warning recorded during this request.
func (r *RequestContext) Warnings() []error {
	return r.warnings
}
