package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/server"
	"github.com/texls/texls/internal/uri"
	"github.com/texls/texls/internal/version"
)

// Initialize handles the LSP initialize request (§6).
func Initialize(req *RequestContext, params *protocol.InitializeParams) (any, error) {
	if params.RootURI != nil {
		req.Server.SetRootPath(uri.Parse(*params.RootURI).Path())
	} else if params.RootPath != nil {
		req.Server.SetRootPath(*params.RootPath)
	}

	return &protocol.InitializeResult{
		Capabilities: server.Capabilities(),
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "texls",
			Version: strPtr(version.GetVersion()),
		},
	}, nil
}

// Initialized handles the initialized notification: nothing to do until
// a future client-capability-registration need arises.
func Initialized(req *RequestContext, params *protocol.InitializedParams) error {
	return nil
}

// Shutdown handles the shutdown request, draining pending debounced
// diagnostics work before the client sends exit (§4.5 shutdown drain).
func Shutdown(req *RequestContext) error {
	req.Server.Debouncer().Shutdown()
	return nil
}

func strPtr(s string) *string { return &s }
