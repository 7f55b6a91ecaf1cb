package lsp

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/buildengine"
	"github.com/texls/texls/internal/config"
	"github.com/texls/texls/internal/reqqueue"
	"github.com/texls/texls/internal/uri"
)

// CustomHandler wraps protocol.Handler to add the two domain-specific
// methods (textDocument/build, textDocument/forwardSearch) and
// $/cancelRequest, none of which protocol.Handler (LSP 3.16) has a field
// for. Grounded on the teacher's CustomHandler: intercept known custom
// methods by name, otherwise fall through to the embedded handler.
type CustomHandler struct {
	*protocol.Handler
	server *Server
}

// BuildParams is textDocument/build's request shape (§6 custom method).
type BuildParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

// BuildResult is textDocument/build's response shape (§4.8).
type BuildResult struct {
	Status string `json:"status"`
}

// ForwardSearchParams is textDocument/forwardSearch's request shape.
type ForwardSearchParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Position     protocol.Position               `json:"position"`
}

// ForwardSearchResult is textDocument/forwardSearch's response shape
// (§6: "result = { status: SUCCESS|ERROR|FAILURE|UNCONFIGURED }").
type ForwardSearchResult struct {
	Status string `json:"status"`
}

// cancelParams matches $/cancelRequest's payload.
type cancelParams struct {
	ID interface{} `json:"id"`
}

// Handle implements glsp.Handler, intercepting the custom methods before
// falling through to the embedded protocol.Handler.
func (h *CustomHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	switch context.Method {
	case "textDocument/build":
		var params BuildParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		req := NewRequestContext(h.server, context)
		result, err := handleBuild(req, &params)
		return result, true, true, err

	case "textDocument/forwardSearch":
		var params ForwardSearchParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		req := NewRequestContext(h.server, context)
		result, err := handleForwardSearch(req, &params)
		return result, true, true, err

	case "$/cancelRequest":
		var params cancelParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		if id, ok := params.ID.(string); ok {
			h.server.Requests().Cancel(id)
		} else if id, ok := params.ID.(float64); ok {
			h.server.Requests().Cancel(strconv.FormatInt(int64(id), 10))
		}
		return nil, true, true, nil
	}

	return h.Handler.Handle(context)
}

// handleBuild runs the typesetter against u's include-closure root,
// forwarding each output line as a window/logMessage notification and
// tracking cancellation through the request queue (§4.8, §9).
func handleBuild(req *RequestContext, params *BuildParams) (*BuildResult, error) {
	u := uri.Parse(params.TextDocument.URI)
	root := buildRootFor(req, u)
	cfg := req.Server.Config()

	requestID := root.String()
	src := req.Server.Requests().RegisterIncoming(requestID)
	defer req.Server.Requests().CompleteIncoming(requestID)

	status := req.Server.Build().Build(context.Background(), root, buildConfig(cfg), logBuildLine(req.Server), src.Token())
	return &BuildResult{Status: string(status)}, nil
}

// handleForwardSearch validates the configured typesetter/viewer wiring
// and records the cursor position so a subsequent build's forward-search
// can locate the corresponding output page (§4.8).
func handleForwardSearch(req *RequestContext, params *ForwardSearchParams) (*ForwardSearchResult, error) {
	u := uri.Parse(params.TextDocument.URI)
	cfg := req.Server.Config()
	pos := buildengine.Position{Line: int(params.Position.Line), Character: int(params.Position.Character)}
	status := req.Server.Build().ForwardSearch(u, pos, buildConfig(cfg))
	return &ForwardSearchResult{Status: string(status)}, nil
}

// buildRootFor resolves the include-closure root for u: the first loaded
// document, other than u itself, whose subset contains u and is not
// itself a member of any other document's subset (§4.2's parent
// expansion defines the same "root is whichever ancestor has no
// parent" notion this mirrors for build purposes). Falls back to u when
// no such ancestor is loaded.
func buildRootFor(req *RequestContext, u uri.Uri) uri.Uri {
	ws := req.Server.Workspace()
	candidates := map[string]bool{}
	for _, doc := range ws.Documents() {
		if doc.Uri.Equal(u) {
			continue
		}
		for _, member := range ws.Subset(doc.Uri) {
			if member.Uri.Equal(u) {
				candidates[doc.Uri.String()] = true
				break
			}
		}
	}
	for candidate := range candidates {
		isIncluded := false
		for other := range candidates {
			if other == candidate {
				continue
			}
			for _, member := range ws.Subset(uri.Parse(other)) {
				if member.Uri.String() == candidate {
					isIncluded = true
				}
			}
		}
		if !isIncluded {
			return uri.Parse(candidate)
		}
	}
	return u
}

func buildConfig(cfg config.ServerConfig) buildengine.Config {
	return buildengine.Config{
		Executable:         cfg.Build.Executable,
		Args:               cfg.Build.Args,
		ForwardSearchAfter: cfg.Build.ForwardSearchAfter,
	}
}

// logBuildLine forwards each line of typesetter output as a
// window/logMessage notification through the server's current
// glsp.Context.
func logBuildLine(s ServerContext) buildengine.LogLineFunc {
	return func(line string) {
		ctx := s.GLSPContext()
		if ctx == nil {
			return
		}
		go ctx.Notify(protocol.ServerWindowLogMessage, &protocol.LogMessageParams{
			Type:    protocol.MessageTypeLog,
			Message: line,
		})
	}
}

// noToken returns an uncancelled token for callers that don't register
// through the request queue (a didSave-triggered background build has no
// client-visible request id to key cancellation on).
func noToken() reqqueue.CancellationToken {
	return reqqueue.NewCancellationTokenSource().Token()
}

// DidChangeConfiguration handles workspace/didChangeConfiguration,
// decoding the pushed settings payload into the recognized ServerConfig
// shape (§6 "Configuration (pull/push)").
func DidChangeConfiguration(req *RequestContext, params *protocol.DidChangeConfigurationParams) error {
	raw, err := json.Marshal(params.Settings)
	if err != nil {
		return err
	}
	cfg := req.Server.Config()
	if err := config.Decode(raw, &cfg); err != nil {
		req.Warn(err)
		return nil
	}
	req.Server.SetConfig(cfg)
	return nil
}
