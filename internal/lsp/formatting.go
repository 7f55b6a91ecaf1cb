package lsp

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/uri"
)

// Formatting handles textDocument/formatting by shelling out to the
// configured external formatter (latexindent for LaTeX, a bibtex-tidy
// style tool for BibTeX — §6's "formatter choice" passthrough option),
// feeding it the full document text and replacing the document with its
// stdout. An unconfigured executable yields no edits.
func Formatting(req *RequestContext, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	u := uri.Parse(params.TextDocument.URI)
	doc := req.Server.Workspace().Get(u)
	if doc == nil {
		return nil, nil
	}

	cfg := req.Server.Config()
	if cfg.Format.Executable == "" {
		return nil, nil
	}

	cmd := exec.CommandContext(context.Background(), cfg.Format.Executable, cfg.Format.Args...)
	cmd.Stdin = strings.NewReader(doc.Text)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		req.Warn(err)
		return nil, nil
	}

	formatted := stdout.String()
	if formatted == "" || formatted == doc.Text {
		return nil, nil
	}

	lastLine, lastCol := doc.Index.OffsetToLineCol(len(doc.Text))
	fullRange := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: protocol.UInteger(lastLine), Character: protocol.UInteger(lastCol)},
	}
	return []protocol.TextEdit{{Range: fullRange, NewText: formatted}}, nil
}
