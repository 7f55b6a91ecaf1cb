// Command texls is the LaTeX/BibTeX language server entrypoint, run over
// stdio by an editor client.
package main

import (
	"os"

	"github.com/texls/texls/internal/log"
	"github.com/texls/texls/internal/lsp"
	"github.com/texls/texls/internal/version"
)

func main() {
	log.Info("texls %s starting", version.GetFullVersion())

	server, err := lsp.NewServer()
	if err != nil {
		log.Error("failed to create language server: %v", err)
		os.Exit(1)
	}

	if err := server.RunStdio(); err != nil {
		log.Error("server error: %v", err)
		os.Exit(1)
	}
}
