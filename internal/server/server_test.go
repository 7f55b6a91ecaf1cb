package server_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/server"
)

func TestCapabilitiesAdvertisesIncrementalSyncWithSaveNoText(t *testing.T) {
	caps := server.Capabilities()

	syncOptions, ok := caps.TextDocumentSync.(protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	require.NotNil(t, syncOptions.Change)
	assert.Equal(t, protocol.TextDocumentSyncKindIncremental, *syncOptions.Change)
	require.NotNil(t, syncOptions.Save)
	saveOptions, ok := syncOptions.Save.(*protocol.SaveOptions)
	require.True(t, ok)
	require.NotNil(t, saveOptions.IncludeText)
	assert.False(t, *saveOptions.IncludeText)
}

func TestCapabilitiesAdvertisesCompletionTriggerCharacters(t *testing.T) {
	caps := server.Capabilities()

	require.NotNil(t, caps.CompletionProvider)
	require.NotNil(t, caps.CompletionProvider.ResolveProvider)
	assert.True(t, *caps.CompletionProvider.ResolveProvider)
	assert.Equal(t, server.TriggerCharacters, caps.CompletionProvider.TriggerCharacters)
}

func TestCapabilitiesAdvertisesRenameWithPrepare(t *testing.T) {
	caps := server.Capabilities()

	require.NotNil(t, caps.RenameProvider)
	renameOptions, ok := caps.RenameProvider.(*protocol.RenameOptions)
	require.True(t, ok)
	require.NotNil(t, renameOptions.PrepareProvider)
	assert.True(t, *renameOptions.PrepareProvider)
}

func TestCapabilitiesAdvertisesSemanticTokensRangeWithFixedLegend(t *testing.T) {
	caps := server.Capabilities()

	require.NotNil(t, caps.SemanticTokensProvider)
	assert.Equal(t, server.SemanticTokenTypes, caps.SemanticTokensProvider.Legend.TokenTypes)
	assert.NotNil(t, caps.SemanticTokensProvider.Range)
}

func TestCapabilitiesAdvertisesNavigationAndStructureProviders(t *testing.T) {
	caps := server.Capabilities()

	assert.NotNil(t, caps.DefinitionProvider)
	assert.NotNil(t, caps.ReferencesProvider)
	assert.NotNil(t, caps.HoverProvider)
	assert.NotNil(t, caps.DocumentSymbolProvider)
	assert.NotNil(t, caps.WorkspaceSymbolProvider)
	assert.NotNil(t, caps.DocumentHighlightProvider)
	assert.NotNil(t, caps.FoldingRangeProvider)
	assert.NotNil(t, caps.DocumentFormattingProvider)
	require.NotNil(t, caps.DocumentLinkProvider)
}
