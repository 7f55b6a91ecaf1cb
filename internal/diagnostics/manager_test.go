package diagnostics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestManagerMergesStaticAndExternal(t *testing.T) {
	var mu sync.Mutex
	var published []protocol.Diagnostic

	m := NewManager(func(uri string, diags []protocol.Diagnostic) {
		mu.Lock()
		defer mu.Unlock()
		published = diags
	})

	m.SetStatic("file:///a.tex", []Diagnostic{{Message: "static"}})
	m.SetExternal("file:///a.tex", []Diagnostic{{Message: "external"}})

	merged := m.Merged("file:///a.tex")
	require.Len(t, merged, 2)
	assert.Equal(t, "static", merged[0].Message)
	assert.Equal(t, "external", merged[1].Message)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, published, 2)
}

func TestManagerForgetClearsBothLists(t *testing.T) {
	m := NewManager(nil)
	m.SetStatic("file:///a.tex", []Diagnostic{{Message: "static"}})
	m.SetExternal("file:///a.tex", []Diagnostic{{Message: "external"}})

	m.Forget("file:///a.tex")

	assert.Empty(t, m.Merged("file:///a.tex"))
}

func TestManagerSetStaticAlonePublishesImmediately(t *testing.T) {
	var got []protocol.Diagnostic
	m := NewManager(func(uri string, diags []protocol.Diagnostic) {
		got = diags
	})

	m.SetStatic("file:///a.tex", []Diagnostic{{Message: "only"}})

	require.Len(t, got, 1)
	assert.Equal(t, "only", got[0].Message)
}
