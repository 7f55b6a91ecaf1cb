package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texls/texls/internal/syntax"
)

func wordToken(t *testing.T, root *syntax.Node, text string) *syntax.Node {
	t.Helper()
	for _, n := range root.Descendants() {
		if n.Kind == WORD && n.Text == text {
			return n
		}
	}
	require.Failf(t, "word token not found", "text=%q", text)
	return nil
}

func TestEnclosingWordCommandFindsLabelReference(t *testing.T) {
	root := Parse(`\ref{sec:intro}`)
	tok := wordToken(t, root, "sec:intro")

	cmd := EnclosingWordCommand(tok)
	require.NotNil(t, cmd)
	assert.Equal(t, LABEL_REFERENCE, cmd.Kind)
}

func TestEnclosingWordCommandFindsLabelDefinition(t *testing.T) {
	root := Parse(`\label{sec:intro}`)
	tok := wordToken(t, root, "sec:intro")

	cmd := EnclosingWordCommand(tok)
	require.NotNil(t, cmd)
	assert.Equal(t, LABEL_DEFINITION, cmd.Kind)
}

func TestEnclosingWordCommandFindsCitationInWordList(t *testing.T) {
	root := Parse(`\cite{knuth1984,lamport1994}`)
	tok := wordToken(t, root, "lamport1994")

	cmd := EnclosingWordCommand(tok)
	require.NotNil(t, cmd)
	assert.Equal(t, CITATION, cmd.Kind)
	assert.Equal(t, []string{"knuth1984", "lamport1994"}, ReferenceNames(cmd))
}

func TestEnclosingWordCommandNilOutsideWordArgument(t *testing.T) {
	root := Parse(`\section{Intro}`)
	tok := wordToken(t, root, "Intro")

	assert.Nil(t, EnclosingWordCommand(tok))
}

func TestEnclosingWordCommandNilForNonWordNode(t *testing.T) {
	root := Parse(`\ref{sec:intro}`)
	var commandName *syntax.Node
	for _, n := range root.Descendants() {
		if n.Kind == COMMAND_NAME {
			commandName = n
		}
	}
	require.NotNil(t, commandName)

	assert.Nil(t, EnclosingWordCommand(commandName))
}
