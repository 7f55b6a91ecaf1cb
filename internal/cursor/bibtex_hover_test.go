package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texls/texls/internal/syntax/bibtex"
)

func TestDetectBibtexHoverEntryType(t *testing.T) {
	text := `@article{foo, author = {X}}`
	root := bibtex.Parse(text)

	c := NewBibtex(root, 0)
	hover := DetectBibtexHover(c, root)

	require.NotNil(t, hover)
	assert.Equal(t, BibtexHoverEntryType, hover.Kind)
	assert.Equal(t, "article", hover.EntryType)
	assert.Contains(t, hover.RequiredFields, "author")
	assert.Contains(t, hover.OptionalFields, "doi")
}

func TestDetectBibtexHoverStringRef(t *testing.T) {
	text := `@string{acm = {Association for Computing Machinery}}` +
		`@article{foo, publisher = acm}`
	root := bibtex.Parse(text)

	// offset inside the bare "acm" word value reference
	idx := len(`@string{acm = {Association for Computing Machinery}}@article{foo, publisher = `)
	c := NewBibtex(root, idx)
	hover := DetectBibtexHover(c, root)

	require.NotNil(t, hover)
	assert.Equal(t, BibtexHoverStringRef, hover.Kind)
	assert.Equal(t, "acm", hover.StringName)
	assert.Equal(t, "Association for Computing Machinery", hover.StringValue)
}

func TestDetectBibtexHoverNoneForPunctuation(t *testing.T) {
	text := `@article{foo}`
	root := bibtex.Parse(text)

	// offset at the closing brace, which is neither TYPE nor WORD
	c := &Cursor{Node: root.Descendants()[len(root.Descendants())-1]}
	if c.Node != nil && c.Node.Kind != bibtex.TYPE && c.Node.Kind != bibtex.WORD {
		hover := DetectBibtexHover(c, root)
		assert.Nil(t, hover)
	}
}
