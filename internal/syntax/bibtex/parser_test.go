package bibtex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleEntry(t *testing.T) {
	root := Parse(`@article{foo, author={Foo Bar}, title={Baz Qux}, year={2020}}`)
	entries := Entries(root)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.True(t, HasOpenDelim(entry))
	assert.True(t, HasCloseDelim(entry))
	assert.True(t, HasKey(entry))
	assert.Equal(t, "foo", EntryKey(entry))
	assert.Equal(t, "article", EntryTypeText(EntryType(entry)))

	fields := Fields(entry)
	require.Len(t, fields, 3)
	assert.Equal(t, "author", FieldName(fields[0]))
	assert.Equal(t, "Foo Bar", ResolveText(FieldValue(fields[0]), nil))
	assert.Equal(t, "2020", ResolveText(FieldValue(fields[2]), nil))
}

func TestParseMissingOpenDelim(t *testing.T) {
	root := Parse(`@article foo, author = {X}`)
	entries := Entries(root)
	require.Len(t, entries, 1)
	assert.False(t, HasOpenDelim(entries[0]))
	assert.False(t, HasKey(entries[0]))
}

func TestStringMacroResolution(t *testing.T) {
	root := Parse(`@string{author="Foo Bar"} @article{foo, author=author, title={Baz Qux}, year={2020}}`)
	strs := Strings(root)
	require.Len(t, strs, 1)
	assert.Equal(t, "author", EntryKey(strs[0]))
	defs := map[string]string{"author": ResolveText(StringValue(strs[0]), nil)}

	entries := Entries(root)
	require.Len(t, entries, 1)
	fields := Fields(entries[0])
	for _, f := range fields {
		if FieldName(f) == "author" {
			assert.Equal(t, "Foo Bar", ResolveText(FieldValue(f), defs))
		}
	}
}
