package citeproc

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texls/texls/internal/syntax/bibtex"
)

// fakeConvert simulates an external bib2ris-style tool: it trusts the
// well-formed mini-source BuildMiniSource produces and emits RIS tags
// for the fields that source contains, so these tests exercise the real
// BuildMiniSource, ToCsl, renderAPA, and markdown stages end to end
// without actually shelling out to a converter binary.
func fakeConvert(ctx context.Context, bibtexSource string) (string, error) {
	var sb strings.Builder
	sb.WriteString("TY  - JOUR\n")
	for _, line := range strings.Split(bibtexSource, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "author = {"):
			sb.WriteString("AU  - " + strings.TrimSuffix(strings.TrimPrefix(line, "author = {"), "},") + "\n")
		case strings.HasPrefix(line, "title = {"):
			sb.WriteString("TI  - " + strings.TrimSuffix(strings.TrimPrefix(line, "title = {"), "},") + "\n")
		case strings.HasPrefix(line, "year = {"):
			sb.WriteString("PY  - " + strings.TrimSuffix(strings.TrimPrefix(line, "year = {"), "},") + "\n")
		}
	}
	sb.WriteString("ER  - \n")
	return sb.String(), nil
}

func TestRenderCitationSimple(t *testing.T) {
	root := bibtex.Parse(`@article{foo, author={Foo Bar}, title={Baz Qux}, year={2020}}`)

	md := RenderCitation(context.Background(), fakeConvert, root, "foo")

	assert.Equal(t, "Bar, F. (2020). *Baz Qux*.", md)
}

func TestRenderCitationWithStringMacro(t *testing.T) {
	root := bibtex.Parse(`@string{author="Foo Bar"} @article{foo, author=author, title={Baz Qux}, year={2020}}`)

	md := RenderCitation(context.Background(), fakeConvert, root, "foo")

	assert.Equal(t, "Bar, F. (2020). *Baz Qux*.", md)
}

func TestRenderCitationUnknownKeyYieldsNothing(t *testing.T) {
	root := bibtex.Parse(``)

	md := RenderCitation(context.Background(), fakeConvert, root, "foo")

	assert.Equal(t, "", md)
}

func TestRenderCitationConversionFailureYieldsNothing(t *testing.T) {
	root := bibtex.Parse(`@article{foo, author={Foo Bar}, title={Baz Qux}, year={2020}}`)
	failing := func(ctx context.Context, src string) (string, error) {
		return "", assert.AnError
	}

	md := RenderCitation(context.Background(), failing, root, "foo")

	assert.Equal(t, "", md)
}

func TestRenderCitationEmptyRisYieldsNothing(t *testing.T) {
	root := bibtex.Parse(`@article{foo, author={Foo Bar}, title={Baz Qux}, year={2020}}`)
	empty := func(ctx context.Context, src string) (string, error) { return "", nil }

	md := RenderCitation(context.Background(), empty, root, "foo")

	assert.Equal(t, "", md)
}

func TestExternalConverterNoExecutableReturnsEmpty(t *testing.T) {
	convert := ExternalConverter(ConverterConfig{})

	ris, err := convert(context.Background(), "anything")

	require.NoError(t, err)
	assert.Equal(t, "", ris)
}
