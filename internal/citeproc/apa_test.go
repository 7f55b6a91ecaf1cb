package citeproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderAPAStandaloneTitleItalicized(t *testing.T) {
	csl := &CslReference{
		Authors: []Name{{Family: "Bar", Given: "Foo"}},
		Title:   "Baz Qux",
		Year:    "2020",
	}

	got := renderAPA(csl)

	assert.Equal(t, "<p>Bar, F. (2020). <i>Baz Qux</i>.</p>", got)
}

func TestRenderAPAWithJournalContainer(t *testing.T) {
	csl := &CslReference{
		Authors:        []Name{{Family: "Bar", Given: "Foo"}},
		Title:          "Baz Qux",
		ContainerTitle: "Journal of Things",
		Year:           "2020",
		Volume:         "3",
		Issue:          "2",
		Page:           "10-20",
	}

	got := renderAPA(csl)

	assert.Contains(t, got, "Baz Qux. <i>Journal of Things</i>, 3(2), 10-20.")
}

func TestFormatAuthorsTwoAndThree(t *testing.T) {
	two := formatAuthors([]Name{{Family: "A", Given: "X"}, {Family: "B", Given: "Y"}})
	assert.Equal(t, "A, X., & B, Y.", two)

	three := formatAuthors([]Name{{Family: "A", Given: "X"}, {Family: "B", Given: "Y"}, {Family: "C", Given: "Z"}})
	assert.Equal(t, "A, X., B, Y., & C, Z.", three)
}
