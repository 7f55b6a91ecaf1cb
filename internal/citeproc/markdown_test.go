package citeproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostProcessCollapsesDoubledPeriods(t *testing.T) {
	assert.Equal(t, "Done.", postProcess("Done.."))
}

func TestPostProcessUnescapesEntities(t *testing.T) {
	assert.Equal(t, "Rock & Roll", postProcess("Rock &amp; Roll"))
}

func TestPostProcessCanonicalizesUnderscoreEmphasis(t *testing.T) {
	assert.Equal(t, "Bar, F. (2020). *Baz Qux*.", postProcess("Bar, F. (2020). _Baz Qux_."))
}
