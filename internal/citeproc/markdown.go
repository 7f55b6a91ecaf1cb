package citeproc

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// toMarkdown converts the rendered APA HTML fragment to markdown via the
// same html-to-markdown conversion the pipeline's §4.7 step 5 names.
func toMarkdown(htmlFragment string) (string, error) {
	md, err := htmltomarkdown.ConvertString(htmlFragment)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

var doubledPeriod = regexp.MustCompile(`\.\.+`)

// postProcess applies the fixed, small set of fixups §4.7 step 6 names:
// doubled periods collapsed to one (a trailing "." from the template
// butting against a "." already present in a title/DOI), and a small set
// of HTML entities the converter may leave unescaped normalized back to
// their literal characters. It also canonicalizes the emphasis delimiter
// to "*" regardless of which one the converter chose, since this
// pipeline's single supported style always wants the title/emphasis
// marker in that form.
func postProcess(md string) string {
	md = strings.ReplaceAll(md, "&amp;", "&")
	md = strings.ReplaceAll(md, "&nbsp;", " ")
	md = doubledPeriod.ReplaceAllString(md, ".")
	md = canonicalizeEmphasis(md)
	return strings.TrimSpace(md)
}

var underscoreEmphasis = regexp.MustCompile(`_([^_]+)_`)

func canonicalizeEmphasis(md string) string {
	return underscoreEmphasis.ReplaceAllString(md, "*$1*")
}
