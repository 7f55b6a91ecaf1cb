package citeproc

import (
	"strconv"
	"strings"
)

// CslType is a trimmed catalog of CSL item types, matching the variants
// original_source/src/citeproc/ris.rs's CslType maps RIS codes onto. The
// APA renderer does not distinguish between them; every type renders
// through the same template.
type CslType int

const (
	CslArticle CslType = iota
	CslArticleJournal
	CslArticleMagazine
	CslArticleNewspaper
	CslBook
	CslChapter
	CslDataset
	CslEntryDictionary
	CslEntryEncyclopedia
	CslLegalCase
	CslLegislation
	CslManuscript
	CslMotionPicture
	CslPaperConference
	CslPatent
	CslPersonalCommunication
	CslReport
	CslSong
	CslThesis
	CslWebpage
)

// Name is a split personal name, built by splitName from a free-text
// "First Last" or "Last, First" RIS author/editor string (ris.rs
// delegates this to an unseen name::parse module; this is this port's
// equivalent).
type Name struct {
	Family string
	Given  string
}

// Initials renders Given as APA-style initials, e.g. "Foo Bar" -> "F. B.".
func (n Name) Initials() string {
	parts := strings.Fields(n.Given)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		r := []rune(p)
		if len(r) == 0 {
			continue
		}
		out = append(out, strings.ToUpper(string(r[0]))+".")
	}
	return strings.Join(out, " ")
}

// CslReference is the mapped, renderer-ready form of an RisReference.
type CslReference struct {
	Type           CslType
	Authors        []Name
	Editors        []Name
	Title          string
	ContainerTitle string
	Year           string
	Month          string
	Day            string
	DOI            string
	URL            string
	Volume         string
	Issue          string
	Page           string
	Publisher      string
	Place          string
	ISBN           string
	ISSN           string
}

// splitName parses a single RIS name field. RIS names are most commonly
// "Last, First" (the AU tag's documented form); a bare string with no
// comma is treated as "First ... Last" and split on the final space,
// matching ris.rs's fallback behavior for free-text names.
func splitName(raw string) Name {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Name{}
	}
	if idx := strings.Index(raw, ","); idx >= 0 {
		return Name{
			Family: strings.TrimSpace(raw[:idx]),
			Given:  strings.TrimSpace(raw[idx+1:]),
		}
	}
	parts := strings.Fields(raw)
	if len(parts) == 1 {
		return Name{Family: parts[0]}
	}
	return Name{
		Family: parts[len(parts)-1],
		Given:  strings.Join(parts[:len(parts)-1], " "),
	}
}

// parseDateOrRange splits a RIS DA/PY date field of the form
// "year[/month[/day]]", the only form ris.rs's parse_date_or_range
// recognizes outside of an explicit range separator.
func parseDateOrRange(date string) (year, month, day string) {
	parts := strings.Split(date, "/")
	if len(parts) > 0 {
		year = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		month = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		day = strings.TrimSpace(parts[2])
	}
	return
}

// parseNumber coerces a string to its canonical decimal form when
// possible, otherwise passes the original string through unchanged
// (ris.rs's parse_number falls back to the raw string rather than
// dropping the field on a non-numeric value).
func parseNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return strconv.Itoa(n)
	}
	return raw
}

// composePageRange joins a start/end page pair as "start-end", or just
// start if end is empty (§4.7 step 3: "SP/EP -> page range composed as
// 'start-end'").
func composePageRange(start, end string) string {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" {
		return end
	}
	if end == "" {
		return start
	}
	return start + "-" + end
}

// ToCsl maps a parsed RisReference onto a CslReference, following
// original_source/src/citeproc/ris.rs's `impl Into<Reference> for
// RisReference`: authors/editors are name-split, container title follows
// the journal -> database -> book-or-conference priority chain, dates
// are parsed as year[/month[/day]], numeric fields fall back to their
// raw string on non-numeric input, and SN is used as both ISBN and ISSN
// since RIS does not distinguish the two in that tag.
func ToCsl(ref *RisReference) *CslReference {
	csl := &CslReference{
		Type:      ParseRisType(ref.Type),
		Title:     ref.Title,
		DOI:       ref.DOI,
		URL:       ref.URL,
		Publisher: ref.Publisher,
		Place:     ref.Place,
		ISBN:      ref.ISBNOrISSN,
		ISSN:      ref.ISBNOrISSN,
		Volume:    parseNumber(ref.Volume),
		Issue:     parseNumber(ref.Issue),
		Page:      composePageRange(ref.StartPage, ref.EndPage),
	}

	for _, a := range ref.Authors {
		csl.Authors = append(csl.Authors, splitName(a))
	}
	for _, e := range ref.Editors {
		csl.Editors = append(csl.Editors, splitName(e))
	}

	switch {
	case ref.Journal != "":
		csl.ContainerTitle = ref.Journal
	case ref.NameOfDatabase != "":
		csl.ContainerTitle = ref.NameOfDatabase
	case ref.BookOrConference != "":
		csl.ContainerTitle = ref.BookOrConference
	case ref.SecondaryTitle != "":
		csl.ContainerTitle = ref.SecondaryTitle
	}

	date := ref.Date
	if date == "" {
		date = ref.Year
	}
	csl.Year, csl.Month, csl.Day = parseDateOrRange(date)

	return csl
}
