// Package citeproc implements the staged citation rendering pipeline
// described in §4.7: BibTeX entry -> minimal re-emitted source -> RIS
// (via an external bibliography-conversion routine) -> CslReference ->
// APA HTML -> markdown. Every stage fails soft: any error or empty
// intermediate result yields "no hover" rather than a propagated error
// (§4.7: "Failure at any stage yields 'no hover' rather than an error
// surfaced to the user").
//
// The RIS tag handling and type-to-CSL mapping are ported from
// original_source/src/citeproc/ris.rs (itself ported from
// citeproc-java's RIS templates, per that file's own header). The tag
// switch covers the tags listed in applyRisTag, more than the distilled
// spec illustrates; any other tag is ignored.
package citeproc

import "strings"

// RisType is an upper-case RIS reference-type code such as "JOUR" or
// "CPAPER".
type RisType string

const (
	RisArt   RisType = "ART"
	RisBook  RisType = "BOOK"
	RisChap  RisType = "CHAP"
	RisConf  RisType = "CONF"
	RisCpaper RisType = "CPAPER"
	RisData  RisType = "DATA"
	RisEjour RisType = "EJOUR"
	RisGen   RisType = "GEN"
	RisJour  RisType = "JOUR"
	RisMgzn  RisType = "MGZN"
	RisNews  RisType = "NEWS"
	RisRprt  RisType = "RPRT"
	RisThes  RisType = "THES"
	RisUnpb  RisType = "UNPB"
	RisWeb   RisType = "ELEC"
)

// risToCsl maps the full RIS type catalog (ported from ris.rs's RisType)
// to this package's simplified CslType. Types with no close CSL analog
// fall back to CslArticle, matching the original's own frequent fallback.
var risToCsl = map[RisType]CslType{
	"ABST": CslArticle, "ADVS": CslArticle, "AGGR": CslDataset,
	"ANCIENT": CslArticle, "ART": CslArticle, "BILL": CslLegislation,
	"BLOG": CslWebpage, "BOOK": CslBook, "CASE": CslLegalCase,
	"CHAP": CslChapter, "CHART": CslArticle, "CLSWK": CslArticle,
	"COMP": CslArticle, "CONF": CslPaperConference, "CPAPER": CslPaperConference,
	"CTLG": CslBook, "DATA": CslDataset, "DBASE": CslDataset,
	"DICT": CslEntryDictionary, "EBOOK": CslBook, "ECHAP": CslChapter,
	"EDBOOK": CslBook, "EJOUR": CslArticleJournal, "ELEC": CslWebpage,
	"ENCYC": CslEntryEncyclopedia, "EQUA": CslArticle, "FIGURE": CslArticle,
	"GEN": CslArticle, "GOVDOC": CslLegislation, "GRANT": CslLegislation,
	"HEAR": CslArticle, "ICOMM": CslPersonalCommunication, "INPR": CslPaperConference,
	"JFULL": CslArticleJournal, "JOUR": CslArticleJournal, "LEGAL": CslLegislation,
	"MANSCPT": CslManuscript, "MAP": CslArticle, "MGZN": CslArticleMagazine,
	"MPCT": CslMotionPicture, "MULTI": CslWebpage, "MUSIC": CslSong,
	"NEWS": CslArticleNewspaper, "PAMP": CslArticle, "PAT": CslPatent,
	"PCOMM": CslPersonalCommunication, "RPRT": CslReport, "SER": CslArticle,
	"SLIDE": CslArticle, "SOUND": CslSong, "STAND": CslArticle,
	"STAT": CslLegislation, "STD": CslArticle, "THES": CslThesis,
	"UNPB": CslArticle, "VIDEO": CslMotionPicture,
}

// ParseRisType maps a RIS type code to a CslType, defaulting to
// CslArticle for unrecognized codes (ris.rs has no fallback variant of
// its own; this package's default stands in for an unparseable TY tag).
func ParseRisType(code string) CslType {
	if csl, ok := risToCsl[RisType(strings.ToUpper(code))]; ok {
		return csl
	}
	return CslArticle
}

// RisReference is a tagged record accumulated by two-letter RIS tag
// code, mirroring the field set of original_source/src/citeproc/ris.rs's
// RisReference. ID, Notes, Keywords, Abstract and Label are filled by the
// parser but not used by ToCsl. A tag with no case in applyRisTag is
// silently ignored, as the original does with its `_ => ()` arm.
type RisReference struct {
	ID               string
	Type             string
	Authors          []string
	Editors          []string
	Title            string
	SecondaryTitle   string
	Journal          string
	NameOfDatabase   string
	BookOrConference string
	Year             string
	Date             string
	DOI              string
	URL              string
	Volume           string
	Issue            string
	StartPage        string
	EndPage          string
	Publisher        string
	Place            string
	ISBNOrISSN       string
	Notes            []string
	Keywords         []string
	Abstract         string
	Label            string
}

// ParseRIS parses RIS-formatted text into references. Lines must be at
// least 7 characters long with a dash at position 4 (the fixed
// "XX  - value" tag format); any other line is skipped. An "ER  -" line
// terminates and emits the current reference (§4.7 step 3).
func ParseRIS(text string) []*RisReference {
	var out []*RisReference
	ref := &RisReference{}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if line == "ER  -" {
			out = append(out, ref)
			ref = &RisReference{}
			continue
		}
		chars := []rune(line)
		if len(chars) < 7 || chars[4] != '-' {
			continue
		}
		key := strings.ToUpper(string(chars[:2]))
		value := strings.TrimSpace(string(chars[6:]))
		applyRisTag(ref, key, value)
	}
	return out
}

func applyRisTag(ref *RisReference, key, value string) {
	switch key {
	case "TY":
		ref.Type = value
	case "A2", "ED":
		ref.Editors = append(ref.Editors, value)
	case "AU":
		ref.Authors = append(ref.Authors, value)
	case "BT":
		ref.BookOrConference = value
	case "CY":
		ref.Place = value
	case "DA":
		ref.Date = value
	case "DB":
		ref.NameOfDatabase = value
	case "DO":
		ref.DOI = value
	case "EP":
		ref.EndPage = value
	case "ID":
		ref.ID = value
	case "IS":
		ref.Issue = value
	case "JO", "J2":
		ref.Journal = value
	case "KW":
		ref.Keywords = append(ref.Keywords, value)
	case "LB":
		ref.Label = value
	case "N1":
		ref.Notes = append(ref.Notes, value)
	case "N2", "AB":
		ref.Abstract = value
	case "PB":
		ref.Publisher = value
	case "PY":
		ref.Year = value
	case "SN":
		ref.ISBNOrISSN = value
	case "SP":
		ref.StartPage = value
	case "T1", "TI":
		ref.Title = value
	case "T2":
		ref.SecondaryTitle = value
	case "UR":
		ref.URL = value
	case "VL":
		ref.Volume = value
	}
}
