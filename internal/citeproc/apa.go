package citeproc

import (
	"fmt"
	"html"
	"strings"
)

// renderAPA renders a fixed APA-style reference-list entry as HTML,
// the one citation style the pipeline supports (§4.7: "a fixed APA-style
// HTML rendering template"). The item type is not consulted: an entry
// with a container title renders its title plain and the container title
// italicized, and an entry without one italicizes its own title.
func renderAPA(csl *CslReference) string {
	if csl == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<p>")
	sb.WriteString(formatAuthors(csl.Authors))
	if csl.Year != "" {
		fmt.Fprintf(&sb, " (%s)", html.EscapeString(csl.Year))
	} else {
		sb.WriteString(" (n.d.)")
	}
	sb.WriteString(". ")

	title := html.EscapeString(csl.Title)
	if csl.ContainerTitle == "" {
		if title != "" {
			fmt.Fprintf(&sb, "<i>%s</i>", title)
		}
	} else {
		sb.WriteString(title)
		sb.WriteString(". ")
		fmt.Fprintf(&sb, "<i>%s</i>", html.EscapeString(csl.ContainerTitle))
		writeVolumeIssuePage(&sb, csl)
	}
	sb.WriteString(".")

	if csl.DOI != "" {
		fmt.Fprintf(&sb, " https://doi.org/%s", html.EscapeString(csl.DOI))
	}
	sb.WriteString("</p>")
	return sb.String()
}

func writeVolumeIssuePage(sb *strings.Builder, csl *CslReference) {
	if csl.Volume == "" && csl.Page == "" {
		return
	}
	sb.WriteString(", ")
	if csl.Volume != "" {
		sb.WriteString(html.EscapeString(csl.Volume))
		if csl.Issue != "" {
			fmt.Fprintf(sb, "(%s)", html.EscapeString(csl.Issue))
		}
	}
	if csl.Page != "" {
		if csl.Volume != "" {
			sb.WriteString(", ")
		}
		sb.WriteString(html.EscapeString(csl.Page))
	}
}

// formatAuthors renders an APA author list: "Last, F." for one author,
// "Last, F., & Last, F." for two, and an Oxford-comma-joined list with a
// trailing "& Last, F." for three or more.
func formatAuthors(authors []Name) string {
	if len(authors) == 0 {
		return ""
	}
	formatted := make([]string, len(authors))
	for i, a := range authors {
		initials := a.Initials()
		if initials == "" {
			formatted[i] = html.EscapeString(a.Family)
			continue
		}
		formatted[i] = fmt.Sprintf("%s, %s", html.EscapeString(a.Family), html.EscapeString(initials))
	}
	switch len(formatted) {
	case 1:
		return formatted[0]
	case 2:
		return formatted[0] + ", & " + formatted[1]
	default:
		return strings.Join(formatted[:len(formatted)-1], ", ") + ", & " + formatted[len(formatted)-1]
	}
}
