package latex

import "github.com/texls/texls/internal/syntax"

// Link is a single explicit cross-document reference discovered in a
// document (an \include/\input/\subfile or a \bibliography/\addbibresource
// directive). Kind distinguishes which; Paths holds the raw, unresolved
// argument text in source order (§3 LinkTarget candidate lists are built
// from these by the workspace layer, which knows how to resolve a raw path
// relative to the owning Uri).
type Link struct {
	Kind  string // "include" or "bibliography"
	Paths []string
}

// Extras is the precomputed analysis result attached to a parsed LaTeX
// document (DocumentData.Latex.extras in §3). Implicit aux/log link
// construction is done by the workspace layer, which alone knows the
// owning document's Uri.
type Extras struct {
	LabelNumbersByName     map[string]string
	TheoremEnvironments    map[string]string // environment name -> description text
	ExplicitLinks          []Link
	HasDocumentEnvironment bool
	GlossaryReferences     []string // recovered feature, §C: \gls-family targets
	IsSubfiles             bool     // documentclass{subfiles} present (§4.2 parent-expander stop condition)
}

var glossaryReferenceCommands = map[string]bool{
	"gls": true, "Gls": true, "glspl": true, "Glspl": true,
	"glsdisp": true, "acrshort": true, "acrlong": true,
}

// Analyze walks a parsed LaTeX tree and computes its Extras. Label numbers
// are populated separately once a build log is available (§4.9); Analyze
// seeds an empty map so callers can assign into it without a nil check.
func Analyze(root *syntax.Node) *Extras {
	extras := &Extras{
		LabelNumbersByName:  make(map[string]string),
		TheoremEnvironments: make(map[string]string),
	}
	for _, n := range root.Descendants() {
		switch n.Kind {
		case ENVIRONMENT:
			if EnvironmentName(n) == "document" {
				extras.HasDocumentEnvironment = true
			}
		case INCLUDE:
			extras.ExplicitLinks = append(extras.ExplicitLinks, Link{Kind: "include", Paths: IncludePaths(n)})
		case BIBLATEX_INCLUDE:
			extras.ExplicitLinks = append(extras.ExplicitLinks, Link{Kind: "bibliography", Paths: IncludePaths(n)})
		case DOCUMENT_CLASS:
			if DocumentClassName(n) == "subfiles" {
				extras.IsSubfiles = true
			}
		case GENERIC_COMMAND:
			analyzeNewtheorem(n, extras)
			analyzeGlossaryReference(n, extras)
		}
	}
	return extras
}

// analyzeNewtheorem recognizes \newtheorem{name}{Description}[counter] or
// \newtheorem{name}[counter]{Description}, recording name -> Description.
func analyzeNewtheorem(cmd *syntax.Node, extras *Extras) {
	if len(cmd.Children) == 0 || CommandNameText(cmd.Children[0]) != "newtheorem" {
		return
	}
	var curlyGroups []*syntax.Node
	for _, c := range cmd.Children[1:] {
		if c.Kind == CURLY_GROUP {
			curlyGroups = append(curlyGroups, c)
		}
	}
	if len(curlyGroups) < 2 {
		return
	}
	name := flattenWords(curlyGroups[0])
	desc := flattenWords(curlyGroups[1])
	if name != "" {
		extras.TheoremEnvironments[name] = desc
	}
}

func analyzeGlossaryReference(cmd *syntax.Node, extras *Extras) {
	if len(cmd.Children) == 0 {
		return
	}
	name := CommandNameText(cmd.Children[0])
	if !glossaryReferenceCommands[name] {
		return
	}
	for _, c := range cmd.Children[1:] {
		if c.Kind == CURLY_GROUP {
			if target := flattenWords(c); target != "" {
				extras.GlossaryReferences = append(extras.GlossaryReferences, target)
			}
			return
		}
	}
}

func flattenWords(group *syntax.Node) string {
	var out []byte
	for _, tok := range group.Tokens() {
		if tok.Kind == WORD {
			out = append(out, tok.Text...)
		}
	}
	return string(out)
}
