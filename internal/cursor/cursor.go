// Package cursor derives an "active" syntax token from a document
// position by applying a fixed, deterministic tie-break between the
// tokens immediately left and right of the byte offset (§4.6). Grounded
// on the rule tables given in the specification and shaped after the
// span-lookup used by internal/syntax.Node.TokenAtOffset.
package cursor

import (
	"github.com/texls/texls/internal/syntax"
	"github.com/texls/texls/internal/syntax/bibtex"
	"github.com/texls/texls/internal/syntax/latex"
)

// Cursor is the selected active token at a position, or a nil Node when
// no side qualifies ("nothing", §4.6 rule 7's fallback).
type Cursor struct {
	Node   *syntax.Node
	Offset int
}

// IsNothing reports whether no token was selected.
func (c *Cursor) IsNothing() bool {
	return c == nil || c.Node == nil
}

// NewLatex derives a Cursor from a LaTeX syntax tree and a byte offset,
// applying the seven-rule priority list in §4.6.
func NewLatex(root *syntax.Node, offset int) *Cursor {
	left, right := root.TokenAtOffset(offset)
	cache := make(map[*syntax.Node]bool)

	switch {
	case left != nil && left.Kind == latex.COMMAND_NAME && !isVerbatim(left, cache):
		return &Cursor{Node: left, Offset: offset}
	case right != nil && right.Kind == latex.WORD && !isVerbatim(right, cache):
		return &Cursor{Node: right, Offset: offset}
	case left != nil && left.Kind == latex.WORD && !isVerbatim(left, cache):
		return &Cursor{Node: left, Offset: offset}
	case right != nil && right.Kind == latex.COMMAND_NAME && !isVerbatim(right, cache):
		return &Cursor{Node: right, Offset: offset}
	case left != nil && left.Kind == latex.WHITESPACE && left.Parent != nil && left.Parent.Kind == latex.KEY:
		return &Cursor{Node: left, Offset: offset}
	case right != nil && right.Kind == latex.WHITESPACE && right.Parent != nil && right.Parent.Kind == latex.KEY:
		return &Cursor{Node: right, Offset: offset}
	case right != nil && !isVerbatim(right, cache):
		return &Cursor{Node: right, Offset: offset}
	default:
		return &Cursor{Node: nil, Offset: offset}
	}
}

// NewBibtex derives a Cursor from a BibTeX syntax tree and a byte offset:
// type tokens win on either side (right first), then words (right
// first). BibTeX has no distinct command-name token kind — entry-type
// tokens already fill that role, so the "command names" tier named in
// §4.6 never adds a match beyond the type-token tier above it.
func NewBibtex(root *syntax.Node, offset int) *Cursor {
	left, right := root.TokenAtOffset(offset)

	switch {
	case right != nil && right.Kind == bibtex.TYPE:
		return &Cursor{Node: right, Offset: offset}
	case left != nil && left.Kind == bibtex.TYPE:
		return &Cursor{Node: left, Offset: offset}
	case right != nil && right.Kind == bibtex.WORD:
		return &Cursor{Node: right, Offset: offset}
	case left != nil && left.Kind == bibtex.WORD:
		return &Cursor{Node: left, Offset: offset}
	default:
		return &Cursor{Node: nil, Offset: offset}
	}
}

// isVerbatim walks n's ancestors looking for an ENVIRONMENT whose name is
// in latex.VerbatimEnvironments, caching the result for every ancestor
// visited so that repeated lookups against sibling tokens in the same
// region do not re-walk the chain (§4.6: "ancestors already consumed by
// the search are cached to avoid quadratic work").
func isVerbatim(n *syntax.Node, cache map[*syntax.Node]bool) bool {
	var chain []*syntax.Node
	cur := n
	for cur != nil {
		if v, ok := cache[cur]; ok {
			memoize(cache, chain, v)
			return v
		}
		chain = append(chain, cur)
		if cur.Kind == latex.ENVIRONMENT && latex.VerbatimEnvironments[latex.EnvironmentName(cur)] {
			memoize(cache, chain, true)
			return true
		}
		cur = cur.Parent
	}
	memoize(cache, chain, false)
	return false
}

func memoize(cache map[*syntax.Node]bool, chain []*syntax.Node, result bool) {
	for _, n := range chain {
		cache[n] = result
	}
}
