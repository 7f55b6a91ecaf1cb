// Package syntax provides the minimal lossless concrete-syntax-tree
// substrate shared by the latex and bibtex grammars: a node carries a kind,
// a byte range, and either child nodes or token text. §1 of the
// specification places the concrete grammars themselves out of scope
// ("assumed to be a lossless red/green tree with tokens and nodes carrying
// byte ranges... not designed here") — this is the smallest tree that
// satisfies that assumption, standing in for the named external
// collaborator rather than reimplementing a pack library (no tree-sitter
// grammar for LaTeX/BibTeX exists in the retrieved pack).
package syntax

// Kind identifies the grammar production or token type of a Node. Each
// grammar (latex, bibtex) defines its own Kind space starting at a
// disjoint base so that a stray cast across grammars fails loudly instead
// of aliasing.
type Kind uint16

// Node is a single element of the tree: either an interior node (Children
// non-empty, Text empty) or a token (Children empty, Text holds the raw
// source slice). Ranges are half-open byte offsets [Start, End) into the
// owning Document's text.
type Node struct {
	Kind     Kind
	Start    int
	End      int
	Text     string
	Children []*Node
	Parent   *Node
}

// NewToken creates a leaf node carrying source text.
func NewToken(kind Kind, start int, text string) *Node {
	return &Node{Kind: kind, Start: start, End: start + len(text), Text: text}
}

// NewNode creates an interior node spanning its children and links them.
func NewNode(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind, Children: children}
	n.recomputeRange()
	for _, c := range children {
		if c != nil {
			c.Parent = n
		}
	}
	return n
}

func (n *Node) recomputeRange() {
	if len(n.Children) == 0 {
		return
	}
	start, end := -1, -1
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if start == -1 || c.Start < start {
			start = c.Start
		}
		if end == -1 || c.End > end {
			end = c.End
		}
	}
	if start != -1 {
		n.Start, n.End = start, end
	}
}

// IsToken reports whether n is a leaf token.
func (n *Node) IsToken() bool {
	return len(n.Children) == 0
}

// Append adds a child, re-parenting it and extending the range.
func (n *Node) Append(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	n.recomputeRange()
}

// Ancestors returns n's parent chain, starting with n itself.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for cur := n; cur != nil; cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}

// Descendants returns n and all its descendants in preorder.
func (n *Node) Descendants() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		out = append(out, node)
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Tokens returns the leaf tokens under n in source order.
func (n *Node) Tokens() []*Node {
	var out []*Node
	for _, d := range n.Descendants() {
		if d.IsToken() {
			out = append(out, d)
		}
	}
	return out
}

// TokenAtOffset returns the tokens immediately left and right of offset.
// At a token boundary both are returned (possibly the same token when
// offset falls strictly inside one). At the very start or end of the tree
// the corresponding side is nil.
func (n *Node) TokenAtOffset(offset int) (left, right *Node) {
	tokens := n.Tokens()
	for i, t := range tokens {
		if offset < t.Start {
			if i > 0 {
				left = tokens[i-1]
			}
			right = t
			return
		}
		if offset >= t.Start && offset < t.End {
			left, right = t, t
			return
		}
		if offset == t.End {
			left = t
			if i+1 < len(tokens) {
				right = tokens[i+1]
			}
			return
		}
	}
	if len(tokens) > 0 {
		left = tokens[len(tokens)-1]
	}
	return
}

// ChildrenOfKind returns direct children with the given kind.
func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildOfKind returns the first direct child with the given kind.
func (n *Node) FirstChildOfKind(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}
