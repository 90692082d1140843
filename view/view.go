// Package view presents a derivation tree through a uniform traversal
// contract so that different renderings share the same walk.
package view

import "github.com/dhamidi/smith/derive"

// Text is a view of one derivation node.
type Text interface {
	// Writer returns the node the view was made from.
	Writer() derive.Node
	// Children returns the views of the node's children, in order.
	Children() []Text
	// Output renders the view.
	Output() (string, error)
}

// Tree mirrors a derivation node. Child views are built on first use.
type Tree struct {
	node     derive.Node
	children []Text
	mirrored bool
}

func NewTree(node derive.Node) *Tree {
	return &Tree{node: node}
}

func (t *Tree) Writer() derive.Node { return t.node }

func (t *Tree) Children() []Text {
	if !t.mirrored {
		for _, child := range t.node.Children() {
			t.children = append(t.children, NewTree(child))
		}
		t.mirrored = true
	}
	return t.children
}

func (t *Tree) Output() (string, error) {
	return t.node.Generate()
}

// Leaf is a childless view with fixed output.
type Leaf struct {
	node derive.Node
	text string
}

func NewLeaf(node derive.Node, text string) *Leaf {
	return &Leaf{node: node, text: text}
}

func (l *Leaf) Writer() derive.Node     { return l.node }
func (l *Leaf) Children() []Text        { return nil }
func (l *Leaf) Output() (string, error) { return l.text, nil }
