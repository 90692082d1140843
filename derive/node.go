// Package derive models one concrete derivation of a grammar: a tree of nodes
// whose rendered text is a sample program.
package derive

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedNode reports a node missing an operand it needs to render.
	ErrMalformedNode = errors.New("malformed node")
	// ErrUnsupportedMutation reports Append on a variant without children.
	ErrUnsupportedMutation = errors.New("unsupported mutation")
	// ErrUnsupportedQuantifier reports an EBNF suffix other than ?, * or +.
	ErrUnsupportedQuantifier = errors.New("unsupported quantifier")
)

// Node is one grammar construct in a concrete derivation.
//
// The set of variants is closed: Literal, Empty, Sequence, Quantifier, Rule
// and Root. Children are owned top-down. The parent link is only used for
// lookups such as Ancestors and is never written through.
type Node interface {
	Parent() Node
	Children() []Node
	// Generate renders the node and its children in order.
	Generate() (string, error)
	// Append adds a child at the end. Terminal variants fail.
	Append(child Node) error
	// String describes the node for diagnostics; it is not its output.
	String() string

	node()
}

func orEmpty(parent Node) Node {
	if parent == nil {
		return NewEmpty(nil)
	}
	return parent
}

// Ancestors returns the parent chain of n, nearest first.
func Ancestors(n Node) []Node {
	var out []Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// Path renders the ancestry of n as "a > b > n" for error messages.
func Path(n Node) string {
	chain := Ancestors(n)
	parts := make([]string, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		parts = append(parts, chain[i].String())
	}
	parts = append(parts, n.String())
	return strings.Join(parts, " > ")
}

// Literal is fixed terminal text.
type Literal struct {
	parent Node
	text   string
}

func NewLiteral(parent Node, text string) *Literal {
	return &Literal{parent: orEmpty(parent), text: text}
}

func (l *Literal) Parent() Node     { return l.parent }
func (l *Literal) Children() []Node { return nil }

// Text returns the literal text.
func (l *Literal) Text() string { return l.text }

func (l *Literal) Generate() (string, error) {
	return l.text, nil
}

func (l *Literal) Append(child Node) error {
	return fmt.Errorf("%w: literal cannot have children: %s", ErrUnsupportedMutation, l)
}

func (l *Literal) String() string {
	return fmt.Sprintf("literal(%s)", l.text)
}

func (*Literal) node() {}

// Empty is the epsilon derivation: it renders nothing.
type Empty struct {
	parent Node
}

// NewEmpty creates an empty node. Unlike other variants a nil parent stays
// nil, which is what terminates the default-parent chain.
func NewEmpty(parent Node) *Empty {
	return &Empty{parent: parent}
}

func (e *Empty) Parent() Node              { return e.parent }
func (e *Empty) Children() []Node          { return nil }
func (e *Empty) Generate() (string, error) { return "", nil }

func (e *Empty) Append(child Node) error {
	return fmt.Errorf("%w: empty cannot have children", ErrUnsupportedMutation)
}

func (e *Empty) String() string { return "empty" }

func (*Empty) node() {}

// Root is the implicit ancestor of a whole derivation. It is only used as a
// label and is never rendered into output.
type Root struct{}

func NewRoot() *Root { return &Root{} }

func (*Root) Parent() Node              { return nil }
func (*Root) Children() []Node          { return nil }
func (*Root) Generate() (string, error) { return "", nil }

func (*Root) Append(child Node) error {
	return fmt.Errorf("%w: root sentinel cannot have children", ErrUnsupportedMutation)
}

func (*Root) String() string { return "root" }

func (*Root) node() {}
