package view

import (
	"fmt"
	"strings"

	"github.com/dhamidi/smith/derive"
)

// DotGraphName is the name of the exported digraph.
const DotGraphName = "JsmithGenerativeTree"

// DotTree renders a view as a Graphviz digraph. It delegates Writer and
// Children to the wrapped view and only replaces Output.
type DotTree struct {
	origin Text
}

func NewDotTree(origin Text) *DotTree {
	return &DotTree{origin: origin}
}

func (d *DotTree) Writer() derive.Node { return d.origin.Writer() }
func (d *DotTree) Children() []Text    { return d.origin.Children() }

// Output emits one edge per parent/child pair, depth first, starting from a
// synthetic "root". Nodes shared by a repetition are visited once per edge.
func (d *DotTree) Output() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s{\n", DotGraphName)
	d.travers(NewLeaf(root(d.origin.Writer()), "root"), d.origin, &b)
	b.WriteString("}")
	return b.String(), nil
}

func (d *DotTree) travers(parent, current Text, b *strings.Builder) {
	fmt.Fprintf(b, "%q -> %q;\n", label(parent), label(current))
	for _, child := range current.Children() {
		d.travers(current, child, b)
	}
}

// root returns the Root sentinel at the top of n's ancestry, or a fresh one
// for trees built outside a generation run.
func root(n derive.Node) derive.Node {
	chain := derive.Ancestors(n)
	if len(chain) > 0 {
		if r, ok := chain[len(chain)-1].(*derive.Root); ok {
			return r
		}
	}
	return derive.NewRoot()
}

func label(t Text) string {
	return t.Writer().String()
}
