package derive

import (
	"fmt"
	"strings"
)

// Sequence holds the realized occurrences of a repetition. The same node may
// appear several times in its children.
type Sequence struct {
	parent    Node
	children  []Node
	separator string
}

func NewSequence(parent Node, children ...Node) *Sequence {
	return &Sequence{parent: orEmpty(parent), children: children}
}

// WithSeparator sets the text placed between rendered occurrences.
func (s *Sequence) WithSeparator(sep string) *Sequence {
	s.separator = sep
	return s
}

func (s *Sequence) Parent() Node     { return s.parent }
func (s *Sequence) Children() []Node { return s.children }

// Len returns the number of occurrences.
func (s *Sequence) Len() int { return len(s.children) }

func (s *Sequence) Generate() (string, error) {
	return join(s, s.children, s.separator)
}

func (s *Sequence) Append(child Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil child appended to %s", ErrMalformedNode, s)
	}
	s.children = append(s.children, child)
	return nil
}

func (s *Sequence) String() string {
	return fmt.Sprintf("several(%d)", len(s.children))
}

func (*Sequence) node() {}

// Rule is the derivation of a named grammar production or of a group within
// one. Its children are the chosen elements, in order.
type Rule struct {
	parent    Node
	name      string
	children  []Node
	separator string
}

func NewRule(parent Node, name string) *Rule {
	return &Rule{parent: orEmpty(parent), name: name}
}

// WithSeparator sets the text placed between non-empty child outputs.
func (r *Rule) WithSeparator(sep string) *Rule {
	r.separator = sep
	return r
}

// Name returns the production name.
func (r *Rule) Name() string { return r.name }

// Separator returns the text placed between child outputs.
func (r *Rule) Separator() string { return r.separator }

func (r *Rule) Parent() Node     { return r.parent }
func (r *Rule) Children() []Node { return r.children }

func (r *Rule) Generate() (string, error) {
	return join(r, r.children, r.separator)
}

func (r *Rule) Append(child Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil child appended to %s", ErrMalformedNode, r)
	}
	r.children = append(r.children, child)
	return nil
}

func (r *Rule) String() string { return r.name }

func (*Rule) node() {}

// join renders children in order, skipping the separator around empty
// outputs so that absent options leave no trace.
func join(owner Node, children []Node, sep string) (string, error) {
	var b strings.Builder
	wrote := false
	for _, child := range children {
		if child == nil {
			return "", fmt.Errorf("%w: nil child in %s", ErrMalformedNode, Path(owner))
		}
		out, err := child.Generate()
		if err != nil {
			return "", err
		}
		if out == "" {
			continue
		}
		if wrote {
			b.WriteString(sep)
		}
		b.WriteString(out)
		wrote = true
	}
	return b.String(), nil
}
