package derive

import (
	"fmt"

	"github.com/dhamidi/smith/random"
)

// MaxRepeat bounds the occurrences produced by * and +.
const MaxRepeat = 5

// Suffix is an EBNF quantifier: ?, * or +, optionally followed by the
// non-greedy marker ?. The marker is kept for descriptions only and does not
// change sampling.
type Suffix struct {
	Op       string
	Modifier string
	// Separator is placed between repeated occurrences.
	Separator string
}

func (s Suffix) String() string {
	return fmt.Sprintf("ebnfSuffix(%s%s)", s.Op, s.Modifier)
}

func (s Suffix) validate() error {
	switch s.Op {
	case "?", "*", "+":
	default:
		return fmt.Errorf("%w: %q for %s", ErrUnsupportedQuantifier, s.Op, s)
	}
	switch s.Modifier {
	case "", "?":
		return nil
	default:
		return fmt.Errorf("%w: modifier %q for %s", ErrUnsupportedQuantifier, s.Modifier, s)
	}
}

// Realize turns one built occurrence into its random repetition:
//
//	?  one flip: the occurrence itself, or Empty
//	+  1..MaxRepeat occurrences
//	*  0..MaxRepeat occurrences
//
// Repetitions hold the same occurrence node several times, so every copy
// renders the same text.
func Realize(s Suffix, from Node, src random.Source) (Node, error) {
	return realize(nil, s, from, src)
}

func realize(parent Node, s Suffix, from Node, src random.Source) (Node, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	switch s.Op {
	case "?":
		if src.Flip() {
			return from, nil
		}
		return NewEmpty(parent), nil
	case "+":
		n := src.NextInt(MaxRepeat) + 1
		return repeat(parent, from, n).WithSeparator(s.Separator), nil
	default:
		n := src.NextInt(MaxRepeat + 1)
		return repeat(parent, from, n).WithSeparator(s.Separator), nil
	}
}

func repeat(parent Node, from Node, n int) *Sequence {
	children := make([]Node, n)
	for i := range children {
		children[i] = from
	}
	return NewSequence(parent, children...)
}

// Quantifier wraps an occurrence together with its suffix. The random choice
// is made once, when the quantifier is built, and every later Generate
// renders that same choice.
type Quantifier struct {
	parent   Node
	suffix   Suffix
	from     Node
	realized Node
}

// NewQuantifier realizes from under suffix. An operator other than ?, * or +
// fails with ErrUnsupportedQuantifier. A nil from is accepted here and
// reported by Generate.
func NewQuantifier(parent Node, suffix Suffix, from Node, src random.Source) (*Quantifier, error) {
	q := &Quantifier{parent: orEmpty(parent), suffix: suffix, from: from}
	if err := suffix.validate(); err != nil {
		return nil, err
	}
	if from == nil {
		return q, nil
	}
	realized, err := realize(q, suffix, from, src)
	if err != nil {
		return nil, err
	}
	q.realized = realized
	return q, nil
}

func (q *Quantifier) Parent() Node { return q.parent }

// Suffix returns the quantifier's operator and modifier.
func (q *Quantifier) Suffix() Suffix { return q.suffix }

// Occurrence returns the single occurrence the quantifier repeats.
func (q *Quantifier) Occurrence() Node { return q.from }

// Realized returns the chosen form: the occurrence, Empty or a Sequence.
func (q *Quantifier) Realized() Node { return q.realized }

func (q *Quantifier) Children() []Node {
	if q.realized == nil {
		return nil
	}
	return []Node{q.realized}
}

func (q *Quantifier) Generate() (string, error) {
	if q.from == nil || q.realized == nil {
		return "", fmt.Errorf("%w: operand is required for %s", ErrMalformedNode, Path(q))
	}
	return q.realized.Generate()
}

func (q *Quantifier) Append(child Node) error {
	return fmt.Errorf("%w: %s is already realized", ErrUnsupportedMutation, q)
}

func (q *Quantifier) String() string { return q.suffix.String() }

func (*Quantifier) node() {}
