package smith

import (
	"fmt"
	"unicode/utf8"

	"github.com/dhamidi/smith/derive"
	"github.com/dhamidi/smith/ebnflex"
	"github.com/dhamidi/smith/random"
	"golang.org/x/exp/ebnf"
)

// builder lowers one start production into a derivation tree. All draws go
// through source in the order the grammar is walked.
type builder struct {
	grammar   ebnf.Grammar
	heights   map[string]int
	source    random.Source
	maxDepth  int
	separator string

	expansions int
}

// frame is the lowering state of the enclosing production.
type frame struct {
	depth int
	sep   string
}

func (f frame) exhausted(max int) bool {
	return f.depth > max
}

func (b *builder) expand(parent derive.Node, name string, depth int) (derive.Node, error) {
	prod, ok := b.grammar[name]
	if !ok || prod == nil {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedProduction, name)
	}
	if b.heights[name] == infinite {
		return nil, fmt.Errorf("%w: %q", ErrNonTerminating, name)
	}
	b.expansions++

	f := frame{depth: depth + 1, sep: b.separator}
	if ebnflex.IsLexical(name) {
		f.sep = ""
	}
	rule := derive.NewRule(parent, name).WithSeparator(f.sep)
	if err := b.fill(rule, prod.Expr, f); err != nil {
		return nil, err
	}
	return rule, nil
}

// fill appends the derivation of expr to rule. A sequence contributes one
// child per element, and "x {x}" becomes a single + quantifier.
func (b *builder) fill(rule *derive.Rule, expr ebnf.Expression, f frame) error {
	seq, ok := expr.(ebnf.Sequence)
	if !ok {
		n, err := b.build(rule, expr, f)
		if err != nil {
			return err
		}
		return rule.Append(n)
	}

	for i := 0; i < len(seq); i++ {
		var (
			n   derive.Node
			err error
		)
		if i+1 < len(seq) && isOneOrMore(seq[i], seq[i+1]) {
			n, err = b.quantify(rule, "+", seq[i], f)
			i++
		} else {
			n, err = b.build(rule, seq[i], f)
		}
		if err != nil {
			return err
		}
		if err := rule.Append(n); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) build(parent derive.Node, expr ebnf.Expression, f frame) (derive.Node, error) {
	switch e := expr.(type) {
	case nil:
		return derive.NewEmpty(parent), nil
	case *ebnf.Token:
		return derive.NewLiteral(parent, e.String), nil
	case *ebnf.Range:
		return b.char(parent, e)
	case *ebnf.Name:
		return b.expand(parent, e.String, f.depth)
	case *ebnf.Group:
		return b.build(parent, e.Body, f)
	case ebnf.Sequence:
		group := derive.NewRule(parent, "group").WithSeparator(f.sep)
		if err := b.fill(group, e, f); err != nil {
			return nil, err
		}
		return group, nil
	case ebnf.Alternative:
		return b.choose(parent, e, f)
	case *ebnf.Option:
		return b.quantify(parent, "?", e.Body, f)
	case *ebnf.Repetition:
		return b.quantify(parent, "*", e.Body, f)
	case *ebnf.Bad:
		return nil, fmt.Errorf("bad expression: %s", e.Error)
	default:
		return nil, fmt.Errorf("unexpected expression %T", expr)
	}
}

// choose picks one alternative. Past the depth limit only the alternatives
// with the shortest derivation are candidates.
func (b *builder) choose(parent derive.Node, alt ebnf.Alternative, f frame) (derive.Node, error) {
	candidates := []ebnf.Expression(alt)
	if f.exhausted(b.maxDepth) {
		candidates = shortest(alt, b.heights)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no alternative in %s", ErrNonTerminating, derive.Path(parent))
	}
	return b.build(parent, candidates[b.source.NextInt(len(candidates))], f)
}

// quantify builds one occurrence of body and realizes op over it. Past the
// depth limit ? and * are absent and + keeps a single occurrence, without
// drawing.
func (b *builder) quantify(parent derive.Node, op string, body ebnf.Expression, f frame) (derive.Node, error) {
	if f.exhausted(b.maxDepth) {
		if op == "+" {
			return b.build(parent, body, f)
		}
		return derive.NewEmpty(parent), nil
	}
	occurrence, err := b.build(parent, body, f)
	if err != nil {
		return nil, err
	}
	return derive.NewQuantifier(parent, derive.Suffix{Op: op, Separator: f.sep}, occurrence, b.source)
}

func (b *builder) char(parent derive.Node, r *ebnf.Range) (derive.Node, error) {
	lo, hi, err := bounds(r)
	if err != nil {
		return nil, err
	}
	ch := lo + rune(b.source.NextInt(int(hi-lo)+1))
	return derive.NewLiteral(parent, string(ch)), nil
}

func bounds(r *ebnf.Range) (rune, rune, error) {
	lo, n := utf8.DecodeRuneInString(r.Begin.String)
	if n == 0 || n != len(r.Begin.String) {
		return 0, 0, fmt.Errorf("range start %q is not a single character", r.Begin.String)
	}
	hi, n := utf8.DecodeRuneInString(r.End.String)
	if n == 0 || n != len(r.End.String) {
		return 0, 0, fmt.Errorf("range end %q is not a single character", r.End.String)
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("decreasing range %q … %q", r.Begin.String, r.End.String)
	}
	return lo, hi, nil
}

// isOneOrMore reports whether x followed by next spells x {x}.
func isOneOrMore(x, next ebnf.Expression) bool {
	rep, ok := next.(*ebnf.Repetition)
	if !ok {
		return false
	}
	return sameExpr(x, rep.Body)
}

func sameExpr(a, b ebnf.Expression) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case *ebnf.Name:
		y, ok := b.(*ebnf.Name)
		return ok && x.String == y.String
	case *ebnf.Token:
		y, ok := b.(*ebnf.Token)
		return ok && x.String == y.String
	case *ebnf.Range:
		y, ok := b.(*ebnf.Range)
		return ok && x.Begin.String == y.Begin.String && x.End.String == y.End.String
	case *ebnf.Group:
		y, ok := b.(*ebnf.Group)
		return ok && sameExpr(x.Body, y.Body)
	case *ebnf.Option:
		y, ok := b.(*ebnf.Option)
		return ok && sameExpr(x.Body, y.Body)
	case *ebnf.Repetition:
		y, ok := b.(*ebnf.Repetition)
		return ok && sameExpr(x.Body, y.Body)
	case ebnf.Sequence:
		y, ok := b.(ebnf.Sequence)
		return ok && sameList(x, y)
	case ebnf.Alternative:
		y, ok := b.(ebnf.Alternative)
		return ok && sameList(x, y)
	}
	return false
}

func sameList(a, b []ebnf.Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}
