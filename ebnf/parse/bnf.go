package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/smith/ebnflex"
	"golang.org/x/exp/ebnf"
)

type symbolKind int

const (
	nonterminal symbolKind = iota
	literal
	lexical
	charRange
)

// symbol is one element on the right-hand side of a BNF rule.
type symbol struct {
	kind symbolKind
	name string // nonterminal or lexical production; literal text
	lo   rune
	hi   rune
}

func (s symbol) String() string {
	switch s.kind {
	case literal:
		return fmt.Sprintf("%q", s.name)
	case charRange:
		return fmt.Sprintf("%q … %q", s.lo, s.hi)
	default:
		return s.name
	}
}

// rule is a plain BNF rule: lhs → rhs.
type rule struct {
	lhs string
	rhs []symbol
}

func (r rule) String() string {
	parts := make([]string, len(r.rhs))
	for i, s := range r.rhs {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s → %s", r.lhs, strings.Join(parts, " "))
}

// bnf is an EBNF grammar rewritten into plain rules. Groups, options and
// repetitions become fresh nonterminals named "owner#n". Lexical productions
// are not rewritten: they are terminals matched against a whole token.
type bnf struct {
	rules    []rule
	byLHS    map[string][]int
	nullable map[string]bool
}

const acceptName = "$accept"

type desugarer struct {
	grammar ebnf.Grammar
	out     *bnf
	fresh   map[string]int
}

func desugar(g ebnf.Grammar, start string) (*bnf, error) {
	d := &desugarer{
		grammar: g,
		out:     &bnf{byLHS: make(map[string][]int)},
		fresh:   make(map[string]int),
	}

	startSym, err := d.symbol(acceptName, &ebnf.Name{String: start})
	if err != nil {
		return nil, err
	}
	d.add(acceptName, []symbol{startSym})

	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prod := g[name]
		if prod == nil || ebnflex.IsLexical(name) {
			continue
		}
		alts, err := d.alternatives(name, prod.Expr)
		if err != nil {
			return nil, err
		}
		for _, rhs := range alts {
			d.add(name, rhs)
		}
	}

	d.out.nullable = nullables(d.out.rules)
	return d.out, nil
}

func (d *desugarer) add(lhs string, rhs []symbol) {
	d.out.byLHS[lhs] = append(d.out.byLHS[lhs], len(d.out.rules))
	d.out.rules = append(d.out.rules, rule{lhs: lhs, rhs: rhs})
}

func (d *desugarer) newName(owner string) string {
	d.fresh[owner]++
	return fmt.Sprintf("%s#%d", owner, d.fresh[owner])
}

func (d *desugarer) alternatives(owner string, expr ebnf.Expression) ([][]symbol, error) {
	alt, ok := expr.(ebnf.Alternative)
	if !ok {
		seq, err := d.sequence(owner, expr)
		if err != nil {
			return nil, err
		}
		return [][]symbol{seq}, nil
	}
	out := make([][]symbol, 0, len(alt))
	for _, x := range alt {
		seq, err := d.sequence(owner, x)
		if err != nil {
			return nil, err
		}
		out = append(out, seq)
	}
	return out, nil
}

func (d *desugarer) sequence(owner string, expr ebnf.Expression) ([]symbol, error) {
	switch e := expr.(type) {
	case nil:
		return nil, nil
	case ebnf.Sequence:
		out := make([]symbol, 0, len(e))
		for _, x := range e {
			s, err := d.symbol(owner, x)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		s, err := d.symbol(owner, expr)
		if err != nil {
			return nil, err
		}
		return []symbol{s}, nil
	}
}

func (d *desugarer) symbol(owner string, expr ebnf.Expression) (symbol, error) {
	switch e := expr.(type) {
	case *ebnf.Token:
		return symbol{kind: literal, name: e.String}, nil

	case *ebnf.Name:
		if _, ok := d.grammar[e.String]; !ok {
			return symbol{}, fmt.Errorf("undefined production %q referenced from %s", e.String, owner)
		}
		if ebnflex.IsLexical(e.String) {
			return symbol{kind: lexical, name: e.String}, nil
		}
		return symbol{kind: nonterminal, name: e.String}, nil

	case *ebnf.Range:
		lo := []rune(e.Begin.String)
		hi := []rune(e.End.String)
		if len(lo) != 1 || len(hi) != 1 {
			return symbol{}, fmt.Errorf("range %q … %q in %s is not single characters", e.Begin.String, e.End.String, owner)
		}
		return symbol{kind: charRange, lo: lo[0], hi: hi[0]}, nil

	case *ebnf.Option:
		name := d.newName(owner)
		alts, err := d.alternatives(owner, e.Body)
		if err != nil {
			return symbol{}, err
		}
		for _, rhs := range alts {
			d.add(name, rhs)
		}
		d.add(name, nil)
		return symbol{kind: nonterminal, name: name}, nil

	case *ebnf.Repetition:
		name := d.newName(owner)
		self := symbol{kind: nonterminal, name: name}
		alts, err := d.alternatives(owner, e.Body)
		if err != nil {
			return symbol{}, err
		}
		d.add(name, nil)
		for _, rhs := range alts {
			d.add(name, append(rhs, self))
		}
		return self, nil

	case *ebnf.Group:
		return d.symbol(owner, e.Body)

	case nil, ebnf.Sequence, ebnf.Alternative:
		name := d.newName(owner)
		alts, err := d.alternatives(owner, expr)
		if err != nil {
			return symbol{}, err
		}
		for _, rhs := range alts {
			d.add(name, rhs)
		}
		return symbol{kind: nonterminal, name: name}, nil

	case *ebnf.Bad:
		return symbol{}, fmt.Errorf("bad expression in %s: %s", owner, e.Error)
	}
	return symbol{}, fmt.Errorf("unexpected expression %T in %s", expr, owner)
}

// nullables returns the nonterminals that derive the empty string.
func nullables(rules []rule) map[string]bool {
	nullable := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, r := range rules {
			if nullable[r.lhs] {
				continue
			}
			all := true
			for _, s := range r.rhs {
				if s.kind != nonterminal || !nullable[s.name] {
					all = false
					break
				}
			}
			if all {
				nullable[r.lhs] = true
				changed = true
			}
		}
	}
	return nullable
}
