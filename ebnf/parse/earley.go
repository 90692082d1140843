// Package parse recognizes token streams with EBNF grammars. It is used to
// check that generated programs really derive from their grammar.
package parse

import (
	"fmt"

	"github.com/dhamidi/smith/ebnflex"
	"golang.org/x/exp/ebnf"
)

// EarleyParser implements Earley recognition for EBNF grammars. The grammar
// is rewritten into plain BNF first; prediction of a nullable nonterminal
// also advances past it, so empty rules need no special completion pass.
type EarleyParser struct {
	grammar   ebnf.Grammar
	tokens    []ebnflex.Token
	skipKinds map[string]bool
	matcher   *ebnflex.Matcher

	// Internal state
	bnf      *bnf
	chart    []*ItemSet
	filtered []ebnflex.Token // tokens after filtering trivia
}

// Item represents an Earley item: a rule with a dot position and origin.
type Item struct {
	Rule   int // index of the BNF rule
	Dot    int // position in the rule's right-hand side
	Origin int // chart position where this item started
}

// ItemSet is a set of Earley items at a particular chart position.
type ItemSet struct {
	items    []Item
	itemSet  map[Item]bool // for deduplication
	position int
}

func newItemSet(pos int) *ItemSet {
	return &ItemSet{
		itemSet:  make(map[Item]bool),
		position: pos,
	}
}

// Add inserts item unless it is already present.
func (s *ItemSet) Add(item Item) bool {
	if s.itemSet[item] {
		return false
	}
	s.itemSet[item] = true
	s.items = append(s.items, item)
	return true
}

// Items returns the items in insertion order.
func (s *ItemSet) Items() []Item {
	return s.items
}

// NewEarleyParser creates a new Earley parser. EOF tokens are skipped.
func NewEarleyParser(g ebnf.Grammar, tokens []ebnflex.Token) *EarleyParser {
	return &EarleyParser{
		grammar:   g,
		tokens:    tokens,
		skipKinds: map[string]bool{ebnflex.KindEOF: true},
		matcher:   ebnflex.NewMatcher(g),
	}
}

// SetSkipKinds sets which token kinds to skip.
func (p *EarleyParser) SetSkipKinds(kinds ...string) {
	p.skipKinds = make(map[string]bool)
	for _, k := range kinds {
		p.skipKinds[k] = true
	}
}

// Chart returns the item sets of the last Parse.
func (p *EarleyParser) Chart() []*ItemSet {
	return p.chart
}

// Describe renders an item as "lhs → a • b, origin".
func (p *EarleyParser) Describe(item Item) string {
	r := p.bnf.rules[item.Rule]
	s := r.lhs + " →"
	for i, sym := range r.rhs {
		if i == item.Dot {
			s += " •"
		}
		s += " " + sym.String()
	}
	if item.Dot == len(r.rhs) {
		s += " •"
	}
	return fmt.Sprintf("[%s, %d]", s, item.Origin)
}

// Parse reports whether the tokens derive from startProduction.
func (p *EarleyParser) Parse(startProduction string) error {
	if _, ok := p.grammar[startProduction]; !ok {
		return fmt.Errorf("production %q not found in grammar", startProduction)
	}
	g, err := desugar(p.grammar, startProduction)
	if err != nil {
		return fmt.Errorf("prepare grammar: %w", err)
	}
	p.bnf = g

	p.filtered = make([]ebnflex.Token, 0, len(p.tokens))
	for _, tok := range p.tokens {
		if !p.skipKinds[tok.Kind] {
			p.filtered = append(p.filtered, tok)
		}
	}

	n := len(p.filtered)
	p.chart = make([]*ItemSet, n+1)
	for i := range p.chart {
		p.chart[i] = newItemSet(i)
	}

	accept := g.byLHS[acceptName][0]
	p.chart[0].Add(Item{Rule: accept})

	for i := 0; i <= n; i++ {
		// items may be added during iteration
		for j := 0; j < len(p.chart[i].items); j++ {
			item := p.chart[i].items[j]
			r := g.rules[item.Rule]
			if item.Dot == len(r.rhs) {
				p.complete(i, item)
				continue
			}
			next := r.rhs[item.Dot]
			if next.kind == nonterminal {
				p.predict(i, item, next)
			} else if i < n && p.scan(next, p.filtered[i]) {
				p.chart[i+1].Add(advance(item))
			}
		}
	}

	if p.chart[n].itemSet[Item{Rule: accept, Dot: 1}] {
		return nil
	}

	// Report the furthest position reached
	furthest := 0
	for i := n; i >= 0; i-- {
		if len(p.chart[i].items) > 0 {
			furthest = i
			break
		}
	}
	if furthest < n {
		tok := p.filtered[furthest]
		return fmt.Errorf("parse error at %s: unexpected %q", tok.Position, tok.Literal)
	}
	return fmt.Errorf("parse error: incomplete parse")
}

func advance(item Item) Item {
	return Item{Rule: item.Rule, Dot: item.Dot + 1, Origin: item.Origin}
}

// predict adds the rules of a nonterminal, and skips it when it is nullable.
func (p *EarleyParser) predict(pos int, item Item, next symbol) {
	for _, idx := range p.bnf.byLHS[next.name] {
		p.chart[pos].Add(Item{Rule: idx, Origin: pos})
	}
	if p.bnf.nullable[next.name] {
		p.chart[pos].Add(advance(item))
	}
}

// scan matches a terminal against one token.
func (p *EarleyParser) scan(sym symbol, tok ebnflex.Token) bool {
	switch sym.kind {
	case literal:
		return tok.Literal == sym.name
	case lexical:
		return p.matcher.Match(sym.name, tok.Literal)
	case charRange:
		r := []rune(tok.Literal)
		return len(r) == 1 && r[0] >= sym.lo && r[0] <= sym.hi
	}
	return false
}

// complete advances the items at the origin that were waiting for the
// completed rule's nonterminal.
func (p *EarleyParser) complete(pos int, completed Item) {
	lhs := p.bnf.rules[completed.Rule].lhs
	waiting := p.chart[completed.Origin].items
	for _, item := range waiting {
		r := p.bnf.rules[item.Rule]
		if item.Dot == len(r.rhs) {
			continue
		}
		next := r.rhs[item.Dot]
		if next.kind == nonterminal && next.name == lhs {
			p.chart[pos].Add(advance(item))
		}
	}
}

// ParseTokens is a convenience function to parse tokens with a grammar.
func ParseTokens(g ebnf.Grammar, tokens []ebnflex.Token, start string) error {
	return NewEarleyParser(g, tokens).Parse(start)
}

// ParseText tokenizes input with the grammar's lexical productions and
// recognizes it from start.
func ParseText(g ebnf.Grammar, input []byte, filename, start string) error {
	tokens, err := ebnflex.NewLexer(g, input, filename).Tokenize()
	if err != nil {
		return fmt.Errorf("tokenize: %w", err)
	}
	if errs := ebnflex.Errors(tokens); len(errs) > 0 {
		return fmt.Errorf("tokenize: unexpected %q at %s", errs[0].Literal, errs[0].Position)
	}
	return ParseTokens(g, tokens, start)
}
