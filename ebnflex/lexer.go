// Package ebnflex provides lexical scanning based on EBNF grammars.
//
// Tokens are the longest match, at each offset, among the grammar's lexical
// productions (lower-case names) and the literal tokens used by its
// syntactic productions. White space between tokens is skipped.
package ebnflex

import (
	"fmt"
	"io"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Position represents a location in source code.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token kinds that are not production names or literals.
const (
	KindEOF   = "EOF"
	KindError = "ERROR"
)

// Token represents a lexical token with its position.
type Token struct {
	Kind     string
	Literal  string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

// IsLexical reports whether a production name denotes a lexical production,
// following x/exp/ebnf: names that do not start with an upper-case letter.
func IsLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// Lexer tokenizes input based on an EBNF grammar.
type Lexer struct {
	grammar  ebnf.Grammar
	lexical  []string
	literals []string
	input    []byte
	filename string
	pos      int
	line     int
	column   int
	memo     map[memoKey]int  // memoization cache: key -> match length (-1 = no match)
	visiting map[memoKey]bool // cycle detection
}

// NewLexer creates a lexer for the given grammar and input.
func NewLexer(grammar ebnf.Grammar, input []byte, filename string) *Lexer {
	l := &Lexer{
		grammar:  grammar,
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	for name, prod := range grammar {
		if prod != nil && prod.Expr != nil && IsLexical(name) {
			l.lexical = append(l.lexical, name)
		}
	}
	sort.Strings(l.lexical)
	l.literals = Literals(grammar)
	return l
}

// Literals returns the distinct literal tokens of the syntactic productions,
// sorted.
func Literals(grammar ebnf.Grammar) []string {
	seen := make(map[string]bool)
	for name, prod := range grammar {
		if prod == nil || IsLexical(name) {
			continue
		}
		collectTokens(prod.Expr, seen)
	}
	out := make([]string, 0, len(seen))
	for lit := range seen {
		if lit != "" {
			out = append(out, lit)
		}
	}
	sort.Strings(out)
	return out
}

func collectTokens(expr ebnf.Expression, seen map[string]bool) {
	switch e := expr.(type) {
	case *ebnf.Token:
		seen[e.String] = true
	case ebnf.Sequence:
		for _, x := range e {
			collectTokens(x, seen)
		}
	case ebnf.Alternative:
		for _, x := range e {
			collectTokens(x, seen)
		}
	case *ebnf.Group:
		collectTokens(e.Body, seen)
	case *ebnf.Option:
		collectTokens(e.Body, seen)
	case *ebnf.Repetition:
		collectTokens(e.Body, seen)
	}
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	ch, size := utf8.DecodeRune(l.input[l.pos:])
	l.pos += size
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		ch, _ := utf8.DecodeRune(l.input[l.pos:])
		if !unicode.IsSpace(ch) {
			return
		}
		l.advance()
	}
}

// NextToken returns the next token from the input. Literal tokens win ties
// against lexical productions, so keywords keep their own kind.
func (l *Lexer) NextToken() (Token, error) {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return Token{Kind: KindEOF, Position: l.Position()}, io.EOF
	}

	startPos := l.Position()
	startOffset := l.pos

	// Clear memoization cache for each new token (positions change)
	l.memo = make(map[memoKey]int)

	var bestKind string
	var bestLen int

	for _, lit := range l.literals {
		if n := l.tryMatchToken(lit, startOffset); n > bestLen {
			bestLen = n
			bestKind = lit
		}
	}
	for _, name := range l.lexical {
		l.visiting = make(map[memoKey]bool)
		if n := l.tryMatchName(name, startOffset); n > bestLen {
			bestLen = n
			bestKind = name
		}
	}

	if bestLen == 0 {
		// No match - emit single character as error token
		ch := l.advance()
		return Token{
			Kind:     KindError,
			Literal:  string(ch),
			Position: startPos,
		}, nil
	}

	end := startOffset + bestLen
	for l.pos < end {
		l.advance()
	}

	return Token{
		Kind:     bestKind,
		Literal:  string(l.input[startOffset:end]),
		Position: startPos,
	}, nil
}

// tryMatch attempts to match an expression at the given offset.
// Returns the length of the match, or 0 if no match. Repetitions and
// alternatives are greedy and never backtrack.
func (l *Lexer) tryMatch(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		return l.tryMatchToken(e.String, offset)

	case *ebnf.Range:
		return l.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		pos := offset
		for _, item := range e {
			n := l.tryMatch(item, pos)
			if n == 0 && !nullable(item) {
				return 0
			}
			total += n
			pos += n
		}
		return total

	case ebnf.Alternative:
		best := 0
		for _, alt := range e {
			n := l.tryMatch(alt, offset)
			if n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		pos := offset
		for {
			n := l.tryMatch(e.Body, pos)
			if n == 0 {
				break
			}
			total += n
			pos += n
		}
		return total

	case *ebnf.Option:
		// Option always succeeds (returns 0 if body doesn't match)
		return l.tryMatch(e.Body, offset)

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)

	default:
		return 0
	}
}

// nullable reports whether a zero-length match of expr is a success.
func nullable(expr ebnf.Expression) bool {
	switch e := expr.(type) {
	case nil, *ebnf.Option, *ebnf.Repetition:
		return true
	case *ebnf.Group:
		return nullable(e.Body)
	case ebnf.Sequence:
		for _, x := range e {
			if !nullable(x) {
				return false
			}
		}
		return true
	case ebnf.Alternative:
		for _, x := range e {
			if nullable(x) {
				return true
			}
		}
		return false
	}
	return false
}

// tryMatchName matches a named production with memoization and cycle detection.
func (l *Lexer) tryMatchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}

	if result, ok := l.memo[key]; ok {
		if result == -1 {
			return 0
		}
		return result
	}

	// Cycle detection - if we're already visiting this production at this offset,
	// return 0 to break the cycle (left recursion)
	if l.visiting[key] {
		return 0
	}

	prod, ok := l.grammar[name]
	if !ok || prod == nil || prod.Expr == nil {
		l.memo[key] = -1
		return 0
	}

	l.visiting[key] = true
	result := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	if result == 0 {
		l.memo[key] = -1
	} else {
		l.memo[key] = result
	}

	return result
}

// tryMatchToken matches a literal string token.
func (l *Lexer) tryMatchToken(s string, offset int) int {
	if s == "" || offset+len(s) > len(l.input) {
		return 0
	}
	if string(l.input[offset:offset+len(s)]) == s {
		return len(s)
	}
	return 0
}

// tryMatchRange matches a single character in a range (e.g., "a" … "z").
func (l *Lexer) tryMatchRange(begin, end string, offset int) int {
	if offset >= len(l.input) {
		return 0
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	ch, size := utf8.DecodeRune(l.input[offset:])
	if ch >= lo && ch <= hi {
		return size
	}
	return 0
}

// Tokenize reads all tokens from input. The last token is always EOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err == io.EOF {
			tokens = append(tokens, tok)
			break
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Matcher tests whole strings against single lexical productions.
type Matcher struct {
	l *Lexer
}

func NewMatcher(grammar ebnf.Grammar) *Matcher {
	return &Matcher{l: &Lexer{grammar: grammar}}
}

// Match reports whether the production name matches all of text.
func (m *Matcher) Match(name, text string) bool {
	if text == "" {
		return false
	}
	m.l.input = []byte(text)
	m.l.memo = make(map[memoKey]int)
	m.l.visiting = make(map[memoKey]bool)
	return m.l.tryMatchName(name, 0) == len(text)
}

// Matches reports whether the lexical production name matches all of text.
func Matches(grammar ebnf.Grammar, name, text string) bool {
	return NewMatcher(grammar).Match(name, text)
}

// Errors returns the ERROR tokens of a token stream.
func Errors(tokens []Token) []Token {
	var out []Token
	for _, tok := range tokens {
		if tok.Kind == KindError {
			out = append(out, tok)
		}
	}
	return out
}
