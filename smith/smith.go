// Package smith generates random programs from EBNF grammars.
//
// A grammar in the notation of golang.org/x/exp/ebnf is lowered into a
// derivation tree (package derive) by expanding the start production and
// resolving every choice with a random.Source. Productions whose name starts
// with an upper-case letter are syntactic and separate their elements;
// lower-case productions are lexical and render their elements adjacent.
package smith

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/smith/derive"
	"github.com/dhamidi/smith/grammars"
	"github.com/dhamidi/smith/random"
	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"
)

var (
	// ErrMissingStartRule reports a start production absent from the grammar.
	ErrMissingStartRule = errors.New("missing start rule")
	// ErrUndefinedProduction reports a reference to an undefined production.
	ErrUndefinedProduction = errors.New("undefined production")
	// ErrNonTerminating reports a production without any finite derivation.
	ErrNonTerminating = errors.New("production cannot terminate")
)

const (
	DefaultMaxDepth  = 16
	DefaultSeparator = " "
)

var log = commonlog.GetLogger("smith")

type options struct {
	source    random.Source
	seed      int64
	maxDepth  int
	separator string
	trace     bool
}

// Option configures a Generator.
type Option func(*options)

// WithSource draws every choice from src. It takes precedence over WithSeed.
func WithSource(src random.Source) Option {
	return func(o *options) { o.source = src }
}

// WithSeed uses a seeded source. Zero picks a seed from the clock.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithMaxDepth sets how many nested productions are expanded freely before
// the generator steers towards the shortest derivation.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithSeparator sets the text between elements of syntactic productions.
func WithSeparator(sep string) Option {
	return func(o *options) { o.separator = sep }
}

// WithTrace logs every random draw at debug level.
func WithTrace() Option {
	return func(o *options) { o.trace = true }
}

// Generator samples derivations of one grammar.
type Generator struct {
	grammar ebnf.Grammar
	heights map[string]int
	opts    options
	source  random.Source
}

func New(grammar ebnf.Grammar, opts ...Option) *Generator {
	o := options{
		maxDepth:  DefaultMaxDepth,
		separator: DefaultSeparator,
	}
	for _, opt := range opts {
		opt(&o)
	}

	src := o.source
	if src == nil {
		seeded := random.New(o.seed)
		o.seed = seeded.Seed()
		src = seeded
	}
	if o.trace {
		src = random.NewTraced(src)
	}

	return &Generator{
		grammar: grammar,
		heights: heights(grammar),
		opts:    o,
		source:  src,
	}
}

// Seed returns the seed of the generator's own source, or zero when the
// source was supplied with WithSource.
func (g *Generator) Seed() int64 {
	if g.opts.source != nil {
		return 0
	}
	return g.opts.seed
}

// Tree builds a random derivation of start. The returned rule's parent is the
// root sentinel.
func (g *Generator) Tree(start string) (derive.Node, error) {
	if _, ok := g.grammar[start]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingStartRule, start)
	}
	b := &builder{
		grammar:   g.grammar,
		heights:   g.heights,
		source:    g.source,
		maxDepth:  g.opts.maxDepth,
		separator: g.opts.separator,
	}
	tree, err := b.expand(derive.NewRoot(), start, 0)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", start, err)
	}
	log.Debugf("built %s with %d expansions", start, b.expansions)
	return tree, nil
}

// Generate renders a random program derived from start.
func (g *Generator) Generate(start string) (string, error) {
	tree, err := g.Tree(start)
	if err != nil {
		return "", err
	}
	out, err := tree.Generate()
	if err != nil {
		return "", fmt.Errorf("render %s: %w", start, err)
	}
	return out, nil
}

// Parse reads a grammar.
func Parse(filename string, r io.Reader) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Load locates a grammar resource: an embedded preset name such as "json",
// or a path on disk.
func Load(name string) (ebnf.Grammar, error) {
	if preset, ok := grammars.Lookup(name); ok {
		f, err := preset.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return Parse(preset.File, f)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Parse(name, f)
}

// DefaultStart returns the start production of a preset, or "" for
// grammars loaded from disk.
func DefaultStart(name string) string {
	if preset, ok := grammars.Lookup(name); ok {
		return preset.Start
	}
	return ""
}

// GenerateFrom loads a grammar resource and renders one program from start.
// An empty start uses the preset's start production.
func GenerateFrom(name, start string, opts ...Option) (string, error) {
	grammar, err := Load(name)
	if err != nil {
		return "", err
	}
	if start == "" {
		start = DefaultStart(name)
	}
	return New(grammar, opts...).Generate(start)
}
