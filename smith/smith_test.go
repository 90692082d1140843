package smith

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/smith/derive"
	"github.com/dhamidi/smith/ebnf/parse"
	"github.com/dhamidi/smith/grammars"
	"github.com/dhamidi/smith/random"
	"github.com/dhamidi/smith/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/ebnf"
)

func grammar(t *testing.T, src string) ebnf.Grammar {
	t.Helper()
	g, err := Parse("test", strings.NewReader(src))
	require.NoError(t, err)
	return g
}

func TestGenerateScripted(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		start  string
		script *random.Scripted
		want   string
	}{
		{
			name:   "option and repetition",
			src:    `S = "a" [ "b" ] { "c" } .`,
			start:  "S",
			script: &random.Scripted{Flips: []bool{true}, Ints: []int{2}},
			want:   "a b c c",
		},
		{
			name:   "absent option leaves no separator",
			src:    `S = "a" [ "b" ] "c" .`,
			start:  "S",
			script: &random.Scripted{Flips: []bool{false}},
			want:   "a c",
		},
		{
			name:   "lexical production is not separated",
			src:    `s = "a" { "b" } .`,
			start:  "s",
			script: &random.Scripted{Ints: []int{2}},
			want:   "abb",
		},
		{
			name:   "x {x} is one or more",
			src:    `S = x { x } . x = "y" .`,
			start:  "S",
			script: &random.Scripted{Ints: []int{1}},
			want:   "y y",
		},
		{
			name:   "range",
			src:    `d = "0" … "9" .`,
			start:  "d",
			script: &random.Scripted{Ints: []int{7}},
			want:   "7",
		},
		{
			name:   "alternative",
			src:    `S = "a" | "b" | "c" .`,
			start:  "S",
			script: &random.Scripted{Ints: []int{1}},
			want:   "b",
		},
		{
			name:   "group",
			src:    `S = ( "a" "b" | "c" ) "d" .`,
			start:  "S",
			script: &random.Scripted{Ints: []int{0}},
			want:   "a b d",
		},
		{
			name:   "empty production",
			src:    `S = "a" E "b" . E = .`,
			start:  "S",
			script: &random.Scripted{},
			want:   "a b",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := New(grammar(t, c.src), WithSource(c.script)).Generate(c.start)
			require.NoError(t, err)
			assert.Equal(t, c.want, out)
		})
	}
}

func TestRepeatedOccurrencesShareChoices(t *testing.T) {
	g := grammar(t, `S = item { item } . item = "0" … "9" .`)
	// one draw for the digit, then the count
	out, err := New(g, WithSource(&random.Scripted{Ints: []int{4, 3}})).Generate("S")
	require.NoError(t, err)
	assert.Equal(t, "4 4 4 4", out)
}

func TestDepthLimitSteersToShortest(t *testing.T) {
	g := grammar(t, `S = "x" | "(" S ")" .`)
	gen := New(g, WithMaxDepth(3), WithSource(&random.Scripted{Ints: []int{1}}))
	out, err := gen.Generate("S")
	require.NoError(t, err)
	assert.Equal(t, "( ( ( x ) ) )", out)
}

func TestDepthLimitDropsRepetitions(t *testing.T) {
	g := grammar(t, `S = "[" { S } "]" .`)
	gen := New(g, WithMaxDepth(2), WithSource(&random.Scripted{Ints: []int{1}}))
	out, err := gen.Generate("S")
	require.NoError(t, err)
	assert.Equal(t, "[ [ [ ] ] ]", out)
}

func TestMissingStartRule(t *testing.T) {
	_, err := New(grammar(t, `S = "a" .`)).Generate("Program")
	require.ErrorIs(t, err, ErrMissingStartRule)
	assert.Contains(t, err.Error(), "Program")
}

func TestUndefinedProduction(t *testing.T) {
	_, err := New(grammar(t, `S = "a" T .`)).Generate("S")
	require.ErrorIs(t, err, ErrUndefinedProduction)
	assert.Contains(t, err.Error(), `"T"`)
}

func TestNonTerminating(t *testing.T) {
	_, err := New(grammar(t, `S = "a" S .`)).Generate("S")
	assert.ErrorIs(t, err, ErrNonTerminating)
}

func TestBadRange(t *testing.T) {
	_, err := New(grammar(t, `s = "ab" … "z" .`)).Generate("s")
	assert.Error(t, err)
}

func TestTreeShape(t *testing.T) {
	g := grammar(t, `S = "a" [ "b" ] .`)
	tree, err := New(g, WithSource(&random.Scripted{Flips: []bool{true}})).Tree("S")
	require.NoError(t, err)

	rule, ok := tree.(*derive.Rule)
	require.True(t, ok)
	assert.Equal(t, "S", rule.Name())
	assert.IsType(t, &derive.Root{}, rule.Parent())
	require.Len(t, rule.Children(), 2)
	assert.Equal(t, "ebnfSuffix(?)", rule.Children()[1].String())

	dot, err := view.NewDotTree(view.NewTree(tree)).Output()
	require.NoError(t, err)
	want := "digraph JsmithGenerativeTree{\n" +
		"\"root\" -> \"S\";\n" +
		"\"S\" -> \"literal(a)\";\n" +
		"\"S\" -> \"ebnfSuffix(?)\";\n" +
		"\"ebnfSuffix(?)\" -> \"literal(b)\";\n" +
		"}"
	assert.Equal(t, want, dot)
}

func TestSeedReproducesOutput(t *testing.T) {
	g, err := Load("java")
	require.NoError(t, err)
	for seed := int64(1); seed <= 10; seed++ {
		a, err := New(g, WithSeed(seed)).Generate("CompilationUnit")
		require.NoError(t, err)
		b, err := New(g, WithSeed(seed)).Generate("CompilationUnit")
		require.NoError(t, err)
		assert.Equal(t, a, b, "seed %d", seed)
	}
}

func TestSeedIsReported(t *testing.T) {
	g := grammar(t, `S = "a" .`)
	assert.Equal(t, int64(99), New(g, WithSeed(99)).Seed())
	assert.NotZero(t, New(g).Seed())
	assert.Zero(t, New(g, WithSource(random.New(5))).Seed())
}

// Every program generated from a shipped grammar must derive from it.
func TestGeneratedProgramsParse(t *testing.T) {
	for _, name := range grammars.Names() {
		t.Run(name, func(t *testing.T) {
			g, err := Load(name)
			require.NoError(t, err)
			start := DefaultStart(name)
			require.NoError(t, ebnf.Verify(g, start))

			for seed := int64(1); seed <= 40; seed++ {
				out, err := New(g, WithSeed(seed), WithMaxDepth(10)).Generate(start)
				require.NoError(t, err)
				require.NoError(t, parse.ParseText(g, []byte(out), name, start), "seed %d:\n%s", seed, out)
			}
		})
	}
}

func TestGenerateFrom(t *testing.T) {
	out, err := GenerateFrom("json", "", WithSeed(3))
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = GenerateFrom("does-not-exist.ebnf", "S")
	assert.Error(t, err)
}

func TestHeights(t *testing.T) {
	g := grammar(t, `
		A = "a" | B .
		B = "(" C ")" .
		C = A { A } .
		D = D "x" .
	`)
	h := heights(g)
	assert.Equal(t, 1, h["A"])
	assert.Equal(t, 3, h["B"])
	assert.Equal(t, 2, h["C"])
	assert.Equal(t, infinite, h["D"])
}

func TestLoadPrefersFilesWithExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "json.ebnf"), []byte(`Value = "mine" .`), 0o644))
	t.Chdir(dir)

	out, err := GenerateFrom("json.ebnf", "Value")
	require.NoError(t, err)
	assert.Equal(t, "mine", out)
	assert.Empty(t, DefaultStart("json.ebnf"))

	g, err := Load("json")
	require.NoError(t, err)
	assert.Contains(t, g, "Object")
}
