package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/smith/smith"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options(t *testing.T, workers int) Options {
	t.Helper()
	g, err := smith.Load("expr")
	require.NoError(t, err)
	return Options{
		Grammar:   g,
		Start:     "Program",
		Seed:      100,
		Count:     24,
		Workers:   workers,
		Generator: []smith.Option{smith.WithMaxDepth(8)},
	}
}

func TestRunIsIndependentOfWorkers(t *testing.T) {
	serial, err := Run(context.Background(), options(t, 1))
	require.NoError(t, err)
	parallel, err := Run(context.Background(), options(t, 6))
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)

	for i, p := range serial {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, int64(100+i), p.Seed)
		assert.NotEmpty(t, p.Text)
	}
}

func TestRunMatchesSingleGeneration(t *testing.T) {
	opts := options(t, 4)
	programs, err := Run(context.Background(), opts)
	require.NoError(t, err)

	want, err := smith.New(opts.Grammar, smith.WithMaxDepth(8), smith.WithSeed(105)).Generate("Program")
	require.NoError(t, err)
	assert.Equal(t, want, programs[5].Text)
}

func TestRunFails(t *testing.T) {
	opts := options(t, 3)
	opts.Start = "Missing"
	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, smith.ErrMissingStartRule)
}

func TestRunRejectsNegativeSeed(t *testing.T) {
	opts := options(t, 2)
	opts.Seed = -3
	_, err := Run(context.Background(), opts)
	assert.ErrorContains(t, err, "negative seed -3")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, options(t, 2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	programs := []Program{{Index: 0, Seed: 3, Text: "let a = 1 ;"}, {Index: 1, Seed: 4, Text: "print ( 2 ) ;"}}

	m, err := Write(dir, "expr", "Program", ".txt", programs)
	require.NoError(t, err)
	_, err = uuid.Parse(m.RunID)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "program-0001.txt"))
	require.NoError(t, err)
	assert.Equal(t, "print ( 2 ) ;\n", string(data))

	read, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, m, read)
	assert.Equal(t, []Entry{{File: "program-0000.txt", Seed: 3}, {File: "program-0001.txt", Seed: 4}}, read.Programs)
}
