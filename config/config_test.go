package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsDefaults(t *testing.T) {
	p, err := Parse([]byte("grammar: json\nseed: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, "json", p.Grammar)
	assert.Equal(t, "Value", p.Start)
	assert.Equal(t, int64(7), p.Seed)
	assert.Equal(t, 16, p.MaxDepth)
	assert.Equal(t, " ", p.Separator)
	assert.Equal(t, 1, p.Count)
}

func TestParseExplicitSeparator(t *testing.T) {
	p, err := Parse([]byte("grammar: expr\nseparator: \"\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "", p.Separator)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"depth":   "grammar: expr\nmax_depth: 0\n",
		"count":   "grammar: expr\ncount: -1\n",
		"workers": "grammar: expr\nworkers: 1000\n",
		"seed":    "grammar: expr\nseed: -4\n",
		"grammar": "grammar: \"\"\n",
		"start":   "grammar: ./my.ebnf\n",
	}
	for field, src := range cases {
		_, err := Parse([]byte(src))
		require.Error(t, err, field)
		assert.Contains(t, err.Error(), field)
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("grammar: [unterminated"))
	assert.ErrorContains(t, err, "decode profile")
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")

	want := Default()
	want.Grammar = "java"
	want.Start = "ClassDecl"
	want.Count = 12
	want.Workers = 3
	data, err := want.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read profile")
}

func TestOptions(t *testing.T) {
	p := Default()
	assert.Len(t, p.Options(), 2)
	p.Trace = true
	assert.Len(t, p.Options(), 3)
}
