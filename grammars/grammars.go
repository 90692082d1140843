// Package grammars embeds the sample grammars smith ships with.
package grammars

import (
	"embed"
	"fmt"
	"io"
	"sort"
)

//go:embed *.ebnf
var FS embed.FS

// Preset names an embedded grammar and the production programs start from.
type Preset struct {
	Name  string
	File  string
	Start string
}

var presets = map[string]Preset{
	"expr": {Name: "expr", File: "expr.ebnf", Start: "Program"},
	"json": {Name: "json", File: "json.ebnf", Start: "Value"},
	"java": {Name: "java", File: "java.ebnf", Start: "CompilationUnit"},
}

// Lookup finds a preset by its bare name. Names with an extension, such as
// "json.ebnf", are file paths and never match.
func Lookup(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// Names lists the preset names in order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open returns the source of a preset grammar.
func (p Preset) Open() (io.ReadCloser, error) {
	f, err := FS.Open(p.File)
	if err != nil {
		return nil, fmt.Errorf("open embedded grammar %s: %w", p.File, err)
	}
	return f, nil
}
