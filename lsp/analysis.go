package lsp

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/smith/ebnflex"
	"github.com/dhamidi/smith/smith"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"golang.org/x/exp/ebnf"
)

// HoverMaxDepth bounds the samples shown on hover.
const HoverMaxDepth = 8

var errorPos = regexp.MustCompile(`^(?:(.*):)?(\d+):(\d+): (.*)$`)

// Diagnose parses an EBNF document and reports syntax errors, references to
// undefined productions and lexical productions referring to syntactic ones.
func Diagnose(filename, text string) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	grammar, err := ebnf.Parse(filename, strings.NewReader(text))
	if err != nil {
		for _, e := range splitErrors(err) {
			diags = append(diags, parseDiagnostic(e))
		}
		return diags
	}

	for name, prod := range grammar {
		if prod == nil {
			continue
		}
		walkNames(prod.Expr, func(ref *ebnf.Name) {
			if _, ok := grammar[ref.String]; !ok {
				diags = append(diags, nameDiagnostic(ref, protocol.DiagnosticSeverityError,
					fmt.Sprintf("undefined production %s", ref.String)))
				return
			}
			if ebnflex.IsLexical(name) && !ebnflex.IsLexical(ref.String) {
				diags = append(diags, nameDiagnostic(ref, protocol.DiagnosticSeverityWarning,
					fmt.Sprintf("lexical production %s refers to syntactic production %s", name, ref.String)))
			}
		})
	}
	sortDiagnostics(diags)
	return diags
}

// splitErrors flattens the error list returned by ebnf.Parse.
func splitErrors(err error) []error {
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Slice {
		return []error{err}
	}
	out := make([]error, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if e, ok := v.Index(i).Interface().(error); ok {
			out = append(out, e)
		}
	}
	return out
}

func parseDiagnostic(err error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	msg := err.Error()
	var line, col int
	if m := errorPos.FindStringSubmatch(msg); m != nil {
		line, _ = strconv.Atoi(m[2])
		col, _ = strconv.Atoi(m[3])
		msg = m[4]
	}
	pos := position(line, col)
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: &severity,
		Source:   strPtr(lsName),
		Message:  msg,
	}
}

func nameDiagnostic(ref *ebnf.Name, severity protocol.DiagnosticSeverity, msg string) protocol.Diagnostic {
	start := position(ref.Pos().Line, ref.Pos().Column)
	end := start
	end.Character += protocol.UInteger(utf8.RuneCountInString(ref.String))
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Source:   strPtr(lsName),
		Message:  msg,
	}
}

// position converts 1-based scanner coordinates to a protocol position.
func position(line, col int) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(max(line-1, 0)),
		Character: protocol.UInteger(max(col-1, 0)),
	}
}

func sortDiagnostics(diags []protocol.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Range.Start, diags[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
}

func walkNames(expr ebnf.Expression, fn func(*ebnf.Name)) {
	switch e := expr.(type) {
	case *ebnf.Name:
		fn(e)
	case ebnf.Sequence:
		for _, x := range e {
			walkNames(x, fn)
		}
	case ebnf.Alternative:
		for _, x := range e {
			walkNames(x, fn)
		}
	case *ebnf.Group:
		walkNames(e.Body, fn)
	case *ebnf.Option:
		walkNames(e.Body, fn)
	case *ebnf.Repetition:
		walkNames(e.Body, fn)
	}
}

// WordAt returns the identifier under a 0-based line and character.
func WordAt(text string, line, char int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	runes := []rune(lines[line])
	if char < 0 || char > len(runes) {
		return ""
	}
	start, end := char, char
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

var errNoProduction = errors.New("no production under cursor")

// Sample renders a sample derivation of the production under the cursor as
// Markdown.
func Sample(filename, text string, line, char int, seed int64) (string, error) {
	word := WordAt(text, line, char)
	if word == "" {
		return "", errNoProduction
	}
	grammar, err := ebnf.Parse(filename, strings.NewReader(text))
	if err != nil {
		return "", err
	}
	if _, ok := grammar[word]; !ok {
		return "", errNoProduction
	}

	kind := "syntactic"
	if ebnflex.IsLexical(word) {
		kind = "lexical"
	}
	out, err := smith.New(grammar, smith.WithSeed(seed), smith.WithMaxDepth(HoverMaxDepth)).Generate(word)
	if err != nil {
		return fmt.Sprintf("**%s** (%s)\n\n%s", word, kind, err), nil
	}
	return fmt.Sprintf("**%s** (%s)\n\n```\n%s\n```", word, kind, out), nil
}

func strPtr(s string) *string {
	return &s
}
