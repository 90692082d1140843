package parse

import (
	"strings"
	"testing"

	"github.com/dhamidi/smith/ebnflex"
	"golang.org/x/exp/ebnf"
)

func mustGrammar(t *testing.T, src string) ebnf.Grammar {
	t.Helper()
	g, err := ebnf.Parse("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	return g
}

func TestEarleyParser_AlternativeItems(t *testing.T) {
	g := mustGrammar(t, `
		ClassModifier = Annotation | "public" | "private" .
		Annotation = "@" identifier .
		identifier = letter { letter } .
		letter = "a" … "z" .
	`)

	for _, input := range []string{"public", "private", "@ override"} {
		if err := ParseText(g, []byte(input), "test", "ClassModifier"); err != nil {
			t.Errorf("parse %q: %v", input, err)
		}
	}
	if err := ParseText(g, []byte("static"), "test", "ClassModifier"); err == nil {
		t.Error("expected static to be rejected")
	}
}

func TestEarleyParser_MultipleRepetitions(t *testing.T) {
	g := mustGrammar(t, `
		MethodDeclaration = { MethodModifier } Result MethodDeclarator .
		MethodModifier = "public" | "static" | "final" .
		Result = "void" | "int" .
		MethodDeclarator = identifier "(" ")" .
		identifier = "a" … "z" { "a" … "z" } .
	`)

	if err := ParseText(g, []byte("public static void main ( )"), "test", "MethodDeclaration"); err != nil {
		t.Errorf("parse failed: %v", err)
	}
	if err := ParseText(g, []byte("int main()"), "test", "MethodDeclaration"); err != nil {
		t.Errorf("parse failed: %v", err)
	}
}

func TestEarleyParser_NestedRepetitions(t *testing.T) {
	g := mustGrammar(t, `
		PackageDeclaration = "package" identifier { "." identifier } ";" .
		identifier = "a" … "z" { "a" … "z" } .
	`)

	if err := ParseText(g, []byte("package com.example.foo;"), "test", "PackageDeclaration"); err != nil {
		t.Errorf("parse failed: %v", err)
	}
}

func TestEarleyParser_Recursion(t *testing.T) {
	g := mustGrammar(t, `
		Expr = Expr "+" Term | Term .
		Term = "(" Expr ")" | number | [ "-" ] "x" .
		number = "0" … "9" { "0" … "9" } .
	`)

	ok := []string{"1", "1 + 2", "( 1 + ( 2 ) ) + 30", "- x + x", "x"}
	for _, input := range ok {
		if err := ParseText(g, []byte(input), "test", "Expr"); err != nil {
			t.Errorf("parse %q: %v", input, err)
		}
	}
	bad := []string{"", "1 +", "( 1", "1 2"}
	for _, input := range bad {
		if err := ParseText(g, []byte(input), "test", "Expr"); err == nil {
			t.Errorf("expected %q to be rejected", input)
		}
	}
}

func TestEarleyParser_EmptyInput(t *testing.T) {
	g := mustGrammar(t, `
		List = { Item } .
		Item = "x" .
	`)
	if err := ParseText(g, nil, "test", "List"); err != nil {
		t.Errorf("empty list should parse: %v", err)
	}
}

func TestEarleyParser_ErrorPosition(t *testing.T) {
	g := mustGrammar(t, `
		Pair = "(" "a" "a" ")" .
	`)
	err := ParseText(g, []byte("( a\n)"), "in", "Pair")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "in:2:1") || !strings.Contains(err.Error(), `")"`) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestEarleyParser_UnknownStart(t *testing.T) {
	g := mustGrammar(t, `A = "a" .`)
	if err := ParseTokens(g, nil, "B"); err == nil {
		t.Error("expected missing production error")
	}
}

func TestEarleyParser_UndefinedReference(t *testing.T) {
	g := mustGrammar(t, `A = "a" B .`)
	err := ParseTokens(g, nil, "A")
	if err == nil || !strings.Contains(err.Error(), `"B"`) {
		t.Errorf("expected undefined production error, got %v", err)
	}
}

func TestEarleyParser_Chart(t *testing.T) {
	g := mustGrammar(t, `S = "a" [ "b" ] .`)
	tokens := []ebnflex.Token{{Kind: "a", Literal: "a"}, {Kind: ebnflex.KindEOF}}
	p := NewEarleyParser(g, tokens)
	if err := p.Parse("S"); err != nil {
		t.Fatalf("parse: %v", err)
	}
	chart := p.Chart()
	if len(chart) != 2 {
		t.Fatalf("chart has %d sets, want 2", len(chart))
	}
	found := false
	for _, item := range chart[1].Items() {
		if p.Describe(item) == `[S → "a" S#1 •, 0]` {
			found = true
		}
	}
	if !found {
		for _, item := range chart[1].Items() {
			t.Logf("  %s", p.Describe(item))
		}
		t.Error("expected completed S item in chart[1]")
	}
}

func TestItemSetDeduplication(t *testing.T) {
	set := newItemSet(0)

	if !set.Add(Item{Rule: 1}) {
		t.Error("first item should be added")
	}
	if !set.Add(Item{Rule: 2}) {
		t.Error("second item with different rule should be added")
	}
	if set.Add(Item{Rule: 1}) {
		t.Error("duplicate item should not be added")
	}
	if len(set.Items()) != 2 {
		t.Errorf("expected 2 items, got %d", len(set.Items()))
	}
}
