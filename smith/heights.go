package smith

import (
	"math"

	"golang.org/x/exp/ebnf"
)

const infinite = math.MaxInt32

// heights computes, for every production, the fewest nested name expansions
// needed to derive a terminal string, counting the production itself.
// Productions that cannot terminate are left at infinite.
func heights(g ebnf.Grammar) map[string]int {
	h := make(map[string]int, len(g))
	for name := range g {
		h[name] = infinite
	}
	for changed := true; changed; {
		changed = false
		for name, prod := range g {
			if prod == nil {
				continue
			}
			v := height(prod.Expr, h)
			if v < infinite {
				v++
			}
			if v < h[name] {
				h[name] = v
				changed = true
			}
		}
	}
	return h
}

func height(expr ebnf.Expression, h map[string]int) int {
	switch e := expr.(type) {
	case nil, *ebnf.Token, *ebnf.Range, *ebnf.Option, *ebnf.Repetition:
		return 0
	case *ebnf.Name:
		// undefined names are reported when expanded
		if v, ok := h[e.String]; ok {
			return v
		}
		return 0
	case *ebnf.Group:
		return height(e.Body, h)
	case ebnf.Sequence:
		most := 0
		for _, x := range e {
			most = max(most, height(x, h))
		}
		return most
	case ebnf.Alternative:
		least := infinite
		for _, x := range e {
			least = min(least, height(x, h))
		}
		return least
	default:
		return infinite
	}
}

// shortest returns the alternatives of minimal height. It is empty when no
// alternative can terminate.
func shortest(alt ebnf.Alternative, h map[string]int) []ebnf.Expression {
	least := infinite
	var out []ebnf.Expression
	for _, x := range alt {
		v := height(x, h)
		switch {
		case v < least:
			least = v
			out = append(out[:0], x)
		case v == least && v < infinite:
			out = append(out, x)
		}
	}
	return out
}
