package random

import "fmt"

// Scripted replays fixed answers. It is meant for tests that need to force a
// particular derivation. Flips and ints are consumed independently; when a
// script runs out the last value repeats, and an empty script yields false/0.
// Ints are reduced modulo the requested bound.
type Scripted struct {
	Flips []bool
	Ints  []int

	flipPos int
	intPos  int
}

func (s *Scripted) Flip() bool {
	if len(s.Flips) == 0 {
		return false
	}
	i := min(s.flipPos, len(s.Flips)-1)
	s.flipPos++
	return s.Flips[i]
}

func (s *Scripted) NextInt(bound int) int {
	if bound <= 0 {
		panic(fmt.Sprintf("random: NextInt bound must be positive, got %d", bound))
	}
	if len(s.Ints) == 0 {
		return 0
	}
	i := min(s.intPos, len(s.Ints)-1)
	s.intPos++
	v := s.Ints[i]
	if v < 0 {
		panic(fmt.Sprintf("random: scripted value %d is negative", v))
	}
	return v % bound
}

// Draws reports how many values have been consumed.
func (s *Scripted) Draws() int {
	return s.flipPos + s.intPos
}
