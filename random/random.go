// Package random provides the randomness used while sampling derivations.
package random

import (
	"math/rand"
	"time"

	"github.com/tliron/commonlog"
)

// Source supplies uniform draws. Draws are strictly sequential: replaying the
// same seed against the same sequence of calls yields the same values.
type Source interface {
	// Flip returns true or false with equal probability.
	Flip() bool
	// NextInt returns an integer in [0, bound). bound must be positive.
	NextInt(bound int) int
}

// Seeded is a Source backed by math/rand with a known seed.
type Seeded struct {
	rng  *rand.Rand
	seed int64
}

// New creates a seeded source. A zero seed picks one from the clock.
func New(seed int64) *Seeded {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeded{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed so that a run can be reproduced.
func (s *Seeded) Seed() int64 {
	return s.seed
}

func (s *Seeded) Flip() bool {
	return s.rng.Intn(2) == 1
}

func (s *Seeded) NextInt(bound int) int {
	return s.rng.Intn(bound)
}

// Traced logs every draw of the wrapped source at debug level.
type Traced struct {
	origin Source
	log    commonlog.Logger
	pos    uint64
}

func NewTraced(origin Source) *Traced {
	return &Traced{
		origin: origin,
		log:    commonlog.GetLogger("random"),
	}
}

func (t *Traced) Flip() bool {
	v := t.origin.Flip()
	t.pos++
	t.log.Debugf("%d F -> %t", t.pos, v)
	return v
}

func (t *Traced) NextInt(bound int) int {
	v := t.origin.NextInt(bound)
	t.pos++
	t.log.Debugf("%d U %d -> %d", t.pos, bound, v)
	return v
}
