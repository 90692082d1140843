package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededReplay(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Flip(), b.Flip())
		require.Equal(t, a.NextInt(7), b.NextInt(7))
	}
	assert.Equal(t, int64(42), a.Seed())
}

func TestSeededBounds(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		v := s.NextInt(5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 5)
	}
}

func TestZeroSeedPicksOne(t *testing.T) {
	assert.NotZero(t, New(0).Seed())
}

func TestScripted(t *testing.T) {
	s := &Scripted{Flips: []bool{true, false}, Ints: []int{2}}
	assert.True(t, s.Flip())
	assert.False(t, s.Flip())
	assert.False(t, s.Flip())
	assert.Equal(t, 2, s.NextInt(5))
	assert.Equal(t, 2, s.NextInt(3))
	assert.Equal(t, 0, s.NextInt(2))
	assert.Equal(t, 6, s.Draws())
	assert.Panics(t, func() { s.NextInt(0) })
}

func TestTracedDelegates(t *testing.T) {
	s := NewTraced(&Scripted{Flips: []bool{true}, Ints: []int{3}})
	assert.True(t, s.Flip())
	assert.Equal(t, 3, s.NextInt(4))
}
