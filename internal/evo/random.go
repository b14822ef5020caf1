package evo

import "math/rand"

// RandomStream is the single seeded source of randomness for a run. Every
// stochastic decision consumes draws from it in program order, so two runs
// with the same seed and call sequence are identical. It is not safe for
// concurrent use.
type RandomStream struct {
	rng   *rand.Rand
	draws uint64
}

func NewRandomStream(seed int64) *RandomStream {
	return &RandomStream{rng: rand.New(rand.NewSource(seed))}
}

// IntN returns a uniform integer in [0, bound). It panics if bound <= 0.
func (s *RandomStream) IntN(bound int) int {
	s.draws++
	return s.rng.Intn(bound)
}

// Float64 returns a uniform float in [0.0, 1.0).
func (s *RandomStream) Float64() float64 {
	s.draws++
	return s.rng.Float64()
}

// Bernoulli reports whether a single trial with probability p succeeds.
func (s *RandomStream) Bernoulli(p float64) bool {
	return s.Float64() < p
}

// Draws returns the number of values consumed so far.
func (s *RandomStream) Draws() uint64 {
	return s.draws
}
