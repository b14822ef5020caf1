package evo

import "onemax/internal/genotype"

// OnePointCrossover recombines adjacent pairs (0,1), (2,3), ... by swapping
// the gene suffix starting at a random cut. An odd trailing working copy is
// left alone.
type OnePointCrossover struct {
	Probability float64
}

func (OnePointCrossover) Name() string {
	return "one_point_crossover"
}

func (c OnePointCrossover) Apply(rng *RandomStream, offspring []*genotype.Offspring) {
	for i := 0; i+1 < len(offspring); i += 2 {
		if !rng.Bernoulli(c.Probability) {
			continue
		}
		a, b := offspring[i], offspring[i+1]
		cut, ok := CutPoint(rng, a.Len())
		if !ok {
			continue
		}
		a.SwapTail(b, cut)
	}
}

// CutPoint draws a crossover cut for a gene vector of the given length.
// The cut is uniform over [2, length-2]; vectors of length 2 or 3 use
// [1, length-1] and length 1 has no cut at all.
func CutPoint(rng *RandomStream, length int) (int, bool) {
	switch {
	case length >= 4:
		return 2 + rng.IntN(length-3), true
	case length >= 2:
		return 1 + rng.IntN(length-1), true
	default:
		return 0, false
	}
}
