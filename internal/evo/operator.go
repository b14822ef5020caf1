package evo

import "onemax/internal/genotype"

// Operator transforms working copies in place, consuming draws from rng.
type Operator interface {
	Name() string
	Apply(rng *RandomStream, offspring []*genotype.Offspring)
}

// CloneAll turns selected individuals into independent working copies.
func CloneAll(selected []genotype.Individual) []*genotype.Offspring {
	out := make([]*genotype.Offspring, len(selected))
	for i, ind := range selected {
		out[i] = ind.Clone()
	}
	return out
}

// FreezeAll re-evaluates every working copy.
func FreezeAll(offspring []*genotype.Offspring) Population {
	out := make(Population, len(offspring))
	for i, o := range offspring {
		out[i] = o.Freeze()
	}
	return out
}
