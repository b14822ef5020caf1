package evo

import "onemax/internal/genotype"

// BitFlipMutation gates each working copy with Probability and, when the
// gate passes, flips every gene independently with GeneProbability.
// Probability 1 turns the gate off.
type BitFlipMutation struct {
	Probability     float64
	GeneProbability float64
}

func (BitFlipMutation) Name() string {
	return "bit_flip_mutation"
}

func (m BitFlipMutation) Apply(rng *RandomStream, offspring []*genotype.Offspring) {
	for _, o := range offspring {
		if !rng.Bernoulli(m.Probability) {
			continue
		}
		for i := 0; i < o.Len(); i++ {
			if rng.Bernoulli(m.GeneProbability) {
				o.Flip(i)
			}
		}
	}
}
