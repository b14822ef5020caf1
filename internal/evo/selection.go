package evo

import "onemax/internal/genotype"

// Selector builds the mating pool for the next generation.
type Selector interface {
	Name() string
	Select(rng *RandomStream, population Population) []genotype.Individual
}

// TournamentSelector fills every slot with the fittest of Size distinct,
// uniformly drawn individuals.
//
// Indices are drawn incrementally: each new index is redrawn until it
// differs from the ones already in the tournament. Candidates are compared
// in draw order and the running best is only replaced on strictly greater
// fitness, so ties go to the earliest draw. When the population is smaller
// than Size the tournament shrinks to the whole population.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) Select(rng *RandomStream, population Population) []genotype.Individual {
	n := len(population)
	if n == 0 {
		return nil
	}
	size := s.Size
	if size <= 0 {
		size = DefaultTournamentSize
	}
	if size > n {
		size = n
	}

	selected := make([]genotype.Individual, 0, n)
	drawn := make([]int, 0, size)
	for slot := 0; slot < n; slot++ {
		drawn = drawDistinct(rng, n, size, drawn[:0])
		best := population[drawn[0]]
		for _, idx := range drawn[1:] {
			if population[idx].Fitness() > best.Fitness() {
				best = population[idx]
			}
		}
		selected = append(selected, best)
	}
	return selected
}

func drawDistinct(rng *RandomStream, bound, count int, into []int) []int {
	for len(into) < count {
		candidate := rng.IntN(bound)
		for contains(into, candidate) {
			candidate = rng.IntN(bound)
		}
		into = append(into, candidate)
	}
	return into
}

func contains(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
