package evo

import "onemax/internal/genotype"

// Population is one generation's ordered set of individuals.
type Population []genotype.Individual

// NewPopulation draws n random individuals of the given gene length. Genes
// are drawn in individual order, then gene order.
func NewPopulation(rng *RandomStream, n, length int) (Population, error) {
	if n <= 0 {
		return nil, &ConfigError{Field: "population size", Reason: "must be > 0"}
	}
	if length <= 0 {
		return nil, &ConfigError{Field: "gene length", Reason: "must be > 0"}
	}
	population := make(Population, 0, n)
	for i := 0; i < n; i++ {
		genes := genotype.GenerateGenes(length, func(int) bool {
			return rng.IntN(2) == 1
		})
		population = append(population, genotype.NewIndividual(genes))
	}
	return population, nil
}

// Fitnesses returns the cached fitness of every individual in order.
func (p Population) Fitnesses() []float64 {
	out := make([]float64, len(p))
	for i, ind := range p {
		out[i] = float64(ind.Fitness())
	}
	return out
}
