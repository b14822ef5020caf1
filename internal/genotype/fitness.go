package genotype

// OneMax scores a gene vector by its number of 1-valued genes.
func OneMax(g Genes) int {
	return g.Count()
}
