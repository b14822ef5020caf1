package genotype

// Individual is an evaluated, immutable snapshot of a gene vector. The
// cached fitness always belongs to the genes it was built from.
type Individual struct {
	genes   Genes
	fitness int
}

// NewIndividual copies genes and evaluates them.
func NewIndividual(genes Genes) Individual {
	owned := genes.clone()
	return Individual{genes: owned, fitness: OneMax(owned)}
}

func (ind Individual) Fitness() int {
	return ind.fitness
}

func (ind Individual) Len() int {
	return ind.genes.length
}

// Genes returns a copy of the individual's gene vector.
func (ind Individual) Genes() Genes {
	return ind.genes.clone()
}

func (ind Individual) Bits() []int {
	return ind.genes.Ints()
}

func (ind Individual) String() string {
	return ind.genes.String()
}

// Clone returns a working copy decoupled from the individual. The copy has
// no fitness until it is frozen again.
func (ind Individual) Clone() *Offspring {
	return &Offspring{genes: ind.genes.clone()}
}

// Offspring is a mutable working copy used by recombination and mutation.
type Offspring struct {
	genes Genes
}

// NewOffspring wraps a copy of genes as a working copy.
func NewOffspring(genes Genes) *Offspring {
	return &Offspring{genes: genes.clone()}
}

func (o *Offspring) Len() int {
	return o.genes.length
}

func (o *Offspring) Bit(i int) int {
	return o.genes.Bit(i)
}

// Flip inverts the gene at position i.
func (o *Offspring) Flip(i int) {
	if i < 0 || i >= o.genes.length {
		return
	}
	o.genes.bits.Flip(uint(i))
}

// SwapTail exchanges genes at positions >= cut with other. Both working
// copies must have the same length.
func (o *Offspring) SwapTail(other *Offspring, cut int) {
	if cut < 0 {
		cut = 0
	}
	n := o.genes.length
	if other.genes.length < n {
		n = other.genes.length
	}
	for i := cut; i < n; i++ {
		a := o.genes.bits.Test(uint(i))
		b := other.genes.bits.Test(uint(i))
		if a == b {
			continue
		}
		o.genes.bits.SetTo(uint(i), b)
		other.genes.bits.SetTo(uint(i), a)
	}
}

// Genes returns a copy of the current working genes.
func (o *Offspring) Genes() Genes {
	return o.genes.clone()
}

// Freeze evaluates the working copy and returns it as an Individual.
func (o *Offspring) Freeze() Individual {
	return NewIndividual(o.genes)
}
