package genotype

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Genes is a fixed-length bit vector. A Genes value is never mutated after
// construction; Offspring is the only mutable view over a gene vector.
type Genes struct {
	bits   *bitset.BitSet
	length int
}

// NewGenes builds a gene vector from 0/1 values.
func NewGenes(values []int) (Genes, error) {
	if len(values) == 0 {
		return Genes{}, fmt.Errorf("gene vector must not be empty")
	}
	g := ZeroGenes(len(values))
	for i, v := range values {
		switch v {
		case 0:
		case 1:
			g.bits.Set(uint(i))
		default:
			return Genes{}, fmt.Errorf("gene %d has invalid value %d", i, v)
		}
	}
	return g, nil
}

// ZeroGenes returns an all-zero vector of the given length.
func ZeroGenes(length int) Genes {
	if length < 0 {
		length = 0
	}
	return Genes{bits: bitset.New(uint(length)), length: length}
}

// OnesGenes returns an all-one vector of the given length.
func OnesGenes(length int) Genes {
	g := ZeroGenes(length)
	for i := 0; i < g.length; i++ {
		g.bits.Set(uint(i))
	}
	return g
}

// GenerateGenes draws every position in order from draw.
func GenerateGenes(length int, draw func(i int) bool) Genes {
	g := ZeroGenes(length)
	for i := 0; i < g.length; i++ {
		if draw(i) {
			g.bits.Set(uint(i))
		}
	}
	return g
}

func (g Genes) Len() int {
	return g.length
}

// Bit returns the gene at position i as 0 or 1.
func (g Genes) Bit(i int) int {
	if g.bits != nil && g.bits.Test(uint(i)) {
		return 1
	}
	return 0
}

// Count returns the number of genes set to 1.
func (g Genes) Count() int {
	if g.bits == nil {
		return 0
	}
	return int(g.bits.Count())
}

// Ints returns the genes as a fresh slice of 0/1 values.
func (g Genes) Ints() []int {
	out := make([]int, g.length)
	for i := range out {
		out[i] = g.Bit(i)
	}
	return out
}

// String renders the genes as space-separated bits.
func (g Genes) String() string {
	var b strings.Builder
	b.Grow(g.length * 2)
	for i := 0; i < g.length; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		if g.Bit(i) == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func (g Genes) clone() Genes {
	if g.bits == nil {
		return ZeroGenes(g.length)
	}
	return Genes{bits: g.bits.Clone(), length: g.length}
}
