package evo

import (
	"testing"

	"onemax/internal/genotype"
)

func TestOnePointCrossoverSwapsDistinctParents(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		zeros := genotype.NewOffspring(genotype.ZeroGenes(5))
		ones := genotype.NewOffspring(genotype.OnesGenes(5))

		OnePointCrossover{Probability: 1}.Apply(NewRandomStream(seed), []*genotype.Offspring{zeros, ones})

		a, b := zeros.Genes(), ones.Genes()
		if sameGenes(a, genotype.ZeroGenes(5)) {
			t.Fatalf("seed %d: first child unchanged: %s", seed, a)
		}
		if sameGenes(b, genotype.OnesGenes(5)) {
			t.Fatalf("seed %d: second child unchanged: %s", seed, b)
		}
		if a.Bit(0) != 0 || a.Bit(1) != 0 || b.Bit(0) != 1 || b.Bit(1) != 1 {
			t.Fatalf("seed %d: head before cut was swapped: %s | %s", seed, a, b)
		}
		for i := 0; i < 5; i++ {
			if a.Bit(i) == b.Bit(i) {
				t.Fatalf("seed %d: children not complementary at %d: %s | %s", seed, i, a, b)
			}
		}
	}
}

func TestOnePointCrossoverProbabilityZeroLeavesPairs(t *testing.T) {
	zeros := genotype.NewOffspring(genotype.ZeroGenes(8))
	ones := genotype.NewOffspring(genotype.OnesGenes(8))
	rng := NewRandomStream(1)

	OnePointCrossover{Probability: 0}.Apply(rng, []*genotype.Offspring{zeros, ones})

	if zeros.Genes().Count() != 0 || ones.Genes().Count() != 8 {
		t.Fatalf("expected untouched pair, got %s | %s", zeros.Genes(), ones.Genes())
	}
	if rng.Draws() != 1 {
		t.Fatalf("expected a single trial draw, got %d", rng.Draws())
	}
}

func TestOnePointCrossoverLeavesOddTail(t *testing.T) {
	tail := genotype.NewOffspring(genotype.OnesGenes(6))
	offspring := []*genotype.Offspring{
		genotype.NewOffspring(genotype.ZeroGenes(6)),
		genotype.NewOffspring(genotype.OnesGenes(6)),
		tail,
	}
	OnePointCrossover{Probability: 1}.Apply(NewRandomStream(4), offspring)
	if !sameGenes(tail.Genes(), genotype.OnesGenes(6)) {
		t.Fatalf("unpaired tail was modified: %s", tail.Genes())
	}
}

func TestCutPointRange(t *testing.T) {
	rng := NewRandomStream(42)
	seen := map[int]bool{}
	for i := 0; i < 5000; i++ {
		cut, ok := CutPoint(rng, 10)
		if !ok || cut < 2 || cut > 8 {
			t.Fatalf("cut %d outside [2, 8]", cut)
		}
		seen[cut] = true
	}
	if len(seen) != 7 {
		t.Fatalf("expected every cut in [2, 8] to occur, got %v", seen)
	}

	for i := 0; i < 100; i++ {
		if cut, ok := CutPoint(rng, 3); !ok || cut < 1 || cut > 2 {
			t.Fatalf("short genome cut %d outside [1, 2]", cut)
		}
	}
	if _, ok := CutPoint(rng, 1); ok {
		t.Fatal("expected no cut for a single gene")
	}
}
