package genotype

import "testing"

func mustGenes(t *testing.T, values ...int) Genes {
	t.Helper()
	g, err := NewGenes(values)
	if err != nil {
		t.Fatalf("new genes: %v", err)
	}
	return g
}

func TestOneMaxCountsSetGenes(t *testing.T) {
	if got := OneMax(mustGenes(t, 1, 1, 1, 0, 0)); got != 3 {
		t.Fatalf("expected fitness 3, got %d", got)
	}
	if got := OneMax(ZeroGenes(8)); got != 0 {
		t.Fatalf("expected fitness 0 for zero genes, got %d", got)
	}
	if got := OneMax(OnesGenes(8)); got != 8 {
		t.Fatalf("expected fitness 8 for one genes, got %d", got)
	}
}

func TestNewGenesRejectsInvalidValues(t *testing.T) {
	if _, err := NewGenes([]int{0, 2}); err == nil {
		t.Fatal("expected invalid gene value error")
	}
	if _, err := NewGenes(nil); err == nil {
		t.Fatal("expected empty gene vector error")
	}
}

func TestGenesStringIsSpaceSeparated(t *testing.T) {
	if got := mustGenes(t, 1, 0, 1).String(); got != "1 0 1" {
		t.Fatalf("unexpected rendering: %q", got)
	}
}

func TestIndividualFitnessIsStable(t *testing.T) {
	ind := NewIndividual(mustGenes(t, 1, 0, 1, 1, 0, 1))
	first := ind.Fitness()
	for i := 0; i < 5; i++ {
		if got := ind.Fitness(); got != first {
			t.Fatalf("fitness changed between reads: %d -> %d", first, got)
		}
		if got := OneMax(ind.Genes()); got != first {
			t.Fatalf("re-evaluated fitness %d differs from cached %d", got, first)
		}
	}
}

func TestIndividualIsDecoupledFromSourceAndClones(t *testing.T) {
	ind := NewIndividual(ZeroGenes(5))
	work := ind.Clone()
	work.Flip(0)
	work.Flip(4)

	if ind.Fitness() != 0 || ind.Genes().Count() != 0 {
		t.Fatalf("parent changed through working copy: %s", ind)
	}
	child := work.Freeze()
	if child.Fitness() != 2 {
		t.Fatalf("expected child fitness 2, got %d", child.Fitness())
	}

	work.Flip(1)
	if child.Fitness() != 2 || child.Genes().Count() != 2 {
		t.Fatalf("frozen child changed after further mutation: %s", child)
	}
}

func TestOffspringSwapTail(t *testing.T) {
	a := NewOffspring(ZeroGenes(6))
	b := NewOffspring(OnesGenes(6))
	a.SwapTail(b, 2)

	if got := a.Genes().String(); got != "0 0 1 1 1 1" {
		t.Fatalf("unexpected first child: %s", got)
	}
	if got := b.Genes().String(); got != "1 1 0 0 0 0" {
		t.Fatalf("unexpected second child: %s", got)
	}
}

func TestOffspringFlipIgnoresOutOfRange(t *testing.T) {
	o := NewOffspring(ZeroGenes(3))
	o.Flip(-1)
	o.Flip(3)
	if o.Len() != 3 || o.Genes().Count() != 0 {
		t.Fatalf("out of range flip changed genes: len=%d genes=%s", o.Len(), o.Genes())
	}
}
