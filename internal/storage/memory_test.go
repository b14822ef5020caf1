package storage

import (
	"context"
	"reflect"
	"testing"
)

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := sampleRun("run-1", "2026-01-01T00:00:00Z", 42)
	if err := store.SaveRun(ctx, input); err != nil {
		t.Fatalf("save run: %v", err)
	}

	output, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if !reflect.DeepEqual(input, output) {
		t.Fatalf("unexpected run: %+v", output)
	}

	output.Stats[0].BestGenes[0] = 0
	again, _, _ := store.GetRun(ctx, "run-1")
	if again.Stats[0].BestGenes[0] != 1 {
		t.Fatal("expected stored run to be isolated from caller mutation")
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing run, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, run := range []struct {
		id, at string
	}{
		{"a", "2026-01-01T00:00:00Z"},
		{"b", "2026-01-03T00:00:00Z"},
		{"c", "2026-01-02T00:00:00Z"},
		{"d", "2026-01-03T00:00:00Z"},
	} {
		if err := store.SaveRun(ctx, sampleRun(run.id, run.at, 1)); err != nil {
			t.Fatalf("save %s: %v", run.id, err)
		}
	}

	items, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	got := make([]string, 0, len(items))
	for _, item := range items {
		got = append(got, item.ID)
	}
	if want := []string{"d", "b", "c", "a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}

	limited, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "d" {
		t.Fatalf("unexpected limited listing: %+v", limited)
	}
	if limited[0].BestFitness != 4 || limited[0].GeneLength != 4 || limited[0].PopulationSize != 6 {
		t.Fatalf("unexpected summary fields: %+v", limited[0])
	}
}

func TestMemoryStoreDeleteAndReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	_ = store.SaveRun(ctx, sampleRun("a", "2026-01-01T00:00:00Z", 1))
	_ = store.SaveRun(ctx, sampleRun("b", "2026-01-02T00:00:00Z", 2))

	if err := store.DeleteRun(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.GetRun(ctx, "a"); ok {
		t.Fatal("expected deleted run to be gone")
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	items, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty store after reset, got %+v", items)
	}
}

func TestMemoryStoreRequiresInitAndID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.SaveRun(ctx, sampleRun("a", "", 1)); err == nil {
		t.Fatal("expected uninitialized store error")
	}
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.SaveRun(ctx, sampleRun("", "", 1)); err == nil {
		t.Fatal("expected missing id error")
	}
}
