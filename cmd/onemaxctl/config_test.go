package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"onemax/pkg/onemax"
)

func writeConfig(t *testing.T, payload map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run_config.json")
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRunRequestFromConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"gene_length":           64,
		"population_size":       120,
		"crossover_probability": 0.75,
		"max_generations":       30,
		"seed":                  77,
		"plot":                  true,
	})

	req, err := loadRunRequestFromConfig(path)
	if err != nil {
		t.Fatalf("load run request: %v", err)
	}
	if req.GeneLength != 64 || req.PopulationSize != 120 || req.MaxGenerations != 30 || req.Seed != 77 {
		t.Fatalf("unexpected integer fields: %+v", req)
	}
	if req.CrossoverProbability != 0.75 || !req.Plot {
		t.Fatalf("unexpected crossover/plot fields: %+v", req)
	}
	defaults := onemax.DefaultRunRequest()
	if req.MutationProbability != defaults.MutationProbability || req.TournamentSize != defaults.TournamentSize {
		t.Fatalf("expected untouched fields to keep defaults, got %+v", req)
	}
}

func TestLoadRunRequestFromConfigRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadOrDefaultRunRequest(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestLoadOrDefaultRunRequestWithoutPath(t *testing.T) {
	req, err := loadOrDefaultRunRequest("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	defaults := onemax.DefaultRunRequest()
	if req.GeneLength != defaults.GeneLength || req.Seed != defaults.Seed {
		t.Fatalf("expected defaults, got %+v", req)
	}
}

func TestOverrideFromFlagsOnlyAppliesSetFlags(t *testing.T) {
	req := onemax.DefaultRunRequest()
	req.Seed = 5
	overrideFromFlags(&req, map[string]bool{"pop": true, "mutation-prob": true}, map[string]any{
		"pop":           10,
		"mutation-prob": 0.5,
		"seed":          int64(99),
	})
	if req.PopulationSize != 10 || req.MutationProbability != 0.5 {
		t.Fatalf("expected overrides applied, got %+v", req)
	}
	if req.Seed != 5 {
		t.Fatalf("expected unset seed flag to be ignored, got %d", req.Seed)
	}
}

func TestNumericCoercion(t *testing.T) {
	if v, ok := asInt(float64(12)); !ok || v != 12 {
		t.Fatalf("expected 12, got %d ok=%t", v, ok)
	}
	if v, ok := asInt64(3); !ok || v != 3 {
		t.Fatalf("expected 3, got %d ok=%t", v, ok)
	}
	if v, ok := asFloat64(2); !ok || v != 2 {
		t.Fatalf("expected 2, got %v ok=%t", v, ok)
	}
	if _, ok := asInt("12"); ok {
		t.Fatal("expected string to be rejected")
	}
	if _, ok := asBool(1); ok {
		t.Fatal("expected number to be rejected as bool")
	}
}
