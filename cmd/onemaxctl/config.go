package main

import (
	"encoding/json"
	"fmt"
	"os"

	"onemax/pkg/onemax"
)

// loadRunRequestFromConfig applies the keys present in a JSON file on top
// of the engine defaults.
func loadRunRequestFromConfig(path string) (onemax.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return onemax.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return onemax.RunRequest{}, err
	}

	req := onemax.DefaultRunRequest()
	if v, ok := asInt(raw["gene_length"]); ok {
		req.GeneLength = v
	}
	if v, ok := asInt(raw["population_size"]); ok {
		req.PopulationSize = v
	}
	if v, ok := asFloat64(raw["crossover_probability"]); ok {
		req.CrossoverProbability = v
	}
	if v, ok := asFloat64(raw["mutation_probability"]); ok {
		req.MutationProbability = v
	}
	if v, ok := asFloat64(raw["gene_mutation_probability"]); ok {
		req.GeneMutationProbability = v
	}
	if v, ok := asInt(raw["max_generations"]); ok {
		req.MaxGenerations = v
	}
	if v, ok := asInt(raw["tournament_size"]); ok {
		req.TournamentSize = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asBool(raw["plot"]); ok {
		req.Plot = v
	}
	return req, nil
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func overrideFromFlags(req *onemax.RunRequest, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "gene-length":
			req.GeneLength = v.(int)
		case "pop":
			req.PopulationSize = v.(int)
		case "crossover-prob":
			req.CrossoverProbability = v.(float64)
		case "mutation-prob":
			req.MutationProbability = v.(float64)
		case "gene-mutation-prob":
			req.GeneMutationProbability = v.(float64)
		case "gens":
			req.MaxGenerations = v.(int)
		case "tournament-size":
			req.TournamentSize = v.(int)
		case "seed":
			req.Seed = v.(int64)
		case "plot":
			req.Plot = v.(bool)
		}
	}
}

func loadOrDefaultRunRequest(configPath string) (onemax.RunRequest, error) {
	if configPath == "" {
		return onemax.DefaultRunRequest(), nil
	}
	req, err := loadRunRequestFromConfig(configPath)
	if err != nil {
		return onemax.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}
