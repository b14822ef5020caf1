package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// GenerationStats is the per-generation summary published by the engine.
// Values are never modified once produced.
type GenerationStats struct {
	Generation  int     `json:"generation"`
	MaxFitness  int     `json:"max_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	BestGenes   []int   `json:"best_genes"`
}

// RunConfig mirrors the engine parameters a run was started with.
type RunConfig struct {
	GeneLength              int     `json:"gene_length"`
	PopulationSize          int     `json:"population_size"`
	CrossoverProbability    float64 `json:"crossover_probability"`
	MutationProbability     float64 `json:"mutation_probability"`
	GeneMutationProbability float64 `json:"gene_mutation_probability"`
	MaxGenerations          int     `json:"max_generations"`
	TournamentSize          int     `json:"tournament_size"`
	Seed                    int64   `json:"seed"`
}

// RunRecord is the persisted history of one finished run. It holds no
// population state and cannot be used to resume evolution.
type RunRecord struct {
	VersionedRecord
	ID           string            `json:"id"`
	CreatedAtUTC string            `json:"created_at_utc"`
	Config       RunConfig         `json:"config"`
	Stats        []GenerationStats `json:"stats"`
	Generations  int               `json:"generations"`
	Reason       string            `json:"reason"`
	BestFitness  int               `json:"best_fitness"`
	BestGenes    []int             `json:"best_genes"`
}

// RunSummary is the listing view of a RunRecord.
type RunSummary struct {
	ID             string `json:"id"`
	CreatedAtUTC   string `json:"created_at_utc"`
	Seed           int64  `json:"seed"`
	Generations    int    `json:"generations"`
	Reason         string `json:"reason"`
	BestFitness    int    `json:"best_fitness"`
	GeneLength     int    `json:"gene_length"`
	PopulationSize int    `json:"population_size"`
}

// Summary returns the listing view of the record.
func (r RunRecord) Summary() RunSummary {
	return RunSummary{
		ID:             r.ID,
		CreatedAtUTC:   r.CreatedAtUTC,
		Seed:           r.Config.Seed,
		Generations:    r.Generations,
		Reason:         r.Reason,
		BestFitness:    r.BestFitness,
		GeneLength:     r.Config.GeneLength,
		PopulationSize: r.Config.PopulationSize,
	}
}

// CloneStats deep-copies a stats sequence.
func CloneStats(stats []GenerationStats) []GenerationStats {
	if stats == nil {
		return nil
	}
	out := make([]GenerationStats, len(stats))
	for i, s := range stats {
		out[i] = s
		out[i].BestGenes = append([]int(nil), s.BestGenes...)
	}
	return out
}
