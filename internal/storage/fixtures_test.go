package storage

import "onemax/internal/model"

func sampleRun(id, createdAt string, seed int64) model.RunRecord {
	return model.RunRecord{
		VersionedRecord: CurrentVersion(),
		ID:              id,
		CreatedAtUTC:    createdAt,
		Config: model.RunConfig{
			GeneLength:              4,
			PopulationSize:          6,
			CrossoverProbability:    0.9,
			MutationProbability:     0.1,
			GeneMutationProbability: 0.25,
			MaxGenerations:          2,
			TournamentSize:          3,
			Seed:                    seed,
		},
		Stats: []model.GenerationStats{
			{Generation: 1, MaxFitness: 3, MeanFitness: 2.5, BestGenes: []int{1, 1, 0, 1}},
			{Generation: 2, MaxFitness: 4, MeanFitness: 3.0, BestGenes: []int{1, 1, 1, 1}},
		},
		Generations: 2,
		Reason:      "optimum_reached",
		BestFitness: 4,
		BestGenes:   []int{1, 1, 1, 1},
	}
}
