package evo

import (
	"errors"
	"fmt"

	"onemax/internal/model"
)

const (
	DefaultGeneLength           = 100
	DefaultPopulationSize       = 200
	DefaultCrossoverProbability = 0.9
	DefaultMutationProbability  = 0.1
	DefaultMaxGenerations       = 50
	DefaultSeed                 = 42
	DefaultTournamentSize       = 3
)

// ErrConfiguration is matched by every configuration failure.
var ErrConfiguration = errors.New("invalid configuration")

// ConfigError names the offending parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// Config holds the engine parameters. MutationProbability gates the
// per-gene pass for a whole individual; GeneMutationProbability is the
// per-gene flip rate and defaults to 1/GeneLength when zero, so a per-gene
// rate of exactly 0 cannot be expressed; set MutationProbability to 0 to
// disable mutation instead.
type Config struct {
	GeneLength              int
	PopulationSize          int
	CrossoverProbability    float64
	MutationProbability     float64
	GeneMutationProbability float64
	MaxGenerations          int
	TournamentSize          int
	Seed                    int64
}

func DefaultConfig() Config {
	return Config{
		GeneLength:           DefaultGeneLength,
		PopulationSize:       DefaultPopulationSize,
		CrossoverProbability: DefaultCrossoverProbability,
		MutationProbability:  DefaultMutationProbability,
		MaxGenerations:       DefaultMaxGenerations,
		TournamentSize:       DefaultTournamentSize,
		Seed:                 DefaultSeed,
	}
}

// Validate checks every parameter and returns a *ConfigError on the first
// violation.
func (c Config) Validate() error {
	if c.GeneLength <= 0 {
		return &ConfigError{Field: "gene length", Reason: "must be > 0"}
	}
	if c.PopulationSize <= 0 {
		return &ConfigError{Field: "population size", Reason: "must be > 0"}
	}
	if c.MaxGenerations <= 0 {
		return &ConfigError{Field: "max generations", Reason: "must be > 0"}
	}
	if c.TournamentSize <= 0 {
		return &ConfigError{Field: "tournament size", Reason: "must be > 0"}
	}
	if err := checkProbability("crossover probability", c.CrossoverProbability); err != nil {
		return err
	}
	if err := checkProbability("mutation probability", c.MutationProbability); err != nil {
		return err
	}
	if err := checkProbability("gene mutation probability", c.GeneMutationProbability); err != nil {
		return err
	}
	return nil
}

// GeneProbability resolves the per-gene flip rate. Zero means 1/GeneLength.
func (c Config) GeneProbability() float64 {
	if c.GeneMutationProbability > 0 {
		return c.GeneMutationProbability
	}
	if c.GeneLength <= 0 {
		return 0
	}
	return 1.0 / float64(c.GeneLength)
}

// Record converts the config to its persisted form.
func (c Config) Record() model.RunConfig {
	return model.RunConfig{
		GeneLength:              c.GeneLength,
		PopulationSize:          c.PopulationSize,
		CrossoverProbability:    c.CrossoverProbability,
		MutationProbability:     c.MutationProbability,
		GeneMutationProbability: c.GeneMutationProbability,
		MaxGenerations:          c.MaxGenerations,
		TournamentSize:          c.TournamentSize,
		Seed:                    c.Seed,
	}
}

func checkProbability(field string, p float64) error {
	// NaN fails both comparisons.
	if !(p >= 0 && p <= 1) {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("must be in [0, 1], got %v", p)}
	}
	return nil
}
