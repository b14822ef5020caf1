package evo

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"onemax/internal/genotype"
	"onemax/internal/model"
)

type State int

const (
	StateInitializing State = iota
	StateEvolving
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateEvolving:
		return "evolving"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type TerminationReason string

const (
	ReasonOptimumReached TerminationReason = "optimum_reached"
	ReasonMaxGenerations TerminationReason = "max_generations"
)

type RunResult struct {
	Stats           []model.GenerationStats
	FinalPopulation Population
	Generations     int
	Reason          TerminationReason
	Draws           uint64
}

// Best returns the first fittest individual of the final population.
func (r RunResult) Best() (genotype.Individual, bool) {
	if len(r.FinalPopulation) == 0 {
		return genotype.Individual{}, false
	}
	return r.FinalPopulation[floats.MaxIdx(r.FinalPopulation.Fitnesses())], true
}

type Option func(*Loop)

// WithSinks registers sinks in publish order.
func WithSinks(sinks ...StatsSink) Option {
	return func(l *Loop) {
		for _, sink := range sinks {
			if sink != nil {
				l.sinks = append(l.sinks, sink)
			}
		}
	}
}

// Loop drives a generational GA run: tournament selection, cloning,
// one-point crossover, bit-flip mutation, re-evaluation and full
// replacement, until the optimum is found or the generation budget is
// spent.
type Loop struct {
	cfg       Config
	rng       *RandomStream
	selector  Selector
	operators []Operator
	sinks     []StatsSink
	state     State
}

func NewLoop(cfg Config, opts ...Option) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Loop{
		cfg:      cfg,
		rng:      NewRandomStream(cfg.Seed),
		selector: TournamentSelector{Size: cfg.TournamentSize},
		operators: []Operator{
			OnePointCrossover{Probability: cfg.CrossoverProbability},
			BitFlipMutation{Probability: cfg.MutationProbability, GeneProbability: cfg.GeneProbability()},
		},
		state: StateInitializing,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Loop) State() State {
	return l.state
}

func (l *Loop) Config() Config {
	return l.cfg
}

// Run executes the loop once. The optimum check happens before every
// generation, so the generation that reaches it is recorded exactly once.
func (l *Loop) Run(ctx context.Context) (RunResult, error) {
	if l.state != StateInitializing {
		return RunResult{}, fmt.Errorf("loop already %s", l.state)
	}

	population, err := NewPopulation(l.rng, l.cfg.PopulationSize, l.cfg.GeneLength)
	if err != nil {
		return RunResult{}, err
	}
	l.state = StateEvolving

	history := make([]model.GenerationStats, 0, l.cfg.MaxGenerations)
	best := maxFitness(population)
	generation := 0
	var reason TerminationReason
	for {
		if best >= l.cfg.GeneLength {
			reason = ReasonOptimumReached
			break
		}
		if generation >= l.cfg.MaxGenerations {
			reason = ReasonMaxGenerations
			break
		}
		if err := ctx.Err(); err != nil {
			l.state = StateTerminated
			return RunResult{}, err
		}

		population = l.step(population)
		generation++

		summary := Summarize(population, generation)
		history = append(history, summary)
		best = summary.MaxFitness

		if err := l.publish(ctx, summary); err != nil {
			l.state = StateTerminated
			return RunResult{}, err
		}
	}
	l.state = StateTerminated

	return RunResult{
		Stats:           history,
		FinalPopulation: population,
		Generations:     generation,
		Reason:          reason,
		Draws:           l.rng.Draws(),
	}, nil
}

func (l *Loop) step(population Population) Population {
	selected := l.selector.Select(l.rng, population)
	offspring := CloneAll(selected)
	for _, op := range l.operators {
		op.Apply(l.rng, offspring)
	}
	return FreezeAll(offspring)
}

func (l *Loop) publish(ctx context.Context, summary model.GenerationStats) error {
	for i, sink := range l.sinks {
		copied := summary
		copied.BestGenes = append([]int(nil), summary.BestGenes...)
		if err := sink.Publish(ctx, copied); err != nil {
			return fmt.Errorf("publish generation %d to sink %d: %w", summary.Generation, i, err)
		}
	}
	return nil
}

// Summarize computes max and mean fitness and the genes of the first
// fittest individual.
func Summarize(population Population, generation int) model.GenerationStats {
	if len(population) == 0 {
		return model.GenerationStats{Generation: generation}
	}
	fitness := population.Fitnesses()
	bestIdx := floats.MaxIdx(fitness)
	return model.GenerationStats{
		Generation:  generation,
		MaxFitness:  population[bestIdx].Fitness(),
		MeanFitness: stat.Mean(fitness, nil),
		BestGenes:   population[bestIdx].Bits(),
	}
}

func maxFitness(population Population) int {
	best := 0
	for _, ind := range population {
		if ind.Fitness() > best {
			best = ind.Fitness()
		}
	}
	return best
}
