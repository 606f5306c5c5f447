package engine

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sma-edu/timetable-ga/internal/builder"
	"github.com/sma-edu/timetable-ga/internal/catalogue"
	"github.com/sma-edu/timetable-ga/internal/fitness"
	"github.com/sma-edu/timetable-ga/internal/genetic"
	"github.com/sma-edu/timetable-ga/internal/schedule"
	"github.com/sma-edu/timetable-ga/pkg/config"
	"github.com/sma-edu/timetable-ga/pkg/rng"
)

// runEvolution seeds a population, evolves it generation by
// generation, and returns the fittest chromosome ever seen (a clone,
// independent of any in-flight population slice). It stops at
// cfg.Generations or after cfg.StagnationLimit generations pass
// without a strictly higher best fitness, whichever comes first.
func runEvolution(ctx context.Context, snap *catalogue.Snapshot, cfg config.GAConfig, rngSrc *rng.Source, log *zap.Logger) (*schedule.Chromosome, error) {
	population := make([]*schedule.Chromosome, cfg.PopulationSize)
	for i := range population {
		c := builder.Build(snap, rngSrc, cfg.ConstructionAttempts, log)
		genetic.WarmStart(c)
		population[i] = c
	}

	if err := evaluatePopulation(ctx, snap, population, cfg.ParallelWorkers); err != nil {
		return nil, err
	}

	var best *schedule.Chromosome
	bestFitness := 0.0
	stagnant := 0

	for generation := 0; generation < cfg.Generations; generation++ {
		population = evolveOnce(snap, population, cfg, rngSrc)

		if err := evaluatePopulation(ctx, snap, population, cfg.ParallelWorkers); err != nil {
			return nil, err
		}

		current := fittest(population)
		if current.Fitness > bestFitness {
			bestFitness = current.Fitness
			best = current.Clone()
			stagnant = 0
		} else {
			stagnant++
		}

		if log != nil {
			log.Debug("generation complete",
				zap.Int("generation", generation),
				zap.Float64("best_fitness", bestFitness),
				zap.Int("generations_without_improvement", stagnant))
		}

		if stagnant >= cfg.StagnationLimit {
			break
		}
	}

	if best == nil {
		best = fittest(population).Clone()
	}
	return best, nil
}

// evolveOnce produces the next generation: the top ElitismCount
// chromosomes survive unchanged, and the remainder is filled by
// repeatedly drawing two tournament parents, crossing them, and
// mutating both children.
func evolveOnce(snap *catalogue.Snapshot, population []*schedule.Chromosome, cfg config.GAConfig, rngSrc *rng.Source) []*schedule.Chromosome {
	sorted := append([]*schedule.Chromosome(nil), population...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Fitness > sorted[j].Fitness })

	elitismCount := cfg.ElitismCount
	if elitismCount > len(sorted) {
		elitismCount = len(sorted)
	}

	next := make([]*schedule.Chromosome, 0, cfg.PopulationSize)
	next = append(next, sorted[:elitismCount]...)

	for len(next) < cfg.PopulationSize {
		parent1 := genetic.TournamentSelect(population, cfg.TournamentSize, rngSrc)
		parent2 := genetic.TournamentSelect(population, cfg.TournamentSize, rngSrc)

		child1, child2 := genetic.Crossover(snap, parent1, parent2, cfg.CrossoverRate, rngSrc)
		genetic.Mutate(snap, child1, cfg.MutationRate, rngSrc)
		genetic.Mutate(snap, child2, cfg.MutationRate, rngSrc)

		next = append(next, child1)
		if len(next) < cfg.PopulationSize {
			next = append(next, child2)
		}
	}

	return next
}

func fittest(population []*schedule.Chromosome) *schedule.Chromosome {
	best := population[0]
	for _, c := range population[1:] {
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}

// evaluatePopulation scores every chromosome in population. Evaluation
// performs no random draws and touches no shared state besides the
// read-only snapshot, so with parallelWorkers > 1 it fans out across a
// worker group instead of running sequentially; construction,
// selection, crossover and mutation never go through this path, which
// keeps the RNG draw sequence single-threaded as required.
func evaluatePopulation(ctx context.Context, snap *catalogue.Snapshot, population []*schedule.Chromosome, parallelWorkers int) error {
	if parallelWorkers <= 1 {
		for _, c := range population {
			fitness.Evaluate(snap, c)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelWorkers)
	for _, c := range population {
		c := c
		g.Go(func() error {
			fitness.Evaluate(snap, c)
			return gctx.Err()
		})
	}
	return g.Wait()
}
