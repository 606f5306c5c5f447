// Package genetic implements the operators that turn one generation's
// population into the next: tournament selection, course-keyed
// crossover, single-gene mutation, and the day-load warm-start
// heuristic (warmstart.go).
package genetic

import (
	"github.com/sma-edu/timetable-ga/internal/schedule"
	"github.com/sma-edu/timetable-ga/pkg/rng"
)

// TournamentSelect draws size distinct candidates from pop without
// replacement and returns the fittest one. size is clamped to len(pop)
// so a tournament never asks for more candidates than exist.
func TournamentSelect(pop []*schedule.Chromosome, size int, rngSrc *rng.Source) *schedule.Chromosome {
	if len(pop) == 0 {
		return nil
	}
	if size > len(pop) {
		size = len(pop)
	}
	if size < 1 {
		size = 1
	}

	picked := make(map[int]bool, size)
	var best *schedule.Chromosome
	for len(picked) < size {
		i := rngSrc.Intn(len(pop))
		if picked[i] {
			continue
		}
		picked[i] = true
		if best == nil || pop[i].Fitness > best.Fitness {
			best = pop[i]
		}
	}
	return best
}
