package genetic

import (
	"github.com/sma-edu/timetable-ga/internal/builder"
	"github.com/sma-edu/timetable-ga/internal/catalogue"
	"github.com/sma-edu/timetable-ga/internal/schedule"
	"github.com/sma-edu/timetable-ga/pkg/rng"
)

// Crossover reproduces the source's course-id-keyed recombination:
// each parent is indexed down to one representative gene per course
// (the first one encountered in Items order), so a multi-session
// course collapses to a single gene during recombination. This is a
// documented limitation, not an oversight — sessions lost here are
// not restored by crossover itself; they surface as UNDER_SCHEDULED
// conflicts, which the repair pass fills on the final winner.
//
// For every course present in either parent: present in both, a fair
// coin decides which child gets which parent's gene; present in only
// one, that child inherits it and the other child gets a freshly
// random gene for the course it's missing. Below crossoverRate, both
// children are unmodified clones of their respective parent.
func Crossover(snap *catalogue.Snapshot, parent1, parent2 *schedule.Chromosome, crossoverRate float64, rngSrc *rng.Source) (child1, child2 *schedule.Chromosome) {
	if rngSrc.Float64() > crossoverRate {
		return parent1.Clone(), parent2.Clone()
	}

	idx1 := representativeGenes(parent1.Items)
	idx2 := representativeGenes(parent2.Items)

	child1, child2 = &schedule.Chromosome{}, &schedule.Chromosome{}
	seen := map[string]bool{}

	visit := func(courseID string) {
		if seen[courseID] {
			return
		}
		seen[courseID] = true

		g1, ok1 := idx1[courseID]
		g2, ok2 := idx2[courseID]

		switch {
		case ok1 && ok2:
			if rngSrc.Bool(0.5) {
				child1.Items = append(child1.Items, g1)
				child2.Items = append(child2.Items, g2)
			} else {
				child1.Items = append(child1.Items, g2)
				child2.Items = append(child2.Items, g1)
			}
		case ok1:
			child1.Items = append(child1.Items, g1)
			child2.Items = append(child2.Items, builder.RandomItem(snap, courseID, rngSrc))
		case ok2:
			child2.Items = append(child2.Items, g2)
			child1.Items = append(child1.Items, builder.RandomItem(snap, courseID, rngSrc))
		}
	}

	for _, it := range parent1.Items {
		visit(it.CourseID)
	}
	for _, it := range parent2.Items {
		visit(it.CourseID)
	}

	return child1, child2
}

func representativeGenes(items []schedule.Item) map[string]schedule.Item {
	out := map[string]schedule.Item{}
	for _, it := range items {
		if _, ok := out[it.CourseID]; !ok {
			out[it.CourseID] = it
		}
	}
	return out
}
