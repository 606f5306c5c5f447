package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sma-edu/timetable-ga/internal/schedule"
	"github.com/sma-edu/timetable-ga/pkg/rng"
)

func TestTournamentSelectReturnsFittestOfSample(t *testing.T) {
	pop := []*schedule.Chromosome{
		{Fitness: 0.1},
		{Fitness: 0.9},
		{Fitness: 0.5},
	}
	// size == len(pop) makes the whole population the "sample", so the
	// result is deterministically the population's fittest member.
	best := TournamentSelect(pop, 3, rng.New(1))
	assert.Equal(t, 0.9, best.Fitness)
}

func TestTournamentSelectClampsOversizedTournament(t *testing.T) {
	pop := []*schedule.Chromosome{{Fitness: 0.3}, {Fitness: 0.7}}
	best := TournamentSelect(pop, 100, rng.New(2))
	assert.Equal(t, 0.7, best.Fitness)
}

func TestTournamentSelectEmptyPopulationReturnsNil(t *testing.T) {
	assert.Nil(t, TournamentSelect(nil, 5, rng.New(1)))
}
