package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sma-edu/timetable-ga/internal/dto"
	"github.com/sma-edu/timetable-ga/pkg/config"
)

func fixtureRequest() dto.GenerateRequest {
	return dto.GenerateRequest{
		Semester: "fall",
		Year:     2026,
		Courses: []dto.CourseInput{
			{ID: "cs101", Name: "Intro CS", Students: 30, Credit: 2, Semester: "fall", Year: 2026, LecturerID: "lect-1"},
			{ID: "cs102", Name: "Algorithms", Students: 25, Credit: 2, Semester: "fall", Year: 2026, LecturerID: "lect-1"},
		},
		Lecturers: []dto.LecturerInput{
			{ID: "lect-1", Name: "Dr. A"},
		},
		Rooms: []dto.RoomInput{
			{ID: "r1", Name: "Room 1", Capacity: 40},
			{ID: "r2", Name: "Room 2", Capacity: 40},
		},
	}
}

func testGAConfig() config.GAConfig {
	return config.GAConfig{
		PopulationSize:       8,
		Generations:          5,
		CrossoverRate:        0.8,
		MutationRate:         0.05,
		ElitismCount:         2,
		TournamentSize:       3,
		StagnationLimit:      3,
		MaxRepairAttempts:    5,
		ConstructionAttempts: 50,
		ParallelWorkers:      1,
		Seed:                 7,
		SeedSet:              true,
	}
}

func TestGenerateProducesAScheduleCoveringEveryCourse(t *testing.T) {
	svc := New(nil, nil, testGAConfig())

	resp, err := svc.Generate(context.Background(), fixtureRequest())

	require.NoError(t, err)
	require.NotEmpty(t, resp.RunID)
	seen := map[string]bool{}
	for _, item := range resp.Schedule {
		seen[item.CourseID] = true
	}
	assert.True(t, seen["cs101"])
	assert.True(t, seen["cs102"])
}

func TestGenerateRejectsInvalidRequest(t *testing.T) {
	svc := New(nil, nil, testGAConfig())

	req := fixtureRequest()
	req.Semester = "" // required field left blank

	_, err := svc.Generate(context.Background(), req)
	assert.Error(t, err)
}

func TestGenerateEmptyCatalogueYieldsEmptyResultNotAnError(t *testing.T) {
	svc := New(nil, nil, testGAConfig())

	req := fixtureRequest()
	req.Semester = "spring" // filter matches nothing; Courses are all "fall"

	resp, err := svc.Generate(context.Background(), req)

	require.NoError(t, err)
	require.NotEmpty(t, resp.RunID, "S5: a run id is still produced")
	assert.Empty(t, resp.Schedule)
	assert.Empty(t, resp.Conflicts)
}

func TestGenerateIsDeterministicForAPinnedSeed(t *testing.T) {
	cfg := testGAConfig()
	svc1 := New(nil, nil, cfg)
	svc2 := New(nil, nil, cfg)

	resp1, err := svc1.Generate(context.Background(), fixtureRequest())
	require.NoError(t, err)
	resp2, err := svc2.Generate(context.Background(), fixtureRequest())
	require.NoError(t, err)

	assert.Equal(t, resp1.Stats.Fitness, resp2.Stats.Fitness, "S6: same seed, same catalogue, same fitness")
	assert.Equal(t, resp1.Schedule, resp2.Schedule, "S6: same seed, same catalogue, byte-identical schedule")
}

func TestResolveGAConfigOverlaysOnlyNonZeroRequestFields(t *testing.T) {
	defaults := testGAConfig()
	req := dto.GAParams{PopulationSize: 99}

	cfg := resolveGAConfig(req, defaults)

	assert.Equal(t, 99, cfg.PopulationSize)
	assert.Equal(t, defaults.Generations, cfg.Generations, "unset fields fall back to defaults")
}

func TestResolveGAConfigHonoursExplicitSeedOverride(t *testing.T) {
	defaults := testGAConfig()
	req := dto.GAParams{Seed: 42, SeedSet: true}

	cfg := resolveGAConfig(req, defaults)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.True(t, cfg.SeedSet)
}
