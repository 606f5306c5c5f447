// Package engine orchestrates one full generation run: validating the
// request, loading a catalogue snapshot, evolving a population,
// repairing the winner, and assembling the external result shape.
package engine

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sma-edu/timetable-ga/internal/dto"
	"github.com/sma-edu/timetable-ga/internal/repair"
	"github.com/sma-edu/timetable-ga/pkg/config"
	apperrors "github.com/sma-edu/timetable-ga/pkg/errors"
	"github.com/sma-edu/timetable-ga/pkg/rng"
)

// Service is the generation engine's single entry point.
type Service struct {
	validator *validator.Validate
	logger    *zap.Logger
	defaults  config.GAConfig
}

// New wires a Service. defaults supplies the GAConfig fallback for any
// zero-valued field on a request's GAParams.
func New(validate *validator.Validate, logger *zap.Logger, defaults config.GAConfig) *Service {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{validator: validate, logger: logger, defaults: defaults}
}

// Generate runs one complete generation pipeline for req: construction,
// evolution, repair, and result assembly. A catalogue that comes back
// empty for the requested filter is not an error from the caller's
// perspective — it yields an empty result carrying the run id.
func (s *Service) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidParameter.Code, apperrors.ErrInvalidParameter.Status, "invalid schedule generation request")
	}

	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))

	cfg := resolveGAConfig(req.GA, s.defaults)

	snap, err := loadSnapshot(req, log)
	if err != nil {
		appErr := apperrors.FromError(err)
		if appErr.Code == apperrors.ErrCatalogueEmpty.Code {
			log.Warn("catalogue empty for requested filter",
				zap.String("semester", req.Semester), zap.Int("year", req.Year))
			return &dto.GenerateResponse{RunID: runID}, nil
		}
		return nil, err
	}

	rngSrc := rng.New(seedFor(cfg))

	log.Info("starting generation run",
		zap.Int("population_size", cfg.PopulationSize),
		zap.Int("generations", cfg.Generations),
		zap.Int("course_count", len(snap.Courses)))

	best, err := runEvolution(ctx, snap, cfg, rngSrc, log)
	if err != nil {
		return nil, err
	}

	repair.Repair(snap, best, cfg.MaxRepairAttempts, rngSrc.Child())

	log.Info("generation run complete",
		zap.Float64("fitness", best.Fitness),
		zap.Int("hard_violations", best.HardViolations),
		zap.Int("soft_violations", best.SoftViolations))

	return assembleResponse(runID, req, best), nil
}

// resolveGAConfig overlays req's non-zero fields onto defaults.
func resolveGAConfig(req dto.GAParams, defaults config.GAConfig) config.GAConfig {
	cfg := defaults
	if req.PopulationSize != 0 {
		cfg.PopulationSize = req.PopulationSize
	}
	if req.Generations != 0 {
		cfg.Generations = req.Generations
	}
	if req.CrossoverRate != 0 {
		cfg.CrossoverRate = req.CrossoverRate
	}
	if req.MutationRate != 0 {
		cfg.MutationRate = req.MutationRate
	}
	if req.ElitismCount != 0 {
		cfg.ElitismCount = req.ElitismCount
	}
	if req.TournamentSize != 0 {
		cfg.TournamentSize = req.TournamentSize
	}
	if req.StagnationLimit != 0 {
		cfg.StagnationLimit = req.StagnationLimit
	}
	if req.MaxRepairAttempts != 0 {
		cfg.MaxRepairAttempts = req.MaxRepairAttempts
	}
	if req.ConstructionAttempts != 0 {
		cfg.ConstructionAttempts = req.ConstructionAttempts
	}
	if req.ParallelWorkers != 0 {
		cfg.ParallelWorkers = req.ParallelWorkers
	}
	if req.SeedSet {
		cfg.Seed = req.Seed
		cfg.SeedSet = true
	}
	return cfg
}

// seedFor returns cfg.Seed when the caller pinned one (required for
// the determinism law to be checkable across runs), else a
// time-derived seed so unrelated runs don't collide.
func seedFor(cfg config.GAConfig) int64 {
	if cfg.SeedSet {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}
