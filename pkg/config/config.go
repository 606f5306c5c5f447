package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the top-level configuration for the scheduling engine.
type Config struct {
	Env string

	Log LogConfig
	GA  GAConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// GAConfig carries every tunable of the genetic core: population
// shape, operator rates, the elitist/stagnation termination rule, and
// the repair pass's retry budget.
type GAConfig struct {
	PopulationSize       int
	Generations          int
	CrossoverRate        float64
	MutationRate         float64
	ElitismCount         int
	TournamentSize       int
	StagnationLimit      int
	MaxRepairAttempts    int
	ConstructionAttempts int
	ParallelWorkers      int
	Seed                 int64
	SeedSet              bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.GA = GAConfig{
		PopulationSize:       v.GetInt("GA_POPULATION_SIZE"),
		Generations:          v.GetInt("GA_GENERATIONS"),
		CrossoverRate:        v.GetFloat64("GA_CROSSOVER_RATE"),
		MutationRate:         v.GetFloat64("GA_MUTATION_RATE"),
		ElitismCount:         v.GetInt("GA_ELITISM_COUNT"),
		TournamentSize:       v.GetInt("GA_TOURNAMENT_SIZE"),
		StagnationLimit:      v.GetInt("GA_STAGNATION_LIMIT"),
		MaxRepairAttempts:    v.GetInt("GA_MAX_REPAIR_ATTEMPTS"),
		ConstructionAttempts: v.GetInt("GA_CONSTRUCTION_ATTEMPTS"),
		ParallelWorkers:      v.GetInt("GA_PARALLEL_WORKERS"),
	}
	if v.IsSet("GA_SEED") {
		cfg.GA.Seed = v.GetInt64("GA_SEED")
		cfg.GA.SeedSet = true
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GA_POPULATION_SIZE", 50)
	v.SetDefault("GA_GENERATIONS", 100)
	v.SetDefault("GA_CROSSOVER_RATE", 0.8)
	v.SetDefault("GA_MUTATION_RATE", 0.05)
	v.SetDefault("GA_ELITISM_COUNT", 5)
	v.SetDefault("GA_TOURNAMENT_SIZE", 5)
	v.SetDefault("GA_STAGNATION_LIMIT", 50)
	v.SetDefault("GA_MAX_REPAIR_ATTEMPTS", 50)
	v.SetDefault("GA_CONSTRUCTION_ATTEMPTS", 200)
	v.SetDefault("GA_PARALLEL_WORKERS", 4)
}
