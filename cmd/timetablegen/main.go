// Command timetablegen runs one genetic-algorithm timetable generation
// from a JSON catalogue file and prints the assembled result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/sma-edu/timetable-ga/internal/dto"
	"github.com/sma-edu/timetable-ga/internal/engine"
	"github.com/sma-edu/timetable-ga/pkg/config"
	"github.com/sma-edu/timetable-ga/pkg/logger"
)

func main() {
	inputPath := flag.String("input", "", "path to a JSON-encoded dto.GenerateRequest")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if *inputPath == "" {
		logr.Fatal("missing required -input flag")
	}

	req, err := readRequest(*inputPath)
	if err != nil {
		logr.Fatal("failed to read request", zap.Error(err))
	}

	svc := engine.New(nil, logr, cfg.GA)

	resp, err := svc.Generate(context.Background(), req)
	if err != nil {
		logr.Fatal("generation failed", zap.Error(err))
	}

	if err := json.NewEncoder(os.Stdout).Encode(resp); err != nil {
		logr.Fatal("failed to encode response", zap.Error(err))
	}
}

func readRequest(path string) (dto.GenerateRequest, error) {
	var req dto.GenerateRequest

	f, err := os.Open(path)
	if err != nil {
		return req, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}
