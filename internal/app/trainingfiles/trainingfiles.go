package trainingfiles

import (
	"context"
	"fmt"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
)

// ServiceConfig is the configuration for the training files service.
type ServiceConfig struct {
	Fixtures storage.FixtureRepository
	Logger   log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Fixtures == nil {
		return fmt.Errorf("fixtures repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	return nil
}

// Service lists the training data and the model stats.
type Service struct {
	fixtures storage.FixtureRepository
	logger   log.Logger
}

// NewService creates a new training files service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		fixtures: cfg.Fixtures,
		logger:   cfg.Logger,
	}, nil
}

// Response is the training data overview.
type Response struct {
	Files []model.TrainingFile
	Stats model.ModelStats
	// PendingFiles is the number of files not yet used for training.
	PendingFiles int
}

// Run returns the training data overview.
func (s *Service) Run(ctx context.Context) (*Response, error) {
	files, err := s.fixtures.ListTrainingFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list training files: %w", err)
	}

	stats, err := s.fixtures.GetModelStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get model stats: %w", err)
	}

	pending := 0
	for _, f := range files {
		if f.Status == model.TrainingFileStatusUploaded || f.Status == model.TrainingFileStatusProcessing {
			pending++
		}
	}

	return &Response{
		Files:        files,
		Stats:        *stats,
		PendingFiles: pending,
	}, nil
}
