package detectionlist

import (
	"context"
	"fmt"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
)

// ServiceConfig is the configuration for the detection list service.
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

// Service lists the agent detection log.
type Service struct {
	fixtures storage.FixtureRepository
	logger   log.Logger
}

// NewService creates a new detection list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		fixtures: cfg.Fixtures,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the detection list request parameters.
type Request struct {
	// MinRisk hides detections less severe than it, empty shows all.
	MinRisk model.RiskLevel
}

// Run lists the detections.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Detection, error) {
	if req.MinRisk == "" {
		req.MinRisk = model.RiskLevelLow
	}
	if err := req.MinRisk.Validate(); err != nil {
		return nil, err
	}

	detections, err := s.fixtures.ListDetections(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list detections: %w", err)
	}

	filtered := []model.Detection{}
	for _, d := range detections {
		if d.RiskLevel.AtLeast(req.MinRisk) {
			filtered = append(filtered, d)
		}
	}

	return filtered, nil
}
