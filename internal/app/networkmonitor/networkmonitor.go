package networkmonitor

import (
	"context"
	"fmt"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
)

// ServiceConfig is the configuration for the network monitor service.
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

// Service shows the monitored network traffic and its busiest sources.
type Service struct {
	fixtures storage.FixtureRepository
	logger   log.Logger
}

// NewService creates a new network monitor service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		fixtures: cfg.Fixtures,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the network monitor request parameters.
type Request struct {
	// MinRisk hides source addresses less risky than it, empty shows all.
	MinRisk model.RiskLevel
	// Top caps the number of source addresses, 0 means no limit.
	Top int
}

// Run returns the network overview.
func (s *Service) Run(ctx context.Context, req Request) (*model.NetworkOverview, error) {
	if req.MinRisk == "" {
		req.MinRisk = model.RiskLevelLow
	}
	if err := req.MinRisk.Validate(); err != nil {
		return nil, err
	}
	if req.Top < 0 {
		return nil, fmt.Errorf("top can't be negative: %w", model.ErrNotValid)
	}

	traffic, err := s.fixtures.ListTraffic(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list traffic: %w", err)
	}

	topIPs, err := s.fixtures.ListTopIPs(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list top IPs: %w", err)
	}

	stats, err := s.fixtures.GetSystemStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get system stats: %w", err)
	}

	filtered := []model.TopIP{}
	for _, ip := range topIPs {
		if req.Top > 0 && len(filtered) == req.Top {
			break
		}
		if ip.RiskLevel.AtLeast(req.MinRisk) {
			filtered = append(filtered, ip)
		}
	}

	return &model.NetworkOverview{
		Traffic:           traffic,
		TopIPs:            filtered,
		ActiveConnections: stats.ActiveConnections,
	}, nil
}
