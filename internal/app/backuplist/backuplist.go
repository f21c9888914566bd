package backuplist

import (
	"context"
	"fmt"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
)

// ServiceConfig is the configuration for the backup list service.
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

// Service lists the available restore points.
type Service struct {
	fixtures storage.FixtureRepository
	logger   log.Logger
}

// NewService creates a new backup list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		fixtures: cfg.Fixtures,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the backup list request parameters.
type Request struct {
	// Type filters the backups, empty means all.
	Type model.BackupType
}

// Run lists the backups.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Backup, error) {
	if req.Type != "" {
		if err := req.Type.Validate(); err != nil {
			return nil, err
		}
	}

	backups, err := s.fixtures.ListBackups(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list backups: %w", err)
	}

	if req.Type == "" {
		return backups, nil
	}

	filtered := []model.Backup{}
	for _, b := range backups {
		if b.Type == req.Type {
			filtered = append(filtered, b)
		}
	}
	s.logger.Debugf("Filtered %d of %d backups by type %s", len(filtered), len(backups), req.Type)

	return filtered, nil
}
