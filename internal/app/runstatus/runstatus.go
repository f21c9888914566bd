package runstatus

import (
	"context"
	"errors"
	"fmt"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
)

// ServiceConfig is the configuration for the run status service.
type ServiceConfig struct {
	Repository storage.RunRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service retrieves a recorded operation run.
type Service struct {
	repo   storage.RunRepository
	logger log.Logger
}

// NewService creates a new run status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the run status request parameters.
type Request struct {
	ID string
}

// Run retrieves the run by ID.
func (s *Service) Run(ctx context.Context, req Request) (*model.OperationRun, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("run id is required: %w", model.ErrNotValid)
	}

	s.logger.Debugf("getting status for run: %s", req.ID)

	run, err := s.repo.GetRun(ctx, req.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("run not found: %s: %w", req.ID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get run status: %w", err)
	}

	return run, nil
}
