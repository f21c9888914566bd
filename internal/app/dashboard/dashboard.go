package dashboard

import (
	"context"
	"fmt"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
)

// DefaultRecentRuns is the number of runs shown when the request doesn't set one.
const DefaultRecentRuns = 5

// ServiceConfig is the configuration for the dashboard service.
type ServiceConfig struct {
	Fixtures storage.FixtureRepository
	// Runs is the run history, without it no recent runs are shown.
	Runs   storage.RunRepository
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Fixtures == nil {
		return fmt.Errorf("fixtures repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Dashboard"})
	return nil
}

// Service summarizes the protection system state.
type Service struct {
	fixtures storage.FixtureRepository
	runs     storage.RunRepository
	logger   log.Logger
}

// NewService creates a new dashboard service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		fixtures: cfg.Fixtures,
		runs:     cfg.Runs,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the dashboard request parameters.
type Request struct {
	// Logs caps the number of log entries, 0 means no limit.
	Logs int
	// Runs caps the number of recent runs, 0 means DefaultRecentRuns.
	Runs int
}

func (r *Request) defaults() error {
	if r.Logs < 0 {
		return fmt.Errorf("logs limit can't be negative: %w", model.ErrNotValid)
	}
	if r.Runs < 0 {
		return fmt.Errorf("runs limit can't be negative: %w", model.ErrNotValid)
	}
	if r.Runs == 0 {
		r.Runs = DefaultRecentRuns
	}
	return nil
}

// Run returns the dashboard overview.
func (s *Service) Run(ctx context.Context, req Request) (*model.DashboardOverview, error) {
	if err := req.defaults(); err != nil {
		return nil, err
	}

	stats, err := s.fixtures.GetSystemStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get system stats: %w", err)
	}

	logs, err := s.fixtures.ListLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list logs: %w", err)
	}
	if req.Logs > 0 && len(logs) > req.Logs {
		logs = logs[:req.Logs]
	}

	runs := []model.OperationRun{}
	if s.runs != nil {
		runs, err = s.runs.ListRuns(ctx, storage.ListRunsOpts{Limit: req.Runs})
		if err != nil {
			return nil, fmt.Errorf("could not list runs: %w", err)
		}
	}

	overview := &model.DashboardOverview{
		Stats:      *stats,
		Logs:       logs,
		RecentRuns: runs,
	}
	s.logger.Debugf("%d alerts in the security log", overview.Alerts())

	return overview, nil
}
