package restore

import (
	"context"
	"fmt"
	"time"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
)

// RunReader knows the current run of each operation kind.
type RunReader interface {
	CurrentRun(kind model.OperationKind) (model.OperationRun, bool)
}

// DefaultStaleRunAge is the age after which a running backup in the history
// is considered abandoned.
const DefaultStaleRunAge = time.Hour

// ServiceConfig is the configuration for the restore service.
type ServiceConfig struct {
	Fixtures storage.FixtureRepository
	// Runs knows the runs of the current process.
	Runs RunReader
	// History is the recorded run history, it knows the runs of other processes.
	History storage.RunRepository
	// StaleRunAge ignores running backups of the history started before it.
	StaleRunAge time.Duration
	Now         func() time.Time
	Logger      log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Fixtures == nil {
		return fmt.Errorf("fixtures repository is required")
	}
	if c.Runs == nil && c.History == nil {
		return fmt.Errorf("run reader or run history is required")
	}
	if c.StaleRunAge == 0 {
		c.StaleRunAge = DefaultStaleRunAge
	}
	if c.StaleRunAge < 0 {
		return fmt.Errorf("stale run age can't be negative")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Restore"})
	return nil
}

// Service restores the system to a backup. The restore itself is simulated,
// the service only checks the restore can be requested.
type Service struct {
	fixtures    storage.FixtureRepository
	runs        RunReader
	history     storage.RunRepository
	staleRunAge time.Duration
	now         func() time.Time
	logger      log.Logger
}

// NewService creates a new restore service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		fixtures:    cfg.Fixtures,
		runs:        cfg.Runs,
		history:     cfg.History,
		staleRunAge: cfg.StaleRunAge,
		now:         cfg.Now,
		logger:      cfg.Logger,
	}, nil
}

// Request represents the restore request parameters.
type Request struct {
	BackupID       string
	MasterPassword string
}

// Run restores the selected backup.
func (s *Service) Run(ctx context.Context, req Request) (*model.Backup, error) {
	if req.BackupID == "" {
		return nil, fmt.Errorf("a backup must be selected: %w", model.ErrNotValid)
	}
	if req.MasterPassword == "" {
		return nil, fmt.Errorf("master password is required: %w", model.ErrNotValid)
	}

	if err := s.checkNoRunningBackup(ctx); err != nil {
		return nil, err
	}

	backup, err := s.fixtures.GetBackup(ctx, req.BackupID)
	if err != nil {
		return nil, fmt.Errorf("could not get backup: %w", err)
	}

	if backup.Status != model.BackupStatusCompleted {
		return nil, fmt.Errorf("backup %s is %s: %w", backup.ID, backup.Status, model.ErrNotValid)
	}

	s.logger.Infof("Restoring backup %s (%s)", backup.ID, backup.Name)
	return backup, nil
}

func (s *Service) checkNoRunningBackup(ctx context.Context) error {
	if s.runs != nil {
		if run, ok := s.runs.CurrentRun(model.OperationKindBackup); ok && run.State == model.RunStateRunning {
			return fmt.Errorf("can't restore while backup run %s is in progress: %w", run.ID, model.ErrAlreadyRunning)
		}
	}

	if s.history == nil {
		return nil
	}

	runs, err := s.history.ListRuns(ctx, storage.ListRunsOpts{Kind: model.OperationKindBackup, Limit: 1})
	if err != nil {
		return fmt.Errorf("could not list backup runs: %w", err)
	}
	if len(runs) == 0 || runs[0].State != model.RunStateRunning {
		return nil
	}

	run := runs[0]
	if s.now().Sub(run.StartedAt) > s.staleRunAge {
		s.logger.Warningf("Ignoring backup run %s, running since %s", run.ID, run.StartedAt.Format(time.RFC3339))
		return nil
	}

	return fmt.Errorf("can't restore while backup run %s is in progress: %w", run.ID, model.ErrAlreadyRunning)
}
