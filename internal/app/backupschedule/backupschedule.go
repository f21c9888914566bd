package backupschedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/tracker"
)

// Tracker starts simulated operation runs.
type Tracker interface {
	Start(ctx context.Context, kind model.OperationKind, name string) (*tracker.Handle, error)
}

// ServiceConfig is the configuration for the backup schedule service.
type ServiceConfig struct {
	Tracker Tracker
	Now     func() time.Time
	Logger  log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Tracker == nil {
		return fmt.Errorf("tracker is required")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.BackupSchedule"})
	return nil
}

// Service starts backup runs on a cron schedule.
type Service struct {
	tracker Tracker
	now     func() time.Time
	logger  log.Logger
}

// NewService creates a new backup schedule service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		tracker: cfg.Tracker,
		now:     cfg.Now,
		logger:  cfg.Logger,
	}, nil
}

// Request represents the backup schedule request parameters.
type Request struct {
	// Schedule is a standard 5 field cron expression (minute hour dom month dow).
	Schedule string
}

// ParseSchedule parses a standard 5 field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w: %w", expr, err, model.ErrNotValid)
	}
	return schedule, nil
}

// ScheduledName returns the name given to scheduled backups.
func ScheduledName(now time.Time) string {
	return "Scheduled_Backup_" + now.UTC().Format("2006-01-02_1504")
}

// Run starts a backup run on every schedule activation until the context ends.
// Activations while a backup is still running are skipped.
func (s *Service) Run(ctx context.Context, req Request) error {
	schedule, err := ParseSchedule(req.Schedule)
	if err != nil {
		return err
	}

	c := cron.New()
	c.Schedule(schedule, cron.FuncJob(func() { s.backup(ctx) }))
	c.Start()
	s.logger.Infof("Backups scheduled with %q, next at %s", req.Schedule, schedule.Next(s.now()).Format(time.RFC3339))

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Infof("Backup schedule stopped")

	return nil
}

func (s *Service) backup(ctx context.Context) {
	name := ScheduledName(s.now())
	h, err := s.tracker.Start(ctx, model.OperationKindBackup, name)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyRunning) {
			s.logger.Warningf("Skipping scheduled backup %q: %s", name, err)
			return
		}
		s.logger.Errorf("Could not start scheduled backup %q: %s", name, err)
		return
	}

	s.logger.WithValues(log.Kv{"run": h.ID()}).Infof("Scheduled backup %q started", name)
}
