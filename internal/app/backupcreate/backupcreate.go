package backupcreate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/tracker"
)

const maxNameLength = 128

var nameValidator = newNameValidator()

func newNameValidator() *validator.Validate {
	v := validator.New()
	mustRegisterValidation(v, "backupname", isBackupName)
	return v
}

// mustRegisterValidation panics if the tag can't be registered.
func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("could not register %q validation: %s", tag, err))
	}
}

// isBackupName accepts names usable as file names: alphanumeric, dots, hyphens and underscores.
func isBackupName(fl validator.FieldLevel) bool {
	for _, char := range fl.Field().String() {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '-' ||
			char == '_' ||
			char == '.') {
			return false
		}
	}
	return true
}

// Tracker starts simulated operation runs.
type Tracker interface {
	Start(ctx context.Context, kind model.OperationKind, name string) (*tracker.Handle, error)
}

// ServiceConfig is the configuration for the backup create service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.BackupCreate"})
	return nil
}

// Service creates system backups.
type Service struct {
	tracker Tracker
	now     func() time.Time
	logger  log.Logger
}

// NewService creates a new backup create service.
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

// Request represents the backup create request parameters.
type Request struct {
	// Name is the backup name, by default Manual_Backup_<date>.
	Name string
}

func (r *Request) defaults(now time.Time) error {
	name, err := NormalizeName(r.Name, now)
	if err != nil {
		return err
	}
	r.Name = name
	return nil
}

// NormalizeName trims the backup name and validates it, empty names get
// the default one.
func NormalizeName(name string, now time.Time) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName(now)
	}
	if len(name) > maxNameLength {
		return "", fmt.Errorf("backup name can't be longer than %d characters: %w", maxNameLength, model.ErrNotValid)
	}
	if err := nameValidator.Var(name, "backupname"); err != nil {
		return "", fmt.Errorf("backup name %q can only have letters, digits, '.', '-' and '_': %w", name, model.ErrNotValid)
	}
	return name, nil
}

// DefaultName returns the name given to manual backups without one.
func DefaultName(now time.Time) string {
	return "Manual_Backup_" + now.UTC().Format("2006-01-02")
}

// Run starts a backup run and blocks until it finishes. If the context ends
// before, the run is cancelled.
func (s *Service) Run(ctx context.Context, req Request) (*model.OperationRun, error) {
	if err := req.defaults(s.now()); err != nil {
		return nil, err
	}

	h, err := s.tracker.Start(ctx, model.OperationKindBackup, req.Name)
	if err != nil {
		return nil, fmt.Errorf("could not start backup: %w", err)
	}
	logger := s.logger.WithValues(log.Kv{"run": h.ID()})
	logger.Infof("Creating backup %q", req.Name)

	run, err := h.Wait(ctx)
	if err != nil {
		if cerr := h.Cancel(); cerr != nil {
			logger.Warningf("Could not cancel backup run: %s", cerr)
		}
		return nil, fmt.Errorf("backup %q interrupted: %w", req.Name, err)
	}

	if run.State != model.RunStateCompleted {
		return nil, fmt.Errorf("backup %q ended in %s state", req.Name, run.State)
	}

	logger.Infof("Backup %q created", req.Name)
	return &run, nil
}
