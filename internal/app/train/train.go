package train

import (
	"context"
	"fmt"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/tracker"
)

// Tracker starts simulated operation runs.
type Tracker interface {
	Start(ctx context.Context, kind model.OperationKind, name string) (*tracker.Handle, error)
}

// ServiceConfig is the configuration for the train service.
type ServiceConfig struct {
	Tracker Tracker
	Logger  log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Tracker == nil {
		return fmt.Errorf("tracker is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Train"})
	return nil
}

// Service trains the detection model.
type Service struct {
	tracker Tracker
	logger  log.Logger
}

// NewService creates a new train service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		tracker: cfg.Tracker,
		logger:  cfg.Logger,
	}, nil
}

// Request represents the train request parameters.
type Request struct {
	// Sensitivity of the detection model, medium by default.
	Sensitivity model.Sensitivity
}

// RunName returns the name of the training run for the sensitivity.
func RunName(s model.Sensitivity) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-sensitivity", s), nil
}

// Run starts a training run and blocks until it finishes. If the context
// ends before, the run is cancelled.
func (s *Service) Run(ctx context.Context, req Request) (*model.OperationRun, error) {
	if req.Sensitivity == "" {
		req.Sensitivity = model.SensitivityMedium
	}
	name, err := RunName(req.Sensitivity)
	if err != nil {
		return nil, err
	}

	h, err := s.tracker.Start(ctx, model.OperationKindTraining, name)
	if err != nil {
		return nil, fmt.Errorf("could not start training: %w", err)
	}
	logger := s.logger.WithValues(log.Kv{"run": h.ID(), "sensitivity": req.Sensitivity})
	logger.Infof("Training detection model")

	run, err := h.Wait(ctx)
	if err != nil {
		if cerr := h.Cancel(); cerr != nil {
			logger.Warningf("Could not cancel training run: %s", cerr)
		}
		return nil, fmt.Errorf("training interrupted: %w", err)
	}

	if run.State != model.RunStateCompleted {
		return nil, fmt.Errorf("training ended in %s state", run.State)
	}

	logger.Infof("Training completed")
	return &run, nil
}
