package tracker

import (
	"context"
	"fmt"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/storage"
)

// RecorderConfig is the configuration of the run history recorder.
type RecorderConfig struct {
	Repository storage.RunRepository
	// SkipProgress only records start and terminal events.
	SkipProgress bool
	Logger       log.Logger
}

func (c *RecorderConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "tracker.Recorder"})
	return nil
}

// Recorder is a Listener that persists the run snapshots of every event.
// Storage errors are logged, they never affect the tracked run.
type Recorder struct {
	repo         storage.RunRepository
	skipProgress bool
	logger       log.Logger
}

// NewRecorder returns a new Recorder.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Recorder{
		repo:         cfg.Repository,
		skipProgress: cfg.SkipProgress,
		logger:       cfg.Logger,
	}, nil
}

// OnEvent satisfies Listener interface.
func (r *Recorder) OnEvent(ctx context.Context, e Event) {
	if r.skipProgress && e.Type == EventProgressed {
		return
	}

	if err := r.repo.SaveRun(ctx, e.Run); err != nil {
		r.logger.Errorf("Could not record %s event of run %s: %s", e.Type, e.Run.ID, err)
	}
}
