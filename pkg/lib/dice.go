package lib

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dicedefense/dice/internal/app/backupcreate"
	"github.com/dicedefense/dice/internal/app/train"
	"github.com/dicedefense/dice/internal/conventions"
	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
	"github.com/dicedefense/dice/internal/storage/memory"
	"github.com/dicedefense/dice/internal/storage/sqlite"
	"github.com/dicedefense/dice/internal/tracker"
)

// Config configures the SDK client.
//
// All fields are optional. An empty Config{} uses ~/.dice/dice.db for the
// run history and the default progress policy.
type Config struct {
	// DBPath is the SQLite database path.
	// Default: ~/.dice/dice.db.
	DBPath string

	// DataDir is the base directory for DICE data.
	// Default: ~/.dice.
	DataDir string

	// InMemory keeps the run history in memory instead of SQLite.
	// DBPath and DataDir are ignored.
	InMemory bool

	// TickInterval is the period between progress updates of a run.
	// Default: 500ms.
	TickInterval time.Duration

	// OnEvent receives every run event in order.
	OnEvent func(RunEvent)

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.TickInterval < 0 {
		return fmt.Errorf("tick interval can't be negative")
	}

	if c.InMemory {
		return nil
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DataDir = conventions.DataDir(home)
	}

	if c.DBPath == "" {
		c.DBPath = conventions.DBPath(c.DataDir)
	}

	return nil
}

// Client is the main SDK entry point for running DICE operations.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	tracker *tracker.Tracker
	repo    storage.RunRepository
	logger  log.Logger
	closeFn func() error

	mu      sync.Mutex
	handles map[string]*tracker.Handle
}

// New creates a new SDK client.
//
// The caller must call [Client.Close] when done, running runs are failed
// and the database connection released:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, mapError(fmt.Errorf("invalid config: %w: %w", err, model.ErrNotValid))
	}

	var (
		repo    storage.RunRepository
		closeFn = func() error { return nil }
	)
	if cfg.InMemory {
		r, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		repo = r
	} else {
		r, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: cfg.DBPath,
			Logger: cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		repo = r
		closeFn = r.Close
	}

	recorder, err := tracker.NewRecorder(tracker.RecorderConfig{
		Repository: repo,
		Logger:     cfg.Logger,
	})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("could not create recorder: %w", err)
	}

	listeners := []tracker.Listener{recorder}
	if cfg.OnEvent != nil {
		onEvent := cfg.OnEvent
		listeners = append(listeners, tracker.ListenerFunc(func(_ context.Context, e tracker.Event) {
			onEvent(fromInternalEvent(e))
		}))
	}

	t, err := tracker.New(tracker.Config{
		TickInterval: cfg.TickInterval,
		Listeners:    listeners,
		Logger:       cfg.Logger,
	})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("could not create tracker: %w", err)
	}

	return &Client{
		tracker: t,
		repo:    repo,
		logger:  cfg.Logger,
		closeFn: closeFn,
		handles: map[string]*tracker.Handle{},
	}, nil
}

// Close fails the running runs and releases the resources held by the client.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if err := c.tracker.Close(); err != nil {
		return fmt.Errorf("could not close tracker: %w", err)
	}

	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

// StartBackup starts a backup run and returns right away. An empty name gets
// the default Manual_Backup_<date> one.
//
// Returns [ErrAlreadyRunning] if a backup is running, or [ErrNotValid] if the
// name is not valid.
func (c *Client) StartBackup(ctx context.Context, name string) (*Run, error) {
	name, err := backupcreate.NormalizeName(name, time.Now())
	if err != nil {
		return nil, mapError(err)
	}

	return c.start(ctx, model.OperationKindBackup, name)
}

// StartTraining starts a model training run and returns right away. An empty
// sensitivity means medium.
//
// Returns [ErrAlreadyRunning] if a training is running, or [ErrNotValid] if
// the sensitivity is not valid.
func (c *Client) StartTraining(ctx context.Context, sensitivity Sensitivity) (*Run, error) {
	if sensitivity == "" {
		sensitivity = SensitivityMedium
	}

	name, err := train.RunName(model.Sensitivity(sensitivity))
	if err != nil {
		return nil, mapError(err)
	}

	return c.start(ctx, model.OperationKindTraining, name)
}

func (c *Client) start(ctx context.Context, kind model.OperationKind, name string) (*Run, error) {
	h, err := c.tracker.Start(ctx, kind, name)
	if err != nil {
		return nil, mapError(err)
	}

	c.mu.Lock()
	for id, old := range c.handles {
		select {
		case <-old.Done():
			delete(c.handles, id)
		default:
		}
	}
	c.handles[h.ID()] = h
	c.mu.Unlock()

	run := fromInternalRun(h.Run())
	return &run, nil
}

// WaitRun blocks until the run ends or ctx is done, and returns its latest
// snapshot. Finished runs and runs not started by this client are returned
// from the history without waiting.
//
// Returns [ErrNotFound] if the run does not exist.
func (c *Client) WaitRun(ctx context.Context, id string) (*Run, error) {
	c.mu.Lock()
	h, ok := c.handles[id]
	c.mu.Unlock()

	if !ok {
		return c.GetRun(ctx, id)
	}

	r, err := h.Wait(ctx)
	run := fromInternalRun(r)
	return &run, err
}

// CancelRun fails a running run.
//
// Returns [ErrNotRunning] if the run is not running.
func (c *Client) CancelRun(ctx context.Context, id string) error {
	if err := c.tracker.Cancel(id); err != nil {
		return mapError(err)
	}

	c.logger.WithCtxValues(ctx).Infof("Run %s cancelled", id)
	return nil
}

// CurrentRun returns the latest run of the kind started by this client, if any.
func (c *Client) CurrentRun(kind OperationKind) (*Run, bool) {
	r, ok := c.tracker.CurrentRun(model.OperationKind(kind))
	if !ok {
		return nil, false
	}

	run := fromInternalRun(r)
	return &run, true
}

// GetRun returns a run from the history.
//
// Returns [ErrNotFound] if the run does not exist.
func (c *Client) GetRun(ctx context.Context, id string) (*Run, error) {
	r, err := c.repo.GetRun(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	run := fromInternalRun(*r)
	return &run, nil
}

// ListRuns lists the run history, newest first.
func (c *Client) ListRuns(ctx context.Context, opts ListRunsOpts) ([]Run, error) {
	if opts.Limit < 0 {
		return nil, mapError(fmt.Errorf("limit can't be negative: %w", model.ErrNotValid))
	}

	runs, err := c.repo.ListRuns(ctx, storage.ListRunsOpts{
		Kind:  model.OperationKind(opts.Kind),
		Limit: opts.Limit,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalRunList(runs), nil
}
