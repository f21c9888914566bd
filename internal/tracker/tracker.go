// Package tracker drives simulated long-running operations (backups, model
// training...) as progress state machines ticked by a periodic timer.
//
// There is at most one running run per operation kind (the slot). A run
// starts at 0, advances by a [Stepper] increment on every tick and completes
// when it reaches 100. Completed and failed runs are terminal: ticks on them
// are no-ops and their timers are torn down as soon as they transition.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
)

// DefaultTickInterval is the period between progress ticks.
const DefaultTickInterval = 500 * time.Millisecond

// Ticker is the timer source of a run.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// Config is the configuration of the tracker.
type Config struct {
	// TickInterval is the fixed period between ticks of a running run.
	TickInterval time.Duration
	// Stepper decides the progress increment of each tick.
	Stepper Stepper
	// NewTicker creates the timer of each run, by default a [time.Ticker].
	NewTicker func(d time.Duration) Ticker
	// Listeners receive the run events in order. They must not call
	// Start, Tick, Cancel or Close.
	Listeners []Listener
	// IDGenerator returns new run IDs, by default ULIDs.
	IDGenerator func() string
	// Now returns the current time.
	Now    func() time.Time
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("tick interval can't be negative")
	}

	if c.Stepper == nil {
		c.Stepper = NewRandomStepper(DefaultMaxStep)
	}

	if c.NewTicker == nil {
		c.NewTicker = func(d time.Duration) Ticker { return timeTicker{t: time.NewTicker(d)} }
	}

	if c.IDGenerator == nil {
		c.IDGenerator = func() string { return ulid.Make().String() }
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "tracker.Tracker"})

	return nil
}

type runState struct {
	run  model.OperationRun
	done chan struct{}
}

// Tracker tracks simulated operation runs, one running run per kind at most.
// A Tracker is safe for concurrent use.
type Tracker struct {
	cfg    Config
	logger log.Logger

	mu      sync.Mutex
	slots   map[model.OperationKind]*runState
	runs    map[string]*runState
	pending []Event
	closed  bool

	notifyMu sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New returns a new tracker.
func New(cfg Config) (*Tracker, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Tracker{
		cfg:    cfg,
		logger: cfg.Logger,
		slots:  map[model.OperationKind]*runState{},
		runs:   map[string]*runState{},
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start creates a new running run of the kind and starts ticking it.
// If the kind slot already has a running run it fails with model.ErrAlreadyRunning
// and the slot is left untouched. A terminal run in the slot is superseded.
func (t *Tracker) Start(ctx context.Context, kind model.OperationKind, name string) (*Handle, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, fmt.Errorf("tracker is closed: %w", model.ErrNotValid)
	}

	if current, ok := t.slots[kind]; ok {
		if !current.run.State.IsTerminal() {
			t.mu.Unlock()
			return nil, fmt.Errorf("%s run %s: %w", kind, current.run.ID, model.ErrAlreadyRunning)
		}
		delete(t.runs, current.run.ID)
	}

	rs := &runState{
		run: model.OperationRun{
			ID:        t.cfg.IDGenerator(),
			Kind:      kind,
			Name:      name,
			Progress:  0,
			State:     model.RunStateRunning,
			StartedAt: t.cfg.Now().UTC(),
		},
		done: make(chan struct{}),
	}
	t.slots[kind] = rs
	t.runs[rs.run.ID] = rs
	t.pending = append(t.pending, Event{Type: EventStarted, Run: rs.run})

	ticker := t.cfg.NewTicker(t.cfg.TickInterval)
	t.wg.Add(1)
	go t.tickLoop(rs.run.ID, rs.done, ticker)
	t.mu.Unlock()

	t.logger.WithCtxValues(ctx).Infof("Started %s run %s", kind, rs.run.ID)
	t.flush()

	return &Handle{id: rs.run.ID, rs: rs, tracker: t}, nil
}

func (t *Tracker) tickLoop(id string, done <-chan struct{}, ticker Ticker) {
	defer t.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			// A tick and the terminal transition can be ready at the same time.
			select {
			case <-done:
				return
			default:
			}

			if _, err := t.Tick(id); err != nil {
				if !errors.Is(err, model.ErrNotFound) {
					t.logger.Warningf("Could not tick run %s: %s", id, err)
				}
				return
			}
		}
	}
}

// Tick advances the progress of a running run. When the progress reaches 100
// the run completes and its timer is stopped. Ticks on terminal runs don't
// change anything.
func (t *Tracker) Tick(runID string) (model.OperationRun, error) {
	t.mu.Lock()
	rs, ok := t.runs[runID]
	if !ok {
		t.mu.Unlock()
		return model.OperationRun{}, fmt.Errorf("run %s: %w", runID, model.ErrNotFound)
	}

	if rs.run.State.IsTerminal() {
		run := rs.run
		t.mu.Unlock()
		return run, nil
	}

	step := t.cfg.Stepper.Step()
	if step < 0 || math.IsNaN(step) {
		step = 0
	}

	rs.run.Progress += step
	if rs.run.Progress >= model.ProgressMax {
		rs.run.Progress = model.ProgressMax
		t.finish(rs, model.RunStateCompleted)
		t.pending = append(t.pending, Event{Type: EventCompleted, Run: rs.run})
		t.logger.Infof("Completed %s run %s", rs.run.Kind, rs.run.ID)
	} else {
		t.pending = append(t.pending, Event{Type: EventProgressed, Run: rs.run})
	}
	run := rs.run
	t.mu.Unlock()

	t.flush()
	return run, nil
}

// Cancel fails a running run and stops its timer. If the run is not
// running it returns model.ErrNotRunning.
func (t *Tracker) Cancel(runID string) error {
	t.mu.Lock()
	rs, ok := t.runs[runID]
	if !ok || rs.run.State != model.RunStateRunning {
		t.mu.Unlock()
		return fmt.Errorf("run %s: %w", runID, model.ErrNotRunning)
	}

	t.finish(rs, model.RunStateFailed)
	t.pending = append(t.pending, Event{Type: EventFailed, Run: rs.run})
	t.mu.Unlock()

	t.logger.Infof("Cancelled %s run %s", rs.run.Kind, runID)
	t.flush()
	return nil
}

// CurrentRun returns a snapshot of the run that occupies the kind slot.
func (t *Tracker) CurrentRun(kind model.OperationKind) (model.OperationRun, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rs, ok := t.slots[kind]
	if !ok {
		return model.OperationRun{}, false
	}
	return rs.run, true
}

// Close fails all the running runs, stops their timers and waits until
// every tick loop has finished. Starting runs after closing fails.
func (t *Tracker) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	for _, rs := range t.slots {
		if rs.run.State.IsTerminal() {
			continue
		}
		t.finish(rs, model.RunStateFailed)
		t.pending = append(t.pending, Event{Type: EventFailed, Run: rs.run})
		t.logger.Warningf("Tearing down %s run %s", rs.run.Kind, rs.run.ID)
	}
	t.mu.Unlock()

	t.flush()
	t.wg.Wait()
	t.cancel()

	return nil
}

// finish must be called with the lock held.
func (t *Tracker) finish(rs *runState, state model.RunState) {
	now := t.cfg.Now().UTC()
	rs.run.State = state
	rs.run.FinishedAt = &now
	close(rs.done)
}

// flush delivers the pending events in the order they were produced.
func (t *Tracker) flush() {
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	for {
		t.mu.Lock()
		events := t.pending
		t.pending = nil
		t.mu.Unlock()

		if len(events) == 0 {
			return
		}

		for _, e := range events {
			for _, l := range t.cfg.Listeners {
				l.OnEvent(t.ctx, e)
			}
		}
	}
}

func (t *Tracker) snapshot(rs *runState) model.OperationRun {
	t.mu.Lock()
	defer t.mu.Unlock()
	return rs.run
}
