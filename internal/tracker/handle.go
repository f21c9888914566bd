package tracker

import (
	"context"

	"github.com/dicedefense/dice/internal/model"
)

// Handle is the task handle of a started run.
type Handle struct {
	id      string
	rs      *runState
	tracker *Tracker
}

// ID returns the run ID.
func (h *Handle) ID() string { return h.id }

// Run returns the latest snapshot of the run, it keeps working after the run
// has been superseded.
func (h *Handle) Run() model.OperationRun { return h.tracker.snapshot(h.rs) }

// Done returns a channel that is closed when the run reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.rs.done }

// Cancel cancels the run, see [Tracker.Cancel].
func (h *Handle) Cancel() error { return h.tracker.Cancel(h.id) }

// Wait blocks until the run is terminal or the context is done.
func (h *Handle) Wait(ctx context.Context) (model.OperationRun, error) {
	select {
	case <-h.rs.done:
		return h.Run(), nil
	case <-ctx.Done():
		return h.Run(), ctx.Err()
	}
}
