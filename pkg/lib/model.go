package lib

import (
	"errors"
	"time"

	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/tracker"
)

var (
	// ErrNotFound is returned when a run does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when the input is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrAlreadyRunning is returned when a run of the same kind is already running.
	ErrAlreadyRunning = errors.New("already running")
	// ErrNotRunning is returned when cancelling a run that is not running.
	ErrNotRunning = errors.New("not running")
)

// OperationKind identifies the type of long running operation.
type OperationKind string

const (
	// OperationKindBackup is a system backup creation.
	OperationKindBackup OperationKind = "backup"
	// OperationKindTraining is a detection model training.
	OperationKindTraining OperationKind = "training"
)

// RunState is the lifecycle state of a run.
//
//	running -> completed
//	running -> failed
type RunState string

const (
	RunStateIdle      RunState = "idle"
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateFailed    RunState = "failed"
)

// Sensitivity is the detection sensitivity used when training the model.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Run is a read-only snapshot of an operation run at the time of the API call.
type Run struct {
	// ID is the unique identifier (ULID) assigned at start.
	ID string
	// Kind is the type of operation.
	Kind OperationKind
	// Name is the run label (backup name or training sensitivity).
	Name string
	// Progress is in [0, 100].
	Progress float64
	// State is the lifecycle state.
	State RunState
	// StartedAt is when the run started.
	StartedAt time.Time
	// FinishedAt is when the run ended. Nil while running.
	FinishedAt *time.Time
}

// RunEventType is the type of a run event.
type RunEventType string

const (
	RunEventStarted    RunEventType = "started"
	RunEventProgressed RunEventType = "progressed"
	RunEventCompleted  RunEventType = "completed"
	RunEventFailed     RunEventType = "failed"
)

// RunEvent notifies a run state change.
type RunEvent struct {
	Type RunEventType
	Run  Run
}

// ListRunsOpts filters the run history.
type ListRunsOpts struct {
	// Kind filters by operation kind, empty means all.
	Kind OperationKind
	// Limit is the maximum number of runs returned, 0 means all.
	Limit int
}

func fromInternalRun(r model.OperationRun) Run {
	return Run{
		ID:         r.ID,
		Kind:       OperationKind(r.Kind),
		Name:       r.Name,
		Progress:   r.Progress,
		State:      RunState(r.State),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

func fromInternalRunList(rs []model.OperationRun) []Run {
	result := make([]Run, len(rs))
	for i, r := range rs {
		result[i] = fromInternalRun(r)
	}
	return result
}

func fromInternalEvent(e tracker.Event) RunEvent {
	return RunEvent{
		Type: RunEventType(e.Type),
		Run:  fromInternalRun(e.Run),
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case isInternalError(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case isInternalError(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	case isInternalError(err, model.ErrAlreadyRunning):
		return joinErrors(err, ErrAlreadyRunning)
	case isInternalError(err, model.ErrNotRunning):
		return joinErrors(err, ErrNotRunning)
	default:
		return err
	}
}

func isInternalError(err, target error) bool {
	return errors.Is(err, target)
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
