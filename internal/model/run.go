package model

import (
	"fmt"
	"time"
)

// OperationKind identifies the kind of simulated long-running operation.
type OperationKind string

const (
	// OperationKindBackup is a system backup creation.
	OperationKindBackup OperationKind = "backup"
	// OperationKindTraining is a detection model training.
	OperationKindTraining OperationKind = "training"
)

// Validate checks the kind is usable as a slot key.
func (k OperationKind) Validate() error {
	if k == "" {
		return fmt.Errorf("operation kind is required: %w", ErrNotValid)
	}
	return nil
}

// RunState represents the state of an operation run.
type RunState string

const (
	// RunStateIdle indicates the run has not started yet.
	RunStateIdle RunState = "idle"
	// RunStateRunning indicates the run is being ticked.
	RunStateRunning RunState = "running"
	// RunStateCompleted indicates the run reached 100% progress.
	RunStateCompleted RunState = "completed"
	// RunStateFailed indicates the run was cancelled.
	RunStateFailed RunState = "failed"
)

// IsTerminal returns true for states that don't accept more changes.
func (s RunState) IsTerminal() bool {
	return s == RunStateCompleted || s == RunStateFailed
}

// Validate checks the state is a known one.
func (s RunState) Validate() error {
	switch s {
	case RunStateIdle, RunStateRunning, RunStateCompleted, RunStateFailed:
		return nil
	}
	return fmt.Errorf("unknown run state %q: %w", s, ErrNotValid)
}

// ProgressMax is the progress value of a completed run.
const ProgressMax = 100.0

// OperationRun represents one invocation of a simulated long-running operation.
type OperationRun struct {
	ID         string
	Kind       OperationKind
	Name       string
	Progress   float64
	State      RunState
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Percent returns the progress as an integer percentage for rendering.
func (r OperationRun) Percent() int {
	switch {
	case r.Progress <= 0:
		return 0
	case r.Progress >= ProgressMax:
		return 100
	}
	return int(r.Progress)
}

// Duration returns how long the run took, or has been running until now.
func (r OperationRun) Duration(now time.Time) time.Duration {
	if r.StartedAt.IsZero() {
		return 0
	}
	if r.FinishedAt != nil {
		return r.FinishedAt.Sub(r.StartedAt)
	}
	return now.Sub(r.StartedAt)
}
