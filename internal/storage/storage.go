package storage

import (
	"context"

	"github.com/dicedefense/dice/internal/model"
)

// ListRunsOpts are the options to filter listed runs.
type ListRunsOpts struct {
	// Kind filters by operation kind, empty means all.
	Kind model.OperationKind
	// Limit caps the number of runs returned, 0 means no limit.
	Limit int
}

// RunRepository is the interface for operation run history persistence.
type RunRepository interface {
	// SaveRun creates or replaces a run snapshot.
	SaveRun(ctx context.Context, r model.OperationRun) error
	GetRun(ctx context.Context, id string) (*model.OperationRun, error)
	// ListRuns returns the runs newest first.
	ListRuns(ctx context.Context, opts ListRunsOpts) ([]model.OperationRun, error)
	DeleteRun(ctx context.Context, id string) error
}

// FixtureRepository is the read-only source of the console sample data.
type FixtureRepository interface {
	ListBackups(ctx context.Context) ([]model.Backup, error)
	GetBackup(ctx context.Context, id string) (*model.Backup, error)
	ListTrainingFiles(ctx context.Context) ([]model.TrainingFile, error)
	GetModelStats(ctx context.Context) (*model.ModelStats, error)
	ListDetections(ctx context.Context) ([]model.Detection, error)
	// ListTraffic returns the traffic samples oldest first.
	ListTraffic(ctx context.Context) ([]model.TrafficSample, error)
	// ListTopIPs returns the source addresses busiest first.
	ListTopIPs(ctx context.Context) ([]model.TopIP, error)
	GetSystemStats(ctx context.Context) (*model.SystemStats, error)
	// ListLogs returns the security log newest first.
	ListLogs(ctx context.Context) ([]model.LogEntry, error)
}
