package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
	"github.com/dicedefense/dice/internal/storage/sqlite"
)

func runFixture(id string, kind model.OperationKind, startedAt time.Time) model.OperationRun {
	return model.OperationRun{
		ID:        id,
		Kind:      kind,
		Name:      "run " + id,
		Progress:  0,
		State:     model.RunStateRunning,
		StartedAt: startedAt,
	}
}

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestNewRepositoryMissingPath(t *testing.T) {
	_, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{})
	assert.Error(t, err)
}

func TestRepositorySaveAndGetRun(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	start := time.Date(2024, 1, 15, 14, 30, 25, 123000000, time.UTC)

	run := runFixture("01HMB", model.OperationKindBackup, start)
	require.NoError(t, repo.SaveRun(ctx, run))

	got, err := repo.GetRun(ctx, "01HMB")
	require.NoError(t, err)
	assert.Equal(t, run, *got)

	// Saving again updates the snapshot.
	end := start.Add(3 * time.Second)
	run.Progress = 100
	run.State = model.RunStateCompleted
	run.FinishedAt = &end
	require.NoError(t, repo.SaveRun(ctx, run))

	got, err = repo.GetRun(ctx, "01HMB")
	require.NoError(t, err)
	assert.Equal(t, run, *got)
}

func TestRepositorySaveRunInvalid(t *testing.T) {
	tests := map[string]struct {
		run model.OperationRun
	}{
		"Missing ID should fail.": {
			run: model.OperationRun{Kind: model.OperationKindBackup, State: model.RunStateRunning},
		},

		"Missing kind should fail.": {
			run: model.OperationRun{ID: "a", State: model.RunStateRunning},
		},

		"Unknown state should fail.": {
			run: model.OperationRun{ID: "a", Kind: model.OperationKindBackup, State: "paused"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			err := repo.SaveRun(context.Background(), test.run)
			assert.ErrorIs(t, err, model.ErrNotValid)
		})
	}
}

func TestRepositoryGetRunMissing(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryListRuns(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		opts   storage.ListRunsOpts
		expIDs []string
	}{
		"Listing without filter should return all runs newest first.": {
			opts:   storage.ListRunsOpts{},
			expIDs: []string{"r3", "r2", "r1"},
		},

		"Listing by kind should filter runs.": {
			opts:   storage.ListRunsOpts{Kind: model.OperationKindTraining},
			expIDs: []string{"r2"},
		},

		"Listing with limit should cap the result.": {
			opts:   storage.ListRunsOpts{Limit: 2},
			expIDs: []string{"r3", "r2"},
		},

		"Listing a kind without runs should return empty.": {
			opts:   storage.ListRunsOpts{Kind: "reindex"},
			expIDs: []string{},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			require.NoError(t, repo.SaveRun(ctx, runFixture("r1", model.OperationKindBackup, base)))
			require.NoError(t, repo.SaveRun(ctx, runFixture("r2", model.OperationKindTraining, base.Add(time.Minute))))
			require.NoError(t, repo.SaveRun(ctx, runFixture("r3", model.OperationKindBackup, base.Add(2*time.Minute))))

			runs, err := repo.ListRuns(ctx, test.opts)
			require.NoError(t, err)

			ids := []string{}
			for _, r := range runs {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, test.expIDs, ids)
		})
	}
}

func TestRepositoryDeleteRun(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.SaveRun(ctx, runFixture("r1", model.OperationKindBackup, time.Now().UTC())))
	require.NoError(t, repo.DeleteRun(ctx, "r1"))

	_, err := repo.GetRun(ctx, "r1")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteRun(ctx, "r1"), model.ErrNotFound)
}
