package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
	"github.com/dicedefense/dice/internal/storage/memory"
)

func newRepo(t *testing.T) *memory.Repository {
	t.Helper()
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)
	return repo
}

func TestSaveAndGetRun(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	end := time.Date(2024, 1, 15, 14, 30, 28, 0, time.UTC)

	run := model.OperationRun{
		ID:         "r1",
		Kind:       model.OperationKindBackup,
		Progress:   100,
		State:      model.RunStateCompleted,
		StartedAt:  end.Add(-3 * time.Second),
		FinishedAt: &end,
	}
	require.NoError(t, repo.SaveRun(ctx, run))

	// Mutating the saved value should not change the stored one.
	*run.FinishedAt = end.Add(time.Hour)

	got, err := repo.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, end, *got.FinishedAt)
	assert.Equal(t, model.RunStateCompleted, got.State)

	_, err = repo.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSaveRunInvalid(t *testing.T) {
	repo := newRepo(t)

	err := repo.SaveRun(context.Background(), model.OperationRun{Kind: model.OperationKindBackup, State: model.RunStateRunning})
	assert.ErrorIs(t, err, model.ErrNotValid)
}

func TestListRuns(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		opts   storage.ListRunsOpts
		expIDs []string
	}{
		"All runs newest first.": {
			expIDs: []string{"r3", "r2", "r1"},
		},

		"Filter by kind.": {
			opts:   storage.ListRunsOpts{Kind: model.OperationKindBackup},
			expIDs: []string{"r3", "r1"},
		},

		"Limit results.": {
			opts:   storage.ListRunsOpts{Limit: 1},
			expIDs: []string{"r3"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			for i, kind := range []model.OperationKind{model.OperationKindBackup, model.OperationKindTraining, model.OperationKindBackup} {
				require.NoError(t, repo.SaveRun(ctx, model.OperationRun{
					ID:        []string{"r1", "r2", "r3"}[i],
					Kind:      kind,
					State:     model.RunStateRunning,
					StartedAt: base.Add(time.Duration(i) * time.Minute),
				}))
			}

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

func TestDeleteRun(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.SaveRun(ctx, model.OperationRun{ID: "r1", Kind: model.OperationKindTraining, State: model.RunStateFailed}))
	require.NoError(t, repo.DeleteRun(ctx, "r1"))
	assert.ErrorIs(t, repo.DeleteRun(ctx, "r1"), model.ErrNotFound)
}
