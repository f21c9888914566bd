package lib_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dicedefense/dice/pkg/lib"
)

// newTestClient creates a fast ticking client with a temp SQLite DB for test isolation.
func newTestClient(t *testing.T, cfg lib.Config) *lib.Client {
	t.Helper()

	if !cfg.InMemory && cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(t.TempDir(), "test.db")
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = time.Millisecond
	}

	client, err := lib.New(context.Background(), cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestNew(t *testing.T) {
	_, err := lib.New(context.Background(), lib.Config{InMemory: true, TickInterval: -1})
	assert.True(t, errors.Is(err, lib.ErrNotValid))
}

func TestStartBackup(t *testing.T) {
	tests := map[string]struct {
		name    string
		expName string
		expIs   error
	}{
		"Starting a backup with a name should use it.": {
			name:    "before-upgrade",
			expName: "before-upgrade",
		},

		"Starting a backup without a name should use the default one.": {
			name:    "  ",
			expName: "Manual_Backup_" + time.Now().UTC().Format("2006-01-02"),
		},

		"Starting a backup with a too long name should fail.": {
			name:  string(make([]byte, 200)),
			expIs: lib.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, lib.Config{InMemory: true})

			run, err := client.StartBackup(context.Background(), test.name)
			if test.expIs != nil {
				assert.True(t, errors.Is(err, test.expIs), "got: %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expName, run.Name)
			assert.Equal(t, lib.OperationKindBackup, run.Kind)
			assert.Equal(t, lib.RunStateRunning, run.State)
			assert.Equal(t, 0.0, run.Progress)
		})
	}
}

func TestStartTrainingTwiceShouldFail(t *testing.T) {
	client := newTestClient(t, lib.Config{InMemory: true, TickInterval: time.Hour})

	_, err := client.StartTraining(context.Background(), lib.SensitivityHigh)
	require.NoError(t, err)

	_, err = client.StartTraining(context.Background(), "")
	assert.True(t, errors.Is(err, lib.ErrAlreadyRunning))

	// Other kinds are independent.
	_, err = client.StartBackup(context.Background(), "")
	assert.NoError(t, err)
}

func TestStartTrainingInvalidSensitivity(t *testing.T) {
	client := newTestClient(t, lib.Config{InMemory: true})

	_, err := client.StartTraining(context.Background(), "extreme")
	assert.True(t, errors.Is(err, lib.ErrNotValid))
}

func TestRunLifecycle(t *testing.T) {
	require := require.New(t)

	var (
		mu     sync.Mutex
		events []lib.RunEventType
	)
	client := newTestClient(t, lib.Config{
		OnEvent: func(e lib.RunEvent) {
			mu.Lock()
			events = append(events, e.Type)
			mu.Unlock()
		},
	})
	ctx := context.Background()

	run, err := client.StartTraining(ctx, lib.SensitivityLow)
	require.NoError(err)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	run, err = client.WaitRun(ctx, run.ID)
	require.NoError(err)
	assert.Equal(t, lib.RunStateCompleted, run.State)
	assert.Equal(t, 100.0, run.Progress)
	require.NotNil(run.FinishedAt)

	current, ok := client.CurrentRun(lib.OperationKindTraining)
	require.True(ok)
	assert.Equal(t, run.ID, current.ID)

	// Recorded on the history.
	got, err := client.GetRun(ctx, run.ID)
	require.NoError(err)
	assert.Equal(t, lib.RunStateCompleted, got.State)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(events)
	assert.Equal(t, lib.RunEventStarted, events[0])
	assert.Equal(t, lib.RunEventCompleted, events[len(events)-1])
}

func TestCancelRun(t *testing.T) {
	require := require.New(t)

	client := newTestClient(t, lib.Config{TickInterval: time.Hour})
	ctx := context.Background()

	run, err := client.StartBackup(ctx, "")
	require.NoError(err)

	require.NoError(client.CancelRun(ctx, run.ID))

	got, err := client.WaitRun(ctx, run.ID)
	require.NoError(err)
	assert.Equal(t, lib.RunStateFailed, got.State)

	err = client.CancelRun(ctx, run.ID)
	assert.True(t, errors.Is(err, lib.ErrNotRunning))

	err = client.CancelRun(ctx, "missing")
	assert.True(t, errors.Is(err, lib.ErrNotRunning))
}

func TestGetRunMissing(t *testing.T) {
	client := newTestClient(t, lib.Config{InMemory: true})

	_, err := client.GetRun(context.Background(), "missing")
	assert.True(t, errors.Is(err, lib.ErrNotFound))

	_, err = client.WaitRun(context.Background(), "missing")
	assert.True(t, errors.Is(err, lib.ErrNotFound))
}

func TestListRuns(t *testing.T) {
	require := require.New(t)

	client := newTestClient(t, lib.Config{TickInterval: time.Hour})
	ctx := context.Background()

	b, err := client.StartBackup(ctx, "b1")
	require.NoError(err)
	require.NoError(client.CancelRun(ctx, b.ID))
	_, err = client.StartTraining(ctx, lib.SensitivityMedium)
	require.NoError(err)

	all, err := client.ListRuns(ctx, lib.ListRunsOpts{})
	require.NoError(err)
	assert.Len(t, all, 2)

	backups, err := client.ListRuns(ctx, lib.ListRunsOpts{Kind: lib.OperationKindBackup})
	require.NoError(err)
	require.Len(backups, 1)
	assert.Equal(t, b.ID, backups[0].ID)
	assert.Equal(t, lib.RunStateFailed, backups[0].State)

	_, err = client.ListRuns(ctx, lib.ListRunsOpts{Limit: -1})
	assert.True(t, errors.Is(err, lib.ErrNotValid))
}

func TestCloseFailsRunningRuns(t *testing.T) {
	require := require.New(t)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	client, err := lib.New(ctx, lib.Config{DBPath: dbPath, TickInterval: time.Hour})
	require.NoError(err)
	run, err := client.StartBackup(ctx, "")
	require.NoError(err)
	require.NoError(client.Close())

	// A new client sees the torn down run in the history.
	client2 := newTestClient(t, lib.Config{DBPath: dbPath})
	got, err := client2.GetRun(ctx, run.ID)
	require.NoError(err)
	assert.Equal(t, lib.RunStateFailed, got.State)
}
