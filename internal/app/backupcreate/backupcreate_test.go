package backupcreate_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dicedefense/dice/internal/app/backupcreate"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/tracker"
)

func newTracker(t *testing.T, step float64) *tracker.Tracker {
	t.Helper()
	trk, err := tracker.New(tracker.Config{
		TickInterval: time.Millisecond,
		Stepper:      tracker.FixedStepper(step),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = trk.Close() })
	return trk
}

func TestNewService(t *testing.T) {
	_, err := backupcreate.NewService(backupcreate.ServiceConfig{})
	assert.Error(t, err)
}

func TestServiceRun(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

	tests := map[string]struct {
		req     backupcreate.Request
		expName string
		expErr  error
	}{
		"Backup without name should use the default manual name.": {
			req:     backupcreate.Request{},
			expName: "Manual_Backup_2024-01-15",
		},

		"Backup with name should keep it trimmed.": {
			req:     backupcreate.Request{Name: "  pre-upgrade  "},
			expName: "pre-upgrade",
		},

		"Backup with a too long name should fail.": {
			req:    backupcreate.Request{Name: strings.Repeat("a", 200)},
			expErr: model.ErrNotValid,
		},

		"Backup with path separators on the name should fail.": {
			req:    backupcreate.Request{Name: "../etc/passwd"},
			expErr: model.ErrNotValid,
		},

		"Backup with spaces on the name should fail.": {
			req:    backupcreate.Request{Name: "pre upgrade"},
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			svc, err := backupcreate.NewService(backupcreate.ServiceConfig{
				Tracker: newTracker(t, 25),
				Now:     func() time.Time { return now },
			})
			require.NoError(err)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			run, err := svc.Run(ctx, test.req)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
				return
			}
			require.NoError(err)
			assert.Equal(test.expName, run.Name)
			assert.Equal(model.OperationKindBackup, run.Kind)
			assert.Equal(model.RunStateCompleted, run.State)
			assert.Equal(100.0, run.Progress)
		})
	}
}

func TestServiceRunInterruptedShouldCancelRun(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	trk := newTracker(t, 0)
	svc, err := backupcreate.NewService(backupcreate.ServiceConfig{Tracker: trk})
	require.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = svc.Run(ctx, backupcreate.Request{})
	assert.ErrorIs(err, context.DeadlineExceeded)

	run, ok := trk.CurrentRun(model.OperationKindBackup)
	require.True(ok)
	assert.Equal(model.RunStateFailed, run.State)
}

func TestServiceRunWhileRunningShouldFail(t *testing.T) {
	require := require.New(t)

	trk := newTracker(t, 0)
	_, err := trk.Start(context.Background(), model.OperationKindBackup, "other")
	require.NoError(err)

	svc, err := backupcreate.NewService(backupcreate.ServiceConfig{Tracker: trk})
	require.NoError(err)

	_, err = svc.Run(context.Background(), backupcreate.Request{})
	assert.ErrorIs(t, err, model.ErrAlreadyRunning)
}
