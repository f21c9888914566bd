package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dicedefense/dice/internal/model"
)

func TestRunStateIsTerminal(t *testing.T) {
	tests := map[string]struct {
		state model.RunState
		exp   bool
	}{
		"Idle is not terminal": {
			state: model.RunStateIdle,
			exp:   false,
		},

		"Running is not terminal": {
			state: model.RunStateRunning,
			exp:   false,
		},

		"Completed is terminal": {
			state: model.RunStateCompleted,
			exp:   true,
		},

		"Failed is terminal": {
			state: model.RunStateFailed,
			exp:   true,
		},

		"Unknown is not terminal": {
			state: model.RunState("paused"),
			exp:   false,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, test.state.IsTerminal())
		})
	}
}

func TestRunStateValidate(t *testing.T) {
	assert.NoError(t, model.RunStateRunning.Validate())

	err := model.RunState("paused").Validate()
	assert.True(t, errors.Is(err, model.ErrNotValid))
}

func TestOperationKindValidate(t *testing.T) {
	assert.NoError(t, model.OperationKindBackup.Validate())
	assert.NoError(t, model.OperationKind("reindex").Validate())
	assert.ErrorIs(t, model.OperationKind("").Validate(), model.ErrNotValid)
}

func TestOperationRunPercent(t *testing.T) {
	tests := map[string]struct {
		progress float64
		exp      int
	}{
		"Zero progress": {
			progress: 0,
			exp:      0,
		},

		"Negative progress": {
			progress: -3,
			exp:      0,
		},

		"Partial progress floors": {
			progress: 42.9,
			exp:      42,
		},

		"Full progress": {
			progress: 100,
			exp:      100,
		},

		"Overflow clamps": {
			progress: 105,
			exp:      100,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			r := model.OperationRun{Progress: test.progress}
			assert.Equal(t, test.exp, r.Percent())
		})
	}
}

func TestOperationRunDuration(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	end := start.Add(3 * time.Second)
	now := start.Add(10 * time.Second)

	assert.Equal(t, time.Duration(0), model.OperationRun{}.Duration(now))
	assert.Equal(t, 10*time.Second, model.OperationRun{StartedAt: start}.Duration(now))
	assert.Equal(t, 3*time.Second, model.OperationRun{StartedAt: start, FinishedAt: &end}.Duration(now))
}
