package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
	"github.com/dicedefense/dice/internal/storage/sqlite"
)

func runCLI(t *testing.T, dbPath string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	all := append([]string{"dice", "--no-log", "--db-path", dbPath}, args...)
	err := Run(context.Background(), all, strings.NewReader(""), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunFixtureCommands(t *testing.T) {
	tests := map[string]struct {
		args   []string
		expOut []string
		expErr bool
	}{
		"Backup list should show the bundled backups.": {
			args:   []string{"backup", "list"},
			expOut: []string{"System_Full_Backup_20240115", "Auto_Backup_20240115_12"},
		},

		"Backup list with an invalid type should fail.": {
			args:   []string{"backup", "list", "--type", "weekly"},
			expErr: true,
		},

		"Detections with a min risk should filter the log.": {
			args:   []string{"detections", "--min-risk", "critical"},
			expOut: []string{"192.168.1.45"},
		},

		"Network should show the traffic and the top IPs.": {
			args:   []string{"network"},
			expOut: []string{"Current RPS:  967", "Peak RPS:     5,643", "192.168.1.45", "Canada"},
		},

		"Network with a min risk and top should filter the IPs.": {
			args:   []string{"network", "--min-risk", "high", "--top", "1", "--format", "json"},
			expOut: []string{`"ip": "192.168.1.45"`},
		},

		"Network with an invalid risk should fail.": {
			args:   []string{"network", "--min-risk", "extreme"},
			expErr: true,
		},

		"Dashboard should show the system stats and the logs.": {
			args:   []string{"dashboard"},
			expOut: []string{"Threats blocked:     1,247", "Uptime:              99.98%", "DDoS attack detected - UDP flood"},
		},

		"Dashboard with negative logs should fail.": {
			args:   []string{"dashboard", "--logs", "-1"},
			expErr: true,
		},

		"Training files should show the model stats.": {
			args:   []string{"training", "files"},
			expOut: []string{"Accuracy:", "PCAP"},
		},

		"Restore without password should fail.": {
			args:   []string{"backup", "restore", "1"},
			expErr: true,
		},

		"Restore of an existing backup should print it.": {
			args:   []string{"backup", "restore", "1", "--master-password", "s3cr3t"},
			expOut: []string{"Restored backup:", "System_Full_Backup_20240115"},
		},

		"Backup schedule with an invalid cron should fail.": {
			args:   []string{"backup", "schedule", "--cron", "every day"},
			expErr: true,
		},

		"Unknown run status should fail.": {
			args:   []string{"run", "status", "missing"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("DICE_MASTER_PASSWORD", "")
			dbPath := filepath.Join(t.TempDir(), "dice.db")

			out, _, err := runCLI(t, dbPath, test.args...)
			if test.expErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			for _, exp := range test.expOut {
				assert.Contains(t, out, exp)
			}
		})
	}
}

func TestRunTrainRecordsHistory(t *testing.T) {
	require := require.New(t)
	dbPath := filepath.Join(t.TempDir(), "dice.db")

	out, stderr, err := runCLI(t, dbPath, "train", "--sensitivity", "high", "--tick-interval", "1ms")
	require.NoError(err)
	assert.Contains(t, out, "Model training completed: high-sensitivity")
	assert.Contains(t, stderr, "100% training done")

	out, _, err = runCLI(t, dbPath, "run", "list", "--format", "json")
	require.NoError(err)

	var runs []struct {
		ID       string  `json:"id"`
		Kind     string  `json:"kind"`
		State    string  `json:"state"`
		Progress float64 `json:"progress"`
	}
	require.NoError(json.Unmarshal([]byte(out), &runs))
	require.Len(runs, 1)
	assert.Equal(t, "training", runs[0].Kind)
	assert.Equal(t, "completed", runs[0].State)
	assert.Equal(t, 100.0, runs[0].Progress)

	out, _, err = runCLI(t, dbPath, "run", "status", runs[0].ID)
	require.NoError(err)
	assert.Contains(t, out, "State:      completed")
}

func TestRunNetworkTopShouldCapIPs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dice.db")

	out, _, err := runCLI(t, dbPath, "network", "--min-risk", "high", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "192.168.1.45")
	assert.NotContains(t, out, "192.0.2.146")
}

func TestRunRestoreWhileBackupRecordedAsRunning(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "dice.db")

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: dbPath})
	require.NoError(err)
	defer repo.Close()

	running := model.OperationRun{
		ID:        "01HMBQWERTYASDFGZXCVBNMLKJ",
		Kind:      model.OperationKindBackup,
		Name:      "Manual_Backup_2024-01-15",
		State:     model.RunStateRunning,
		Progress:  40,
		StartedAt: time.Now().UTC(),
	}
	require.NoError(repo.SaveRun(ctx, running))

	_, _, err = runCLI(t, dbPath, "backup", "restore", "1", "--master-password", "s3cr3t")
	require.Error(err)
	assert.ErrorIs(t, err, model.ErrAlreadyRunning)

	finishedAt := time.Now().UTC()
	running.State = model.RunStateCompleted
	running.Progress = 100
	running.FinishedAt = &finishedAt
	require.NoError(repo.SaveRun(ctx, running))

	out, _, err := runCLI(t, dbPath, "backup", "restore", "1", "--master-password", "s3cr3t")
	require.NoError(err)
	assert.Contains(t, out, "Restored backup:")
}

func TestRunTrainInterruptedRecordsFailedRun(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "dice.db")

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: dbPath})
	require.NoError(err)
	defer repo.Close()

	// The context plays the role of SIGINT, both end the command context.
	cmdCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		var stdout, stderr bytes.Buffer
		args := []string{"dice", "--no-log", "--db-path", dbPath, "train", "--tick-interval", "1h"}
		_ = Run(cmdCtx, args, strings.NewReader(""), &stdout, &stderr)
	}()

	require.Eventually(func() bool {
		runs, err := repo.ListRuns(ctx, storage.ListRunsOpts{Kind: model.OperationKindTraining})
		return err == nil && len(runs) == 1 && runs[0].State == model.RunStateRunning
	}, 10*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("train command did not stop after the context ended")
	}

	out, _, err := runCLI(t, dbPath, "run", "list", "--format", "json")
	require.NoError(err)

	var runs []struct {
		Kind       string     `json:"kind"`
		State      string     `json:"state"`
		Progress   float64    `json:"progress"`
		FinishedAt *time.Time `json:"finished_at"`
	}
	require.NoError(json.Unmarshal([]byte(out), &runs))
	require.Len(runs, 1)
	assert.Equal(t, "training", runs[0].Kind)
	assert.Equal(t, "failed", runs[0].State)
	assert.Equal(t, 0.0, runs[0].Progress)
	assert.NotNil(t, runs[0].FinishedAt)
}
