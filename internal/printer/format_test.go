package printer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dicedefense/dice/internal/model"
)

func TestFormatSize(t *testing.T) {
	tests := map[string]struct {
		bytes int64
		exp   string
	}{
		"Negative sizes show as empty.": {
			bytes: -1,
			exp:   "0 B",
		},

		"Sizes below a kilobyte show in bytes.": {
			bytes: 1023,
			exp:   "1023 B",
		},

		"Small dataset file.": {
			bytes: 12582912,
			exp:   "12.0 MB",
		},

		"Configuration only backup.": {
			bytes: 256901120,
			exp:   "245.0 MB",
		},

		"Full system backup.": {
			bytes: 2576980378,
			exp:   "2.4 GB",
		},

		"Huge archives stay in terabytes.": {
			bytes: 3 * 1024 * 1024 * 1024 * 1024 * 1024,
			exp:   "3072.0 TB",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, formatSize(test.bytes))
		})
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "2.4 GB/s", formatRate(2576980378))
	assert.Equal(t, "12.4 MB/s", formatRate(13002342))
}

func TestFormatCount(t *testing.T) {
	tests := map[string]struct {
		n   int64
		exp string
	}{
		"Zero":                 {n: 0, exp: "0"},
		"Hundreds":             {n: 892, exp: "892"},
		"Thousands":            {n: 15847, exp: "15,847"},
		"Exact thousands":      {n: 1000, exp: "1,000"},
		"Millions":             {n: 1847293, exp: "1,847,293"},
		"Negative thousands":   {n: -1247, exp: "-1,247"},
		"Negative small count": {n: -12, exp: "-12"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, formatCount(test.n))
		})
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 34, 0, 0, time.UTC)

	tests := map[string]struct {
		t   time.Time
		exp string
	}{
		"A run started right now.": {
			t:   now.Add(-300 * time.Millisecond),
			exp: "just now",
		},

		"A run started seconds ago.": {
			t:   now.Add(-6 * time.Second),
			exp: "6s ago",
		},

		"A run started minutes ago.": {
			t:   now.Add(-4 * time.Minute),
			exp: "4m ago",
		},

		"A file uploaded this morning.": {
			t:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			exp: "4h ago",
		},

		"A file uploaded last week.": {
			t:   now.Add(-7 * 24 * time.Hour),
			exp: "7d ago",
		},

		"Clock skew shows as future.": {
			t:   now.Add(time.Minute),
			exp: "in the future",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, timeAgo(test.t, now))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	backupAt := time.Date(2024, 1, 15, 15, 30, 25, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "2024-01-15 14:30:25 UTC", formatTimestamp(backupAt))
}

func TestTablePrinterShouldUseItsClock(t *testing.T) {
	require := require.New(t)

	now := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	p := &TablePrinter{writer: &buf, now: func() time.Time { return now }}

	files := []model.TrainingFile{{
		ID:         "1",
		Name:       "ddos_patterns_2024.pcap",
		Format:     "PCAP",
		Status:     model.TrainingFileStatusCompleted,
		SizeBytes:  256901120,
		UploadedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}}
	require.NoError(p.PrintTrainingFiles(files, model.ModelStats{}))
	assert.Contains(t, buf.String(), "245.0 MB")
	assert.Contains(t, buf.String(), "4h ago")

	buf.Reset()
	runs := []model.OperationRun{{
		ID:        "r1",
		Kind:      model.OperationKindBackup,
		State:     model.RunStateRunning,
		Progress:  42,
		StartedAt: now.Add(-2 * time.Second),
	}}
	require.NoError(p.PrintRuns(runs))
	assert.Contains(t, buf.String(), "42%")
	assert.Contains(t, buf.String(), "2s ago")

	buf.Reset()
	require.NoError(p.PrintRun(runs[0]))
	assert.Contains(t, buf.String(), "Duration:   2s")
}
