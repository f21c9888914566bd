package printer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/printer"
	"github.com/dicedefense/dice/internal/tracker"
)

func TestProgressPrinter(t *testing.T) {
	tests := map[string]struct {
		event  tracker.Event
		expOut string
	}{
		"Started run should render an empty bar.": {
			event: tracker.Event{
				Type: tracker.EventStarted,
				Run:  model.OperationRun{Kind: model.OperationKindBackup, State: model.RunStateRunning},
			},
			expOut: "\r  [" + strings.Repeat(" ", 40) + "]   0% backup",
		},

		"Progressed run should render a partial bar.": {
			event: tracker.Event{
				Type: tracker.EventProgressed,
				Run:  model.OperationRun{Kind: model.OperationKindTraining, Progress: 42.7, State: model.RunStateRunning},
			},
			expOut: "\r  [" + strings.Repeat("=", 16) + strings.Repeat(" ", 24) + "]  42% training",
		},

		"Completed run should render a full bar and end the line.": {
			event: tracker.Event{
				Type: tracker.EventCompleted,
				Run:  model.OperationRun{Kind: model.OperationKindBackup, Progress: 100, State: model.RunStateCompleted},
			},
			expOut: "\r  [" + strings.Repeat("=", 40) + "] 100% backup done\n",
		},

		"Failed run should end the line.": {
			event: tracker.Event{
				Type: tracker.EventFailed,
				Run:  model.OperationRun{Kind: model.OperationKindBackup, Progress: 10, State: model.RunStateFailed},
			},
			expOut: "\r  [" + strings.Repeat("=", 4) + strings.Repeat(" ", 36) + "]  10% backup failed\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p := printer.NewProgressPrinter(&buf)

			p.OnEvent(context.Background(), test.event)

			assert.Equal(t, test.expOut, buf.String())
		})
	}
}
