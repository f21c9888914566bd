package printer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/tracker"
)

const progressBarWidth = 40

// ProgressPrinter is a tracker listener that renders run progress as a text bar.
type ProgressPrinter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewProgressPrinter creates a new progress printer writing to w (usually stderr).
func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	return &ProgressPrinter{w: w}
}

// OnEvent satisfies tracker.Listener.
func (p *ProgressPrinter) OnEvent(_ context.Context, e tracker.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "\r  [%s] %3d%% %s", progressBar(e.Run), e.Run.Percent(), e.Run.Kind)

	switch e.Type {
	case tracker.EventCompleted:
		fmt.Fprintln(p.w, " done")
	case tracker.EventFailed:
		fmt.Fprintln(p.w, " failed")
	}
}

func progressBar(run model.OperationRun) string {
	filled := run.Percent() * progressBarWidth / 100
	return strings.Repeat("=", filled) + strings.Repeat(" ", progressBarWidth-filled)
}
