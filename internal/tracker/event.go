package tracker

import (
	"context"

	"github.com/dicedefense/dice/internal/model"
)

// EventType is the type of a run event.
type EventType string

const (
	EventStarted    EventType = "started"
	EventProgressed EventType = "progressed"
	EventCompleted  EventType = "completed"
	EventFailed     EventType = "failed"
)

// Event is a run state change notification.
type Event struct {
	Type EventType
	Run  model.OperationRun
}

// Listener receives run events.
type Listener interface {
	OnEvent(ctx context.Context, e Event)
}

// ListenerFunc is a helper to use functions as listeners.
type ListenerFunc func(ctx context.Context, e Event)

// OnEvent satisfies Listener interface.
func (f ListenerFunc) OnEvent(ctx context.Context, e Event) { f(ctx, e) }
