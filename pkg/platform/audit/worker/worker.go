package worker

import (
	"context"

	audit "htb-gateway/pkg/platform/audit"
)

// Sink persists a single event. The publisher passes its breaker-guarded
// persist path so async events get the same failure handling as sync ones.
type Sink func(ctx context.Context, event audit.Event) error

// Worker consumes audit events from a channel and persists them. A failed
// write is reported and skipped; the worker keeps draining.
type Worker struct {
	sink    Sink
	inbox   <-chan audit.Event
	onError func(audit.Event, error)
}

func NewWorker(sink Sink, inbox <-chan audit.Event, onError func(audit.Event, error)) *Worker {
	if onError == nil {
		onError = func(audit.Event, error) {}
	}
	return &Worker{sink: sink, inbox: inbox, onError: onError}
}

// Run blocks until the inbox is closed and drained, or ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.sink(ctx, event); err != nil {
				w.onError(event, err)
			}
		}
	}
}
