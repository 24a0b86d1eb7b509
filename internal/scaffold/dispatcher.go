package scaffold

import (
	"context"
	"errors"
)

// Event is emitted after each processed step.
type Event struct {
	Step       StepKind
	Result     *BuildResult
	Successful bool
}

type Listener interface {
	Handle(ctx context.Context, ev Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, ev Event) error

func (f ListenerFunc) Handle(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Dispatcher calls listeners in the order they were given.
type Dispatcher struct {
	listeners []Listener
}

func NewDispatcher(listeners ...Listener) *Dispatcher {
	return &Dispatcher{listeners: listeners}
}

// Dispatch calls every listener even when an earlier one fails.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	var errs []error
	for _, l := range d.listeners {
		if err := l.Handle(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
