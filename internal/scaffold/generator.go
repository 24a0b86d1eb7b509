package scaffold

import (
	"context"
	"errors"
	"fmt"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/logx"
)

// Step is one stage of a build.
type Step interface {
	Kind() StepKind
	Run(ctx context.Context, result *BuildResult) error
}

// Generator runs steps in order and dispatches an Event after each one.
type Generator struct {
	steps      []Step
	dispatcher *Dispatcher
	lg         *logx.Logger
}

func NewGenerator(d *Dispatcher, lg *logx.Logger, steps ...Step) *Generator {
	if d == nil {
		d = NewDispatcher()
	}
	if lg == nil {
		lg = logx.Nop()
	}
	return &Generator{steps: steps, dispatcher: d, lg: lg}
}

// Run builds a project from instructions. A failing step stops the build and
// its event is still dispatched with Successful set to false. Listener errors
// do not stop the build; they are returned joined once all steps ran.
func (g *Generator) Run(ctx context.Context, in *Instructions) (*BuildResult, error) {
	result := &BuildResult{Instructions: in}
	var listenerErrs []error

	for _, step := range g.steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		g.lg.Debug("step started", logx.F("step", step.Kind().String()))

		stepErr := step.Run(ctx, result)
		ev := Event{Step: step.Kind(), Result: result, Successful: stepErr == nil}
		if err := g.dispatcher.Dispatch(ctx, ev); err != nil {
			g.lg.Warn("listener failed", logx.F("step", step.Kind().String()), logx.F("error", err.Error()))
			listenerErrs = append(listenerErrs, err)
		}

		if stepErr != nil {
			g.lg.Error("step failed", logx.F("step", step.Kind().String()), logx.F("error", stepErr.Error()))
			return result, errors.Join(append([]error{fmt.Errorf("%s: %w", step.Kind(), stepErr)}, listenerErrs...)...)
		}
		g.lg.Debug("step finished", logx.F("step", step.Kind().String()))
	}
	return result, errors.Join(listenerErrs...)
}
