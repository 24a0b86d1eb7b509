package git

import (
	"context"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/execx"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

// CommandFactory builds commands for optional executables. *execx.Resolver satisfies it.
type CommandFactory interface {
	IsExecutable(name string) bool
	Create(parts []string) (*execx.Command, error)
}

// transport is the strategy a GitHub call goes through. It is selected once
// per call: the gh binary when it resolves, the REST API otherwise.
type transport interface {
	exists(ctx context.Context, repo models.Repository) (bool, error)
	create(ctx context.Context, repo models.Repository) (models.CreateOutcome, error)
}
