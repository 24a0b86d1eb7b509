package listeners

import (
	"context"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/errorx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/logx"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
	"github.com/iflowkit/iflowkit-scaffold/internal/prompt"
	"github.com/iflowkit/iflowkit-scaffold/internal/scaffold"
)

// InitializeRepository initializes a local Git repository in the written
// directory once files are mirrored, but only after a remote repository was
// created or found.
type InitializeRepository struct {
	io  *prompt.IO
	git LocalInitializer
	lg  *logx.Logger
}

func NewInitializeRepository(io *prompt.IO, git LocalInitializer, lg *logx.Logger) *InitializeRepository {
	if lg == nil {
		lg = logx.Nop()
	}
	return &InitializeRepository{io: io, git: git, lg: lg}
}

func (l *InitializeRepository) Handle(ctx context.Context, ev scaffold.Event) (err error) {
	if ev.Step != scaffold.StepMirrorProcessedFiles || !ev.Successful || ev.Result == nil {
		return nil
	}
	in := ev.Result.Instructions
	if in == nil || in.Provisioning == nil || in.Provisioning.Outcome == models.Failed ||
		in.Provisioning.Repository.Name() == "" || !l.git.IsAvailable() {
		return nil
	}
	defer errorx.WrapIfErr(&err, "initialize repository")

	repo := in.Provisioning.Repository
	in.Provisioning = nil

	l.io.NewLine()
	ok, err := l.io.AskYesNo("Should we initialize a local Git repository?", true)
	if err != nil || !ok {
		return err
	}

	l.io.Progress("Initializing local repository...")
	out, err := l.git.InitializeRepository(ctx, repo, ev.Result.WrittenDirectory)
	if err != nil {
		l.io.Failed()
		return err
	}
	if out == models.Initialized {
		l.io.Done()
	} else {
		l.io.Failed()
	}
	l.lg.Info("local repository", logx.F("dir", ev.Result.WrittenDirectory), logx.F("outcome", out.String()))
	return nil
}
