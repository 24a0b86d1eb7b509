package git

import (
	"context"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/errorx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/logx"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

// LocalRepository initializes a working copy for a provisioned repository.
type LocalRepository struct {
	cmds CommandFactory
	lg   *logx.Logger
}

func NewLocalRepository(cmds CommandFactory, lg *logx.Logger) *LocalRepository {
	if lg == nil {
		lg = logx.Nop()
	}
	return &LocalRepository{cmds: cmds, lg: lg}
}

// IsAvailable reports whether the git executable resolves.
func (l *LocalRepository) IsAvailable() bool {
	return l.cmds.IsExecutable(GitBinary)
}

// InitializeRepository runs git init in dir and adds the SSH remote of repo as origin.
// A failed init returns InitFailed without touching dir further.
func (l *LocalRepository) InitializeRepository(ctx context.Context, repo models.Repository, dir string) (out models.InitOutcome, err error) {
	defer errorx.WrapIfErr(&err, "git.init")

	ok, err := l.run(ctx, dir, GitBinary, "init", "--initial-branch", DefaultBranch)
	if err != nil || !ok {
		return models.InitFailed, err
	}

	remote := SSHRemoteURL(repo.URL())
	ok, err = l.run(ctx, dir, GitBinary, "remote", "add", "origin", remote)
	if err != nil || !ok {
		return models.InitFailed, err
	}
	l.lg.Info("local repository initialized", logx.F("dir", dir), logx.F("remote", remote))
	return models.Initialized, nil
}

func (l *LocalRepository) run(ctx context.Context, dir string, parts ...string) (bool, error) {
	cmd, err := l.cmds.Create(parts)
	if err != nil {
		return false, err
	}
	cmd.SetDir(dir)
	if err := cmd.Run(ctx); err != nil {
		return false, err
	}
	if !cmd.Successful() {
		l.lg.Warn("git command failed", logx.F("path", cmd.Path()), logx.F("args", cmd.Args()), logx.F("exit_code", cmd.ExitCode()), logx.F("output", cmd.Output()))
	}
	return cmd.Successful(), nil
}
