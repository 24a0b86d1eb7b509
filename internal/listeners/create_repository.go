package listeners

import (
	"context"
	"fmt"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/errorx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/logx"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
	"github.com/iflowkit/iflowkit-scaffold/internal/prompt"
	"github.com/iflowkit/iflowkit-scaffold/internal/scaffold"
)

const (
	VarOwner       = "repository.owner"
	VarName        = "repository.name"
	VarURL         = "repository.url"
	VarDescription = "package.description"
	VarCodeClimate = "ci.codeclimate"
	VarCoveralls   = "ci.coveralls"
)

type coverageTarget struct {
	provider Provider
	toggle   string
}

// CreateRepository creates the GitHub repository once build instructions are
// collected and optionally registers it with coverage services.
type CreateRepository struct {
	io       *prompt.IO
	auth     Authenticator
	hosting  Provider
	coverage []coverageTarget
	lg       *logx.Logger
}

func NewCreateRepository(io *prompt.IO, auth Authenticator, hosting, codeClimate, coveralls Provider, lg *logx.Logger) *CreateRepository {
	if lg == nil {
		lg = logx.Nop()
	}
	return &CreateRepository{
		io:      io,
		auth:    auth,
		hosting: hosting,
		coverage: []coverageTarget{
			{provider: codeClimate, toggle: VarCodeClimate},
			{provider: coveralls, toggle: VarCoveralls},
		},
		lg: lg,
	}
}

func (l *CreateRepository) Handle(ctx context.Context, ev scaffold.Event) (err error) {
	if ev.Step != scaffold.StepCollectBuildInstructions || !ev.Successful || ev.Result == nil {
		return nil
	}
	defer errorx.WrapIfErr(&err, "create repository")
	in := ev.Result.Instructions

	l.io.NewLine()
	ok, err := l.io.AskYesNo("Should we create a new GitHub repository for you?", true)
	if err != nil || !ok {
		return err
	}

	repo, err := l.repository(in)
	if err != nil {
		return err
	}

	out, err := l.createHosting(ctx, repo)
	if err != nil {
		return err
	}
	in.Provisioning = &scaffold.ProvisioningResult{Repository: repo, Outcome: out}
	defer func() {
		if err != nil {
			in.Provisioning = nil
		}
	}()
	l.lg.Info("repository provisioned", logx.F("repo", repo.FullName()), logx.F("outcome", out.String()))

	if out == models.Failed {
		return nil
	}
	for _, target := range l.coverage {
		if err := l.register(ctx, in, repo, target); err != nil {
			return err
		}
	}
	return nil
}

func (l *CreateRepository) repository(in *scaffold.Instructions) (models.Repository, error) {
	owner, err := requiredString(in, VarOwner)
	if err != nil {
		return models.Repository{}, err
	}
	name, err := requiredString(in, VarName)
	if err != nil {
		return models.Repository{}, err
	}
	rawURL, err := requiredString(in, VarURL)
	if err != nil {
		return models.Repository{}, err
	}
	description := ""
	if _, present := in.Variable(VarDescription); present {
		d, ok := in.StringVariable(VarDescription)
		if !ok {
			return models.Repository{}, fmt.Errorf("%w: %s must be a string", ErrInvalidTemplateVariable, VarDescription)
		}
		description = d
	}

	private, err := l.io.AskYesNo("Do you wish to keep the repository private for now?", false)
	if err != nil {
		return models.Repository{}, err
	}

	repo, err := models.NewRepository(owner, name, rawURL, description, private)
	if err != nil {
		return models.Repository{}, fmt.Errorf("%w: %v", ErrInvalidTemplateVariable, err)
	}
	return repo, nil
}

func (l *CreateRepository) createHosting(ctx context.Context, repo models.Repository) (models.CreateOutcome, error) {
	if err := authorize(l.auth, l.hosting); err != nil {
		return models.Failed, err
	}
	l.io.Progress(fmt.Sprintf("Creating new %s repository...", l.hosting.Name()))
	out, err := l.hosting.Create(ctx, repo)
	if err != nil {
		l.io.Failed()
		return models.Failed, err
	}
	render(l.io, out)
	return out, nil
}

// register skips disabled services and private repositories without asking.
func (l *CreateRepository) register(ctx context.Context, in *scaffold.Instructions, repo models.Repository, target coverageTarget) error {
	if target.provider == nil || !in.BoolVariable(target.toggle) || repo.Private() {
		l.lg.Debug("coverage registration skipped", logx.F("toggle", target.toggle), logx.F("private", repo.Private()))
		return nil
	}
	p := target.provider

	l.io.NewLine()
	ok, err := l.io.AskYesNo(fmt.Sprintf("Should we initialize %s?", p.Name()), true)
	if err != nil || !ok {
		return err
	}
	if err := authorize(l.auth, p); err != nil {
		return err
	}

	l.io.Progress(fmt.Sprintf("Initializing %s...", p.Name()))
	out, err := p.Create(ctx, repo)
	if err != nil {
		l.io.Failed()
		return err
	}
	render(l.io, out)
	l.lg.Info("coverage registration", logx.F("service", p.Name()), logx.F("outcome", out.String()))
	return nil
}

func requiredString(in *scaffold.Instructions, key string) (string, error) {
	s, ok := in.StringVariable(key)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidTemplateVariable, key)
	}
	return s, nil
}
