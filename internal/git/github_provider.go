package git

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/errorx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/httpx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/logx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/urix"
	"github.com/iflowkit/iflowkit-scaffold/internal/credentials"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

// GitHubProvider checks for and creates GitHub repositories, through the gh
// binary when it is installed and the REST API otherwise.
type GitHubProvider struct {
	cmds    CommandFactory
	tokens  *credentials.Store
	client  httpx.Doer
	apiBase *url.URL
	lg      *logx.Logger
}

type GitHubOption func(*GitHubProvider)

func WithHTTPClient(client httpx.Doer) GitHubOption {
	return func(p *GitHubProvider) { p.client = client }
}

// WithAPIBase pins the REST API base URL instead of deriving it from the repository host.
func WithAPIBase(u *url.URL) GitHubOption {
	return func(p *GitHubProvider) { p.apiBase = u }
}

func WithLogger(lg *logx.Logger) GitHubOption {
	return func(p *GitHubProvider) { p.lg = lg }
}

func NewGitHubProvider(cmds CommandFactory, tokens *credentials.Store, opts ...GitHubOption) *GitHubProvider {
	p := &GitHubProvider{cmds: cmds, tokens: tokens}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = httpx.DefaultClient()
	}
	if p.lg == nil {
		p.lg = logx.Nop()
	}
	return p
}

func (p *GitHubProvider) Name() string { return "GitHub" }

// Credential reports whether the next call needs an API token: only when gh is unavailable.
func (p *GitHubProvider) Credential() (models.TokenID, bool) {
	return models.TokenGitHub, !p.cmds.IsExecutable(GitHubBinary)
}

// RepositoryExists reports whether repo exists on GitHub.
func (p *GitHubProvider) RepositoryExists(ctx context.Context, repo models.Repository) (ok bool, err error) {
	defer errorx.WrapIfErr(&err, "github.exists")
	return p.transport().exists(ctx, repo)
}

// CreateRepository creates repo unless it already exists.
func (p *GitHubProvider) CreateRepository(ctx context.Context, repo models.Repository) (out models.CreateOutcome, err error) {
	defer errorx.WrapIfErr(&err, "github.create")
	t := p.transport()
	exists, err := t.exists(ctx, repo)
	if err != nil {
		return models.Failed, err
	}
	if exists {
		p.lg.Info("github repository already exists", logx.F("repo", repo.FullName()))
		return models.AlreadyExists, nil
	}
	out, err = t.create(ctx, repo)
	if err != nil {
		return models.Failed, err
	}
	p.lg.Info("github repository create", logx.F("repo", repo.FullName()), logx.F("outcome", out.String()))
	return out, nil
}

// Exists and Create adapt the provider to the shape shared with the coverage services.
func (p *GitHubProvider) Exists(ctx context.Context, repo models.Repository) (bool, error) {
	return p.RepositoryExists(ctx, repo)
}

func (p *GitHubProvider) Create(ctx context.Context, repo models.Repository) (models.CreateOutcome, error) {
	return p.CreateRepository(ctx, repo)
}

func (p *GitHubProvider) transport() transport {
	if p.cmds.IsExecutable(GitHubBinary) {
		return &ghBinary{cmds: p.cmds}
	}
	return &githubAPI{p: p}
}

type ghBinary struct {
	cmds CommandFactory
}

func (b *ghBinary) exists(ctx context.Context, repo models.Repository) (bool, error) {
	return b.run(ctx, []string{GitHubBinary, "repo", "view", repo.FullName()})
}

func (b *ghBinary) create(ctx context.Context, repo models.Repository) (models.CreateOutcome, error) {
	visibility := "--public"
	if repo.Private() {
		visibility = "--private"
	}
	ok, err := b.run(ctx, []string{GitHubBinary, "repo", "create", repo.FullName(), "--description", repo.Description(), visibility})
	if err != nil {
		return models.Failed, err
	}
	if ok {
		return models.Created, nil
	}
	return models.Failed, nil
}

func (b *ghBinary) run(ctx context.Context, parts []string) (bool, error) {
	cmd, err := b.cmds.Create(parts)
	if err != nil {
		return false, err
	}
	if err := cmd.Run(ctx); err != nil {
		return false, err
	}
	return cmd.Successful(), nil
}

type githubAPI struct {
	p *GitHubProvider
}

func (a *githubAPI) exists(ctx context.Context, repo models.Repository) (bool, error) {
	u := urix.MergePath(a.base(repo), "/repos/{owner}/{repo}", map[string]string{
		"owner": repo.Owner(),
		"repo":  repo.Name(),
	})
	resp, err := a.send(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	return resp.StatusCode == http.StatusOK, nil
}

// create uses the "create a repository for the authenticated user" endpoint.
func (a *githubAPI) create(ctx context.Context, repo models.Repository) (models.CreateOutcome, error) {
	payload := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Private     bool   `json:"private"`
	}{repo.Name(), repo.Description(), repo.Private()}

	resp, err := a.send(ctx, http.MethodPost, urix.MergePath(a.base(repo), "/user/repos", nil), payload)
	if err != nil {
		return models.Failed, err
	}
	switch resp.StatusCode {
	case http.StatusCreated:
		return models.Created, nil
	case http.StatusNotModified:
		return models.AlreadyExists, nil
	default:
		a.p.lg.Warn("github repository create rejected", logx.F("status", resp.StatusCode), logx.F("body", string(resp.Body)))
		return models.Failed, nil
	}
}

func (a *githubAPI) base(repo models.Repository) *url.URL {
	if a.p.apiBase != nil {
		return a.p.apiBase
	}
	return githubAPIBase(repo.URL().Hostname())
}

func (a *githubAPI) send(ctx context.Context, method string, u *url.URL, payload any) (httpx.Response, error) {
	token, ok := a.p.tokens.Get(models.TokenGitHub)
	if !ok {
		return httpx.Response{}, credentials.MissingTokenError(models.TokenGitHub)
	}
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"Authorization":        "Bearer " + token,
		"X-GitHub-Api-Version": githubAPIVersion,
	}
	if payload != nil {
		headers["Content-Type"] = "application/json"
	}
	resp, err := httpx.Send(ctx, a.p.client, a.p.lg, method, u, headers, payload)
	if err != nil {
		return httpx.Response{}, fmt.Errorf("github api: %w", err)
	}
	return resp, nil
}
