package coverage

import (
	"context"
	"net/http"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/errorx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/urix"
	"github.com/iflowkit/iflowkit-scaffold/internal/credentials"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

const coverallsAPI = "https://coveralls.io/api"

// Coveralls adds GitHub repositories to Coveralls.
type Coveralls struct {
	svc service
}

func NewCoveralls(tokens *credentials.Store, opts ...Option) *Coveralls {
	c := &Coveralls{svc: service{
		name:    "Coveralls",
		tokenID: models.TokenCoveralls,
		base:    urix.MustParse(coverallsAPI),
		tokens:  tokens,
		headers: func(token string) map[string]string {
			return map[string]string{
				"Accept":        "application/json",
				"Authorization": "token " + token,
				"Content-Type":  "application/json",
			}
		},
	}}
	c.svc.apply(opts)
	return c
}

func (c *Coveralls) Name() string { return c.svc.name }

func (c *Coveralls) Credential() (models.TokenID, bool) { return c.svc.tokenID, true }

func (c *Coveralls) RepositoryExists(ctx context.Context, repo models.Repository) (ok bool, err error) {
	defer errorx.WrapIfErr(&err, "coveralls.exists")
	u := urix.MergePath(c.svc.base, "/repos/github/{owner}/{name}", map[string]string{
		"owner": repo.Owner(),
		"name":  repo.Name(),
	})
	resp, err := c.svc.send(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	return resp.StatusCode == http.StatusOK, nil
}

func (c *Coveralls) AddRepository(ctx context.Context, repo models.Repository) (out models.CreateOutcome, err error) {
	defer errorx.WrapIfErr(&err, "coveralls.add")

	type repoSettings struct {
		Service               string `json:"service"`
		Name                  string `json:"name"`
		CommentOnPullRequests bool   `json:"comment_on_pull_requests"`
		SendBuildStatus       bool   `json:"send_build_status"`
	}
	payload := struct {
		Repo repoSettings `json:"repo"`
	}{Repo: repoSettings{
		Service:               "github",
		Name:                  repo.FullName(),
		CommentOnPullRequests: true,
		SendBuildStatus:       true,
	}}

	return c.svc.add(ctx, repo, c.RepositoryExists, urix.MergePath(c.svc.base, "/repos", nil), payload)
}

func (c *Coveralls) Exists(ctx context.Context, repo models.Repository) (bool, error) {
	return c.RepositoryExists(ctx, repo)
}

func (c *Coveralls) Create(ctx context.Context, repo models.Repository) (models.CreateOutcome, error) {
	return c.AddRepository(ctx, repo)
}
