package coverage

import (
	"context"
	"net/http"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/errorx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/urix"
	"github.com/iflowkit/iflowkit-scaffold/internal/credentials"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

const codeClimateAPI = "https://api.codeclimate.com/v1"

// CodeClimate adds public GitHub repositories to CodeClimate.
type CodeClimate struct {
	svc service
}

func NewCodeClimate(tokens *credentials.Store, opts ...Option) *CodeClimate {
	c := &CodeClimate{svc: service{
		name:    "CodeClimate",
		tokenID: models.TokenCodeClimate,
		base:    urix.MustParse(codeClimateAPI),
		tokens:  tokens,
		headers: func(token string) map[string]string {
			return map[string]string{
				"Accept":        "application/vnd.api+json",
				"Authorization": "Token token=" + token,
				"Content-Type":  "application/vnd.api+json",
			}
		},
	}}
	c.svc.apply(opts)
	return c
}

func (c *CodeClimate) Name() string { return c.svc.name }

func (c *CodeClimate) Credential() (models.TokenID, bool) { return c.svc.tokenID, true }

// RepositoryExists looks the repository up by its GitHub slug.
func (c *CodeClimate) RepositoryExists(ctx context.Context, repo models.Repository) (ok bool, err error) {
	defer errorx.WrapIfErr(&err, "codeclimate.exists")
	u := urix.MergeQueryParams(urix.MergePath(c.svc.base, "/repos", nil), map[string]string{
		"github_slug": repo.FullName(),
	})
	resp, err := c.svc.send(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	return resp.StatusCode == http.StatusOK, nil
}

// AddRepository adds a public OSS repository.
func (c *CodeClimate) AddRepository(ctx context.Context, repo models.Repository) (out models.CreateOutcome, err error) {
	defer errorx.WrapIfErr(&err, "codeclimate.add")

	type attributes struct {
		URL string `json:"url"`
	}
	type data struct {
		Type       string     `json:"type"`
		Attributes attributes `json:"attributes"`
	}
	payload := struct {
		Data data `json:"data"`
	}{Data: data{Type: "repos", Attributes: attributes{URL: repo.URL().String()}}}

	return c.svc.add(ctx, repo, c.RepositoryExists, urix.MergePath(c.svc.base, "/github/repos", nil), payload)
}

func (c *CodeClimate) Exists(ctx context.Context, repo models.Repository) (bool, error) {
	return c.RepositoryExists(ctx, repo)
}

func (c *CodeClimate) Create(ctx context.Context, repo models.Repository) (models.CreateOutcome, error) {
	return c.AddRepository(ctx, repo)
}
