// Package coverage registers repositories with code-quality and coverage services.
package coverage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/httpx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/logx"
	"github.com/iflowkit/iflowkit-scaffold/internal/credentials"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

// service holds what CodeClimate and Coveralls clients share: an API root,
// a token and the header convention of the service.
type service struct {
	name    string
	tokenID models.TokenID
	base    *url.URL
	client  httpx.Doer
	tokens  *credentials.Store
	lg      *logx.Logger
	headers func(token string) map[string]string
}

type Option func(*service)

func WithHTTPClient(client httpx.Doer) Option {
	return func(s *service) { s.client = client }
}

// WithBaseURL replaces the service's public API root.
func WithBaseURL(u *url.URL) Option {
	return func(s *service) { s.base = u }
}

func WithLogger(lg *logx.Logger) Option {
	return func(s *service) { s.lg = lg }
}

func (s *service) apply(opts []Option) {
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = httpx.DefaultClient()
	}
	if s.lg == nil {
		s.lg = logx.Nop()
	}
}

func (s *service) send(ctx context.Context, method string, u *url.URL, payload any) (httpx.Response, error) {
	token, ok := s.tokens.Get(s.tokenID)
	if !ok {
		return httpx.Response{}, credentials.MissingTokenError(s.tokenID)
	}
	resp, err := httpx.Send(ctx, s.client, s.lg, method, u, s.headers(token), payload)
	if err != nil {
		return httpx.Response{}, fmt.Errorf("%s api: %w", s.tokenID, err)
	}
	return resp, nil
}

// add is the shared create flow: the existence check guards against duplicate
// registration, then the POST status decides the outcome.
func (s *service) add(ctx context.Context, repo models.Repository, exists func(context.Context, models.Repository) (bool, error), u *url.URL, payload any) (models.CreateOutcome, error) {
	found, err := exists(ctx, repo)
	if err != nil {
		return models.Failed, err
	}
	if found {
		s.lg.Info("repository already registered", logx.F("service", s.name), logx.F("repo", repo.FullName()))
		return models.AlreadyExists, nil
	}
	resp, err := s.send(ctx, http.MethodPost, u, payload)
	if err != nil {
		return models.Failed, err
	}
	if resp.StatusCode == http.StatusCreated {
		s.lg.Info("repository registered", logx.F("service", s.name), logx.F("repo", repo.FullName()))
		return models.Created, nil
	}
	s.lg.Warn("repository registration rejected", logx.F("service", s.name), logx.F("status", resp.StatusCode), logx.F("body", string(resp.Body)))
	return models.Failed, nil
}
