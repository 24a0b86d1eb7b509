package git

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/urix"
	"github.com/iflowkit/iflowkit-scaffold/internal/credentials"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

func tokenStore(token string) *credentials.Store {
	s := credentials.NewStore(credentials.WithGetenv(func(string) string { return "" }))
	if token != "" {
		s.Set(models.TokenGitHub, token)
	}
	return s
}

func TestGitHubProvider_CreateReturnsAlreadyExistsViaBinary(t *testing.T) {
	runner := &scriptedRunner{codes: []int{0}}
	p := NewGitHubProvider(newResolver(runner, GitHubBinary), tokenStore(""))

	out, err := p.CreateRepository(context.Background(), testRepository(t, false))

	require.NoError(t, err)
	assert.Equal(t, models.AlreadyExists, out)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"repo", "view", "foo/baz"}, runner.calls[0].args)
}

func TestGitHubProvider_CreateUsingBinary(t *testing.T) {
	tests := []struct {
		name       string
		private    bool
		createCode int
		want       models.CreateOutcome
		visibility string
	}{
		{"successful public", false, 0, models.Created, "--public"},
		{"successful private", true, 0, models.Created, "--private"},
		{"failed", false, 1, models.Failed, "--public"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &scriptedRunner{codes: []int{1, tt.createCode}}
			p := NewGitHubProvider(newResolver(runner, GitHubBinary), tokenStore(""))

			out, err := p.CreateRepository(context.Background(), testRepository(t, tt.private))

			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			require.Len(t, runner.calls, 2)
			assert.Equal(t, "/usr/bin/gh", runner.calls[1].path)
			assert.Equal(t, []string{"repo", "create", "foo/baz", "--description", "foo baz", tt.visibility}, runner.calls[1].args)
		})
	}
}

func TestGitHubProvider_CreateUsingAPI(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   models.CreateOutcome
	}{
		{"created", http.StatusCreated, models.Created},
		{"not modified", http.StatusNotModified, models.AlreadyExists},
		{"bad request", http.StatusBadRequest, models.Failed},
		{"unprocessable", http.StatusUnprocessableEntity, models.Failed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var posts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer foo", r.Header.Get("Authorization"))
				assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
				assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))

				switch {
				case r.Method == http.MethodGet && r.URL.Path == "/repos/foo/baz":
					w.WriteHeader(http.StatusNotFound)
				case r.Method == http.MethodPost && r.URL.Path == "/user/repos":
					atomic.AddInt32(&posts, 1)
					var body map[string]any
					assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
					assert.Equal(t, map[string]any{"name": "baz", "description": "foo baz", "private": false}, body)
					w.WriteHeader(tt.status)
				default:
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
					w.WriteHeader(http.StatusTeapot)
				}
			}))
			defer server.Close()

			p := NewGitHubProvider(newResolver(&scriptedRunner{}), tokenStore("foo"),
				WithHTTPClient(server.Client()), WithAPIBase(urix.MustParse(server.URL)))

			out, err := p.CreateRepository(context.Background(), testRepository(t, false))

			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, int32(1), atomic.LoadInt32(&posts))
		})
	}
}

func TestGitHubProvider_CreateSkipsPostWhenRepositoryExists(t *testing.T) {
	var requests, posts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.Method == http.MethodPost {
			atomic.AddInt32(&posts, 1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := NewGitHubProvider(newResolver(&scriptedRunner{}), tokenStore("foo"),
		WithHTTPClient(server.Client()), WithAPIBase(urix.MustParse(server.URL)))

	out, err := p.CreateRepository(context.Background(), testRepository(t, false))

	require.NoError(t, err)
	assert.Equal(t, models.AlreadyExists, out)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
	assert.Equal(t, int32(0), atomic.LoadInt32(&posts))
}

func TestGitHubProvider_BinaryWinsOverAPI(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	runner := &scriptedRunner{codes: []int{1, 0}}
	p := NewGitHubProvider(newResolver(runner, GitHubBinary), tokenStore("foo"),
		WithHTTPClient(server.Client()), WithAPIBase(urix.MustParse(server.URL)))

	out, err := p.CreateRepository(context.Background(), testRepository(t, false))

	require.NoError(t, err)
	assert.Equal(t, models.Created, out)
	assert.Len(t, runner.calls, 2)
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}

func TestGitHubProvider_RepositoryExists(t *testing.T) {
	t.Run("binary", func(t *testing.T) {
		for code, want := range map[int]bool{0: true, 1: false} {
			runner := &scriptedRunner{codes: []int{code}}
			p := NewGitHubProvider(newResolver(runner, GitHubBinary), tokenStore(""))

			got, err := p.RepositoryExists(context.Background(), testRepository(t, false))

			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Len(t, runner.calls, 1)
		}
	})

	t.Run("api", func(t *testing.T) {
		for status, want := range map[int]bool{http.StatusOK: true, http.StatusNotFound: false, http.StatusForbidden: false} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/foo/baz", r.URL.Path)
				w.WriteHeader(status)
			}))

			p := NewGitHubProvider(newResolver(&scriptedRunner{}), tokenStore("foo"),
				WithHTTPClient(server.Client()), WithAPIBase(urix.MustParse(server.URL)))

			got, err := p.RepositoryExists(context.Background(), testRepository(t, false))
			server.Close()

			require.NoError(t, err)
			assert.Equal(t, want, got, "status %d", status)
		}
	})
}

func TestGitHubProvider_APIRequiresToken(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	p := NewGitHubProvider(newResolver(&scriptedRunner{}), tokenStore(""),
		WithHTTPClient(server.Client()), WithAPIBase(urix.MustParse(server.URL)))

	_, err := p.RepositoryExists(context.Background(), testRepository(t, false))

	assert.ErrorIs(t, err, credentials.ErrTokenMissing)
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}

type brokenTransport struct{ err error }

func (b brokenTransport) Do(*http.Request) (*http.Response, error) { return nil, b.err }

func TestGitHubProvider_TransportErrorPropagates(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	p := NewGitHubProvider(newResolver(&scriptedRunner{}), tokenStore("foo"), WithHTTPClient(brokenTransport{err: boom}))

	out, err := p.CreateRepository(context.Background(), testRepository(t, false))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, models.Failed, out)
	assert.Contains(t, err.Error(), "github.create")
}

func TestGitHubProvider_Credential(t *testing.T) {
	id, needed := NewGitHubProvider(newResolver(&scriptedRunner{}, GitHubBinary), tokenStore("")).Credential()
	assert.Equal(t, models.TokenGitHub, id)
	assert.False(t, needed)

	_, needed = NewGitHubProvider(newResolver(&scriptedRunner{}), tokenStore("")).Credential()
	assert.True(t, needed)
}

func TestGitHubAPIBase(t *testing.T) {
	assert.Equal(t, "https://api.github.com", githubAPIBase("github.com").String())
	assert.Equal(t, "https://api.github.com", githubAPIBase("").String())
	assert.Equal(t, "https://git.example.com/api/v3", githubAPIBase("GIT.example.com").String())
}

func TestSSHRemoteURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://github.com/foo/baz", "git@github.com:foo/baz.git"},
		{"https://github.com/foo/baz/", "git@github.com:foo/baz.git"},
		{"https://git.example.com:8443/group/sub/repo", "git@git.example.com:group/sub/repo.git"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SSHRemoteURL(urix.MustParse(tt.in)), tt.in)
	}
}
