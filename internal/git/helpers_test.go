package git

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/execx"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

type runCall struct {
	path string
	args []string
	dir  string
}

// scriptedRunner answers each run with the next exit code (0 once exhausted).
type scriptedRunner struct {
	codes []int
	calls []runCall
}

func (s *scriptedRunner) Run(ctx context.Context, path string, args []string, dir string) (execx.Result, error) {
	s.calls = append(s.calls, runCall{path: path, args: args, dir: dir})
	code := 0
	if len(s.codes) > 0 {
		code = s.codes[0]
		s.codes = s.codes[1:]
	}
	return execx.Result{ExitCode: code}, nil
}

func newResolver(runner execx.Runner, installed ...string) *execx.Resolver {
	paths := map[string]string{}
	for _, name := range installed {
		paths[name] = "/usr/bin/" + name
	}
	return execx.NewResolver(
		execx.WithRunner(runner),
		execx.WithLookPath(func(name string) (string, error) {
			if p, ok := paths[name]; ok {
				return p, nil
			}
			return "", exec.ErrNotFound
		}),
	)
}

func testRepository(t *testing.T, private bool) models.Repository {
	t.Helper()
	repo, err := models.NewRepository("foo", "baz", "https://github.com/foo/baz", "foo baz", private)
	require.NoError(t, err)
	return repo
}
