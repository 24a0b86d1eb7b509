package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/execx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/httpx"
	"github.com/iflowkit/iflowkit-scaffold/internal/coverage"
	"github.com/iflowkit/iflowkit-scaffold/internal/credentials"
	"github.com/iflowkit/iflowkit-scaffold/internal/git"
	"github.com/iflowkit/iflowkit-scaffold/internal/listeners"
	"github.com/iflowkit/iflowkit-scaffold/internal/logging"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
	"github.com/iflowkit/iflowkit-scaffold/internal/paths"
	"github.com/iflowkit/iflowkit-scaffold/internal/prompt"
	"github.com/iflowkit/iflowkit-scaffold/internal/scaffold"
	"github.com/iflowkit/iflowkit-scaffold/internal/store"
)

type newOptions struct {
	config string
	out    string
	force  bool
}

func newNewCmd(ctx *Context) *cobra.Command {
	var opts newOptions
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a project and provision its repositories",
		Example: `  iflowkit-scaffold new
  iflowkit-scaffold new --config ./iflowkit-scaffold.yaml --out ./baz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNew(cmd.Context(), ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.config, "config", "", "Project file (defaults to ./"+paths.ProjectFileName+")")
	cmd.Flags().StringVar(&opts.out, "out", "", "Target directory (defaults to ./<repository.name>)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Write into a non-empty target directory")
	return cmd
}

func runNew(cctx context.Context, ctx *Context, opts newOptions) error {
	if cctx == nil {
		cctx = context.Background()
	}
	lg := ctx.Logger

	path := opts.config
	if path == "" {
		path = ctx.Paths.ProjectFile
	}
	projects := store.NewProjectStore(path, lg)
	cfg, err := projects.Read()
	if err != nil {
		return err
	}
	target, err := targetDir(opts.out, cfg)
	if err != nil {
		return err
	}

	io := prompt.NewIO(ctx.Stdin, ctx.Stdout)
	gen, err := ctx.generator(io, cfg, target, opts.force)
	if err != nil {
		return err
	}

	result, err := gen.Run(cctx, scaffold.NewInstructions(projects.TemplatePath(cfg), nil))
	if result != nil && result.StagingDirectory != "" {
		_ = os.RemoveAll(result.StagingDirectory)
	}
	if result != nil && result.Mirrored {
		io.NewLine()
		io.Success(fmt.Sprintf("Project written to %s", result.WrittenDirectory))
	}
	if err != nil {
		return err
	}
	lg.Info("project generated", logging.F("target", target))
	return nil
}

func targetDir(out string, cfg models.ProjectConfig) (string, error) {
	if out != "" {
		return out, nil
	}
	if v, ok := cfg.Lookup("repository.name"); ok {
		if name, ok := v.(string); ok && name != "" {
			return filepath.Abs(name)
		}
	}
	return "", errors.New("--out is required when variables.repository.name is not set")
}

// generator wires the provisioning listeners into the build pipeline.
func (ctx *Context) generator(io *prompt.IO, cfg models.ProjectConfig, target string, force bool) (*scaffold.Generator, error) {
	lg := ctx.Logger
	cmds := ctx.Commands
	if cmds == nil {
		cmds = execx.NewResolver(execx.WithLogger(lg))
	}
	client := ctx.HTTPClient
	if client == nil {
		client = httpx.DefaultClient()
	}

	tokens := credentials.NewStore(credentials.WithGetenv(ctx.Getenv))
	auth := credentials.NewAuthenticator(tokens, io, lg)

	ghOpts := []git.GitHubOption{git.WithHTTPClient(client), git.WithLogger(lg)}
	ccOpts := []coverage.Option{coverage.WithHTTPClient(client), coverage.WithLogger(lg)}
	cvOpts := []coverage.Option{coverage.WithHTTPClient(client), coverage.WithLogger(lg)}
	for _, o := range []struct {
		raw   string
		apply func(*url.URL)
	}{
		{cfg.Endpoints.GitHub, func(u *url.URL) { ghOpts = append(ghOpts, git.WithAPIBase(u)) }},
		{cfg.Endpoints.CodeClimate, func(u *url.URL) { ccOpts = append(ccOpts, coverage.WithBaseURL(u)) }},
		{cfg.Endpoints.Coveralls, func(u *url.URL) { cvOpts = append(cvOpts, coverage.WithBaseURL(u)) }},
	} {
		if o.raw == "" {
			continue
		}
		u, err := url.Parse(o.raw)
		if err != nil {
			return nil, err
		}
		o.apply(u)
	}

	d := scaffold.NewDispatcher(
		listeners.NewCreateRepository(io, auth,
			git.NewGitHubProvider(cmds, tokens, ghOpts...),
			coverage.NewCodeClimate(tokens, ccOpts...),
			coverage.NewCoveralls(tokens, cvOpts...),
			lg),
		listeners.NewInitializeRepository(io, git.NewLocalRepository(cmds, lg), lg),
	)

	return scaffold.NewGenerator(d, lg,
		scaffold.CollectBuildInstructions{Variables: cfg.Variables},
		scaffold.ProcessSourceFiles{Logger: lg},
		scaffold.MirrorProcessedFiles{Target: target, Force: force, Logger: lg},
		scaffold.CleanUp{},
	), nil
}
