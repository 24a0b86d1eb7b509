package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/execx"
	"github.com/iflowkit/iflowkit-scaffold/internal/git"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

func newWhereCmd(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Show local paths, tools and token sources",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cmds := ctx.Commands
			if cmds == nil {
				cmds = execx.NewResolver(execx.WithLogger(ctx.Logger))
			}
			return runWhere(ctx, cmds)
		},
	}
}

func runWhere(ctx *Context, cmds *execx.Resolver) error {
	p := ctx.Paths

	fmt.Fprintf(ctx.Stdout, "Config root:         %s\n", p.ConfigRoot)
	fmt.Fprintf(ctx.Stdout, "Logs dir:            %s\n", p.LogsDir)
	fmt.Fprintf(ctx.Stdout, "Project file:        %s\n", p.ProjectFile)
	fmt.Fprintln(ctx.Stdout, "")

	for _, bin := range []string{git.GitBinary, git.GitHubBinary} {
		fmt.Fprintf(ctx.Stdout, "%-20s %s\n", bin+":", available(cmds.IsExecutable(bin)))
	}
	fmt.Fprintln(ctx.Stdout, "")

	for _, id := range []models.TokenID{models.TokenGitHub, models.TokenCodeClimate, models.TokenCoveralls} {
		state := "(not set, will be asked for)"
		if ctx.Getenv(id.EnvVar()) != "" {
			state = "set"
		}
		fmt.Fprintf(ctx.Stdout, "%-20s %s\n", id.EnvVar()+":", state)
	}
	return nil
}

func available(ok bool) string {
	if ok {
		return "found"
	}
	return "not found"
}
