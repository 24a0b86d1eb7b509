package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/errorx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/execx"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/httpx"
	"github.com/iflowkit/iflowkit-scaffold/internal/logging"
	"github.com/iflowkit/iflowkit-scaffold/internal/paths"
	"github.com/iflowkit/iflowkit-scaffold/internal/validate"
)

type GlobalFlags struct {
	LogLevel  string
	LogFormat string
	Verbose   bool
}

type Context struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Paths  *paths.Paths
	Logger *logging.Logger
	Flags  GlobalFlags
	Getenv func(string) string

	// Commands and HTTPClient replace the host lookups and the network in tests.
	Commands   *execx.Resolver
	HTTPClient httpx.Doer
}

func Run(argv []string) error {
	ctx := &Context{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr, Getenv: os.Getenv}
	return ctx.Execute(argv)
}

// Execute runs the command tree against ctx. Errors are printed once in their
// user-facing form.
func (ctx *Context) Execute(argv []string) error {
	root := newRootCmd(ctx)
	root.SetArgs(argv)
	root.SetIn(ctx.Stdin)
	root.SetOut(ctx.Stdout)
	root.SetErr(ctx.Stderr)

	err := root.Execute()
	if ctx.Logger != nil {
		if err != nil {
			ctx.Logger.Error("command failed", logging.F("error", err.Error()))
		}
		_ = ctx.Logger.Close()
	}
	if err != nil {
		fmt.Fprintln(ctx.Stderr, errorx.UserError(err))
	}
	return err
}

func newRootCmd(ctx *Context) *cobra.Command {
	root := &cobra.Command{
		Use:   "iflowkit-scaffold",
		Short: "Scaffold a project and provision its repositories",
		Long: `iflowkit-scaffold generates a project from a template and offers to create
the GitHub repository, register it with CodeClimate and Coveralls and
initialize a local Git working copy pointing at it.

Tokens are read from GITHUB_TOKEN, CODECLIMATE_TOKEN and COVERALLS_TOKEN
and asked for interactively when missing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.setup(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&ctx.Flags.LogLevel, "log-level", "info", "Log level: trace|debug|info|warn|error")
	f.StringVar(&ctx.Flags.LogFormat, "log-format", "text", "Log format: text|json")
	f.BoolVarP(&ctx.Flags.Verbose, "verbose", "v", false, "Also print log records to stderr")

	root.AddCommand(newNewCmd(ctx), newInitCmd(ctx), newShowCmd(ctx), newWhereCmd(ctx))
	return root
}

func (ctx *Context) setup(cmd *cobra.Command) error {
	if err := validate.LogFormat(ctx.Flags.LogFormat); err != nil {
		return err
	}
	if ctx.Paths == nil {
		p, err := paths.New()
		if err != nil {
			return err
		}
		ctx.Paths = p
	}
	if ctx.Getenv == nil {
		ctx.Getenv = os.Getenv
	}

	var console io.Writer
	if ctx.Flags.Verbose {
		console = ctx.Stderr
	}
	lg, err := logging.New(logging.Options{
		LogsDir: ctx.Paths.LogsDir,
		Level:   ctx.Flags.LogLevel,
		Format:  ctx.Flags.LogFormat,
		Stdout:  console,
		Cmdline: os.Args,
		RunID:   uuid.NewString(),
	})
	if err != nil {
		return err
	}
	ctx.Logger = lg
	lg.Info("command started", logging.F("cmd", strings.TrimSpace(cmd.CommandPath())))
	return nil
}
