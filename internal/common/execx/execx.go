// Package execx locates optional executables on the host and runs them.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/logx"
)

// ExecutableMissingError is returned when a command's executable cannot be resolved.
type ExecutableMissingError struct {
	Name string
}

func (e *ExecutableMissingError) Error() string {
	if e.Name == "" {
		return "executable is missing: empty command name"
	}
	return fmt.Sprintf("executable is missing: %s", e.Name)
}

func (e *ExecutableMissingError) UserMessage() string {
	if e.Name == "" {
		return "Command has no executable."
	}
	return fmt.Sprintf("Executable %q not found in PATH.", e.Name)
}

// Result holds the outcome of one command execution.
type Result struct {
	Output   string
	ExitCode int
}

// Runner executes a resolved command.
// It returns a Result with ExitCode set whenever the process ran, even on non-zero exit,
// and an error only for execution failures (start failure, ctx canceled).
type Runner interface {
	Run(ctx context.Context, path string, args []string, dir string) (Result, error)
}

// OSRunner runs commands with os/exec and captures combined output.
type OSRunner struct{}

func (OSRunner) Run(ctx context.Context, path string, args []string, dir string) (Result, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	res := Result{Output: strings.TrimSpace(out.String())}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, err
	}
	return res, nil
}

// Resolver finds executables and builds commands for them.
// Lookups are cached per name for the lifetime of the Resolver; a missing
// executable stays missing.
type Resolver struct {
	lookPath func(string) (string, error)
	runner   Runner
	lg       *logx.Logger
	found    map[string]string
}

type Option func(*Resolver)

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(r *Resolver) { r.lookPath = fn }
}

// WithRunner replaces the OSRunner.
func WithRunner(runner Runner) Option {
	return func(r *Resolver) { r.runner = runner }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(lg *logx.Logger) Option {
	return func(r *Resolver) { r.lg = lg }
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		lookPath: exec.LookPath,
		runner:   OSRunner{},
		found:    map[string]string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.lg == nil {
		r.lg = logx.Nop()
	}
	return r
}

// IsExecutable reports whether name resolves on the search path.
func (r *Resolver) IsExecutable(name string) bool {
	return r.find(name) != ""
}

// Create builds a command whose first element is resolved to an absolute path.
func (r *Resolver) Create(parts []string) (*Command, error) {
	if len(parts) == 0 || parts[0] == "" {
		return nil, &ExecutableMissingError{}
	}
	path := r.find(parts[0])
	if path == "" {
		return nil, &ExecutableMissingError{Name: parts[0]}
	}
	args := append([]string(nil), parts[1:]...)
	return &Command{name: parts[0], path: path, args: args, runner: r.runner, lg: r.lg}, nil
}

func (r *Resolver) find(name string) string {
	if name == "" {
		return ""
	}
	if p, ok := r.found[name]; ok {
		return p
	}
	p, err := r.lookPath(name)
	if err != nil {
		p = ""
	}
	r.found[name] = p
	r.lg.Debug("executable lookup", logx.F("name", name), logx.F("path", p))
	return p
}

// Command is a resolved, runnable command.
type Command struct {
	name   string
	path   string
	args   []string
	dir    string
	runner Runner
	lg     *logx.Logger

	ran    bool
	result Result
}

// SetDir sets the working directory.
func (c *Command) SetDir(dir string) *Command {
	c.dir = dir
	return c
}

func (c *Command) Path() string { return c.path }

// Args returns the arguments after the executable.
func (c *Command) Args() []string { return append([]string(nil), c.args...) }

// Run executes the command once.
func (c *Command) Run(ctx context.Context) error {
	c.lg.Info("exec", logx.F("cmd", c.name), logx.F("args", strings.Join(c.args, " ")), logx.F("dir", c.dir))
	res, err := c.runner.Run(ctx, c.path, c.args, c.dir)
	c.ran = true
	c.result = res
	if res.Output != "" {
		c.lg.Debug("exec output", logx.F("cmd", c.name), logx.F("output", res.Output))
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.name, strings.Join(c.args, " "), err)
	}
	return nil
}

// Successful reports whether the command ran and exited with code 0.
func (c *Command) Successful() bool { return c.ran && c.result.ExitCode == 0 }

func (c *Command) Output() string { return c.result.Output }
func (c *Command) ExitCode() int  { return c.result.ExitCode }
