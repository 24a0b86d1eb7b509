package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/errorx"
	"github.com/iflowkit/iflowkit-scaffold/internal/logging"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
	"github.com/iflowkit/iflowkit-scaffold/internal/prompt"
	"github.com/iflowkit/iflowkit-scaffold/internal/store"
	"github.com/iflowkit/iflowkit-scaffold/internal/validate"
)

func newInitCmd(ctx *Context) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or update the project file interactively",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return projectInit(ctx, projectStore(ctx, file))
		},
	}
	cmd.Flags().StringVar(&file, "config", "", "Project file to write")
	return cmd
}

func newShowCmd(ctx *Context) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the project file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := projectStore(ctx, file).Read()
			if err != nil {
				return err
			}
			b, err := cfg.PrettyYAML()
			if err != nil {
				return err
			}
			fmt.Fprint(ctx.Stdout, string(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "config", "", "Project file to read")
	return cmd
}

func projectStore(ctx *Context, file string) *store.ProjectStore {
	if file == "" {
		file = ctx.Paths.ProjectFile
	}
	return store.NewProjectStore(file, ctx.Logger)
}

func projectInit(ctx *Context, s *store.ProjectStore) error {
	io := prompt.NewIO(ctx.Stdin, ctx.Stdout)

	existing, err := s.ReadOptional()
	if err != nil {
		return err
	}
	cfg := models.ProjectConfig{Version: models.CurrentProjectSchemaVersion}
	if existing != nil {
		ok, err := io.AskYesNo(fmt.Sprintf("Project file exists: %s. Update it?", s.Path()), false)
		if err != nil {
			return err
		}
		if !ok {
			return errorx.ErrAborted
		}
		cfg = *existing
	}

	current := func(key string) *string {
		v, _ := cfg.Lookup(key)
		str, _ := v.(string)
		return &str
	}

	template, err := io.AskString("Template directory or .zip", &cfg.Template, validate.RequiredNonEmpty("template"))
	if err != nil {
		return err
	}
	owner, err := io.AskString("Repository owner", current("repository.owner"), validate.Slug("repository owner"))
	if err != nil {
		return err
	}
	name, err := io.AskString("Repository name", current("repository.name"), validate.Slug("repository name"))
	if err != nil {
		return err
	}
	defaultURL := current("repository.url")
	if *defaultURL == "" {
		*defaultURL = fmt.Sprintf("https://github.com/%s/%s", owner, name)
	}
	repoURL, err := io.AskString("Repository URL", defaultURL, validate.URLWithSchemeHost("repository URL"))
	if err != nil {
		return err
	}
	description, err := io.AskString("Package description", current("package.description"), nil)
	if err != nil {
		return err
	}
	codeClimate, err := io.AskYesNo("Enable CodeClimate?", true)
	if err != nil {
		return err
	}
	coveralls, err := io.AskYesNo("Enable Coveralls?", true)
	if err != nil {
		return err
	}

	cfg.Template = template
	if cfg.Variables == nil {
		cfg.Variables = map[string]any{}
	}
	setNested(cfg.Variables, "repository", map[string]any{"owner": owner, "name": name, "url": repoURL})
	setNested(cfg.Variables, "package", map[string]any{"description": description})
	setNested(cfg.Variables, "ci", map[string]any{"codeclimate": codeClimate, "coveralls": coveralls})

	if err := s.Write(cfg, true); err != nil {
		return err
	}
	ctx.Logger.Info("project file initialized", logging.F("path", s.Path()))
	fmt.Fprintf(ctx.Stdout, "Project file saved: %s\n", s.Path())
	return nil
}

// setNested merges values into vars[section], keeping unrelated keys.
func setNested(vars map[string]any, section string, values map[string]any) {
	m, ok := vars[section].(map[string]any)
	if !ok {
		m = map[string]any{}
		vars[section] = m
	}
	for k, v := range values {
		m[k] = v
	}
}
