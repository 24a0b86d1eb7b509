package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/filex"
	"github.com/iflowkit/iflowkit-scaffold/internal/logging"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
	"github.com/iflowkit/iflowkit-scaffold/internal/validate"
)

// ErrProjectExists is returned by Write when the project file exists and
// overwriting was not requested.
var ErrProjectExists = errors.New("project file already exists")

type ProjectStore struct {
	path string
	lg   *logging.Logger
}

func NewProjectStore(path string, lg *logging.Logger) *ProjectStore {
	if lg == nil {
		lg = logging.Nop()
	}
	return &ProjectStore{path: path, lg: lg}
}

func (s *ProjectStore) Path() string { return s.path }

func (s *ProjectStore) ReadOptional() (*models.ProjectConfig, error) {
	cfg, err := s.Read()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Read parses and validates the project file. The template is kept as written.
func (s *ProjectStore) Read() (models.ProjectConfig, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return models.ProjectConfig{}, err
	}
	cfg, err := parseProject(b)
	if err != nil {
		return models.ProjectConfig{}, fmt.Errorf("%s: %w", filepath.Base(s.path), err)
	}
	s.lg.Debug("project file loaded", logging.F("path", s.path), logging.F("template", cfg.Template))
	return cfg, nil
}

// TemplatePath resolves a relative template against the directory of the
// project file.
func (s *ProjectStore) TemplatePath(cfg models.ProjectConfig) string {
	if cfg.Template == "" || filepath.IsAbs(cfg.Template) {
		return cfg.Template
	}
	return filepath.Join(filepath.Dir(s.path), cfg.Template)
}

func parseProject(b []byte) (models.ProjectConfig, error) {
	var cfg models.ProjectConfig
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return models.ProjectConfig{}, fmt.Errorf("invalid project file: %w", err)
	}
	if err := checkProject(cfg); err != nil {
		return models.ProjectConfig{}, err
	}
	return cfg, nil
}

func checkProject(cfg models.ProjectConfig) error {
	if err := cfg.ValidateRequired(); err != nil {
		return err
	}
	if err := validate.IntInSet("version", models.CurrentProjectSchemaVersion)(cfg.Version); err != nil {
		return err
	}
	for field, raw := range map[string]string{
		"endpoints.github":      cfg.Endpoints.GitHub,
		"endpoints.codeclimate": cfg.Endpoints.CodeClimate,
		"endpoints.coveralls":   cfg.Endpoints.Coveralls,
	} {
		if err := validate.OptionalURL(field)(raw); err != nil {
			return err
		}
	}
	for _, key := range []string{"repository.owner", "repository.name"} {
		v, ok := cfg.Lookup(key)
		if !ok {
			continue
		}
		s, isString := v.(string)
		if !isString {
			return fmt.Errorf("variables.%s must be a string", key)
		}
		if err := validate.Slug("variables." + key)(s); err != nil {
			return err
		}
	}
	if v, ok := cfg.Lookup("repository.url"); ok {
		s, _ := v.(string)
		if err := validate.URLWithSchemeHost("variables.repository.url")(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProjectStore) Write(cfg models.ProjectConfig, overwrite bool) error {
	if err := checkProject(cfg); err != nil {
		return err
	}
	b, err := cfg.PrettyYAML()
	if err != nil {
		return err
	}
	if _, err := os.Stat(s.path); err == nil && !overwrite {
		return fmt.Errorf("%w: %s", ErrProjectExists, s.path)
	}
	if overwrite {
		_ = os.Remove(s.path) // allow rename on Windows
	}
	if err := filex.AtomicWriteFile(s.path, b, 0o644); err != nil {
		return err
	}
	s.lg.Info("project file written", logging.F("path", s.path))
	return nil
}
