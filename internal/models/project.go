package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const CurrentProjectSchemaVersion = 1

// Endpoints overrides provider API roots, e.g. for GitHub Enterprise.
type Endpoints struct {
	GitHub      string `yaml:"github,omitempty"`
	CodeClimate string `yaml:"codeclimate,omitempty"`
	Coveralls   string `yaml:"coveralls,omitempty"`
}

// ProjectConfig models iflowkit-scaffold.yaml.
type ProjectConfig struct {
	Version   int            `yaml:"version"`
	Template  string         `yaml:"template"`
	Variables map[string]any `yaml:"variables"`
	Endpoints Endpoints      `yaml:"endpoints,omitempty"`
}

func (c ProjectConfig) PrettyYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c ProjectConfig) ValidateRequired() error {
	if c.Version == 0 {
		return fmt.Errorf("project file missing required field: version")
	}
	if strings.TrimSpace(c.Template) == "" {
		return fmt.Errorf("project file missing required field: template")
	}
	return nil
}

// Lookup resolves a dotted key ("repository.owner") in the nested variables.
func (c ProjectConfig) Lookup(key string) (any, bool) {
	var cur any = c.Variables
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}
