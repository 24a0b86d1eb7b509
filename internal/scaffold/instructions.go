// Package scaffold runs the project generation pipeline and notifies listeners
// after every step.
package scaffold

import (
	"fmt"
	"strings"

	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

// StepKind identifies a pipeline step. Listeners switch on it.
type StepKind int

const (
	StepCollectBuildInstructions StepKind = iota + 1
	StepProcessSourceFiles
	StepMirrorProcessedFiles
	StepCleanUp
)

func (k StepKind) String() string {
	switch k {
	case StepCollectBuildInstructions:
		return "collectBuildInstructions"
	case StepProcessSourceFiles:
		return "processSourceFiles"
	case StepMirrorProcessedFiles:
		return "mirrorProcessedFiles"
	case StepCleanUp:
		return "cleanUp"
	default:
		return fmt.Sprintf("step(%d)", int(k))
	}
}

// ProvisioningResult carries the remote repository created during the
// collect step to the listeners of later steps.
type ProvisioningResult struct {
	Repository models.Repository
	Outcome    models.CreateOutcome
}

// Instructions holds the template variables of one build, keyed by dotted
// path ("repository.owner").
type Instructions struct {
	Template     string
	Variables    map[string]any
	Provisioning *ProvisioningResult
}

func NewInstructions(template string, vars map[string]any) *Instructions {
	in := &Instructions{Template: template, Variables: map[string]any{}}
	for k, v := range Flatten(vars) {
		in.Variables[k] = v
	}
	return in
}

func (in *Instructions) Variable(key string) (any, bool) {
	v, ok := in.Variables[key]
	return v, ok
}

// SetVariable sets key. A nil value removes it.
func (in *Instructions) SetVariable(key string, v any) {
	if in.Variables == nil {
		in.Variables = map[string]any{}
	}
	if v == nil {
		delete(in.Variables, key)
		return
	}
	in.Variables[key] = v
}

// StringVariable returns the variable as a string. ok is false when it is
// missing or of another type.
func (in *Instructions) StringVariable(key string) (s string, ok bool) {
	v, found := in.Variables[key]
	if !found {
		return "", false
	}
	s, ok = v.(string)
	return s, ok
}

// BoolVariable converts the variable loosely: missing, false, zero and empty
// values are false.
func (in *Instructions) BoolVariable(key string) bool {
	switch v := in.Variables[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "no", "off":
			return false
		}
		return true
	case int:
		return v != 0
	case float64:
		return v != 0
	case nil:
		return false
	default:
		return true
	}
}

// Flatten turns nested maps into dotted keys. Leaves keep their value.
func Flatten(vars map[string]any) map[string]any {
	out := map[string]any{}
	flatten("", vars, out)
	return out
}

func flatten(prefix string, vars map[string]any, out map[string]any) {
	for k, v := range vars {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch nested := v.(type) {
		case map[string]any:
			flatten(key, nested, out)
		case map[any]any:
			m := make(map[string]any, len(nested))
			for nk, nv := range nested {
				m[fmt.Sprint(nk)] = nv
			}
			flatten(key, m, out)
		default:
			out[key] = v
		}
	}
}

// BuildResult is shared by all steps and listeners of one build.
type BuildResult struct {
	Instructions     *Instructions
	StagingDirectory string
	WrittenDirectory string
	Mirrored         bool
}
