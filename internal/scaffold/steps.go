package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/filex"
	"github.com/iflowkit/iflowkit-scaffold/internal/common/logx"
)

// ErrTargetNotEmpty is returned by the mirror step when the target already
// holds files and overwriting was not requested.
var ErrTargetNotEmpty = errors.New("target directory is not empty")

// CollectBuildInstructions merges the configured variables into the build
// instructions. Existing variables are overwritten.
type CollectBuildInstructions struct {
	Variables map[string]any
}

func (CollectBuildInstructions) Kind() StepKind { return StepCollectBuildInstructions }

func (s CollectBuildInstructions) Run(_ context.Context, result *BuildResult) error {
	if result.Instructions == nil {
		result.Instructions = NewInstructions("", nil)
	}
	for k, v := range Flatten(s.Variables) {
		result.Instructions.SetVariable(k, v)
	}
	return nil
}

// ProcessSourceFiles stages the template, a directory or a .zip archive, in
// a temporary directory.
type ProcessSourceFiles struct {
	Logger *logx.Logger
}

func (ProcessSourceFiles) Kind() StepKind { return StepProcessSourceFiles }

func (s ProcessSourceFiles) Run(_ context.Context, result *BuildResult) error {
	src := result.Instructions.Template
	if strings.TrimSpace(src) == "" {
		return errors.New("template is required")
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	isZip := !info.IsDir() && strings.EqualFold(filepath.Ext(src), ".zip")
	if !info.IsDir() && !isZip {
		return fmt.Errorf("template %s must be a directory or a .zip archive", src)
	}

	staging, err := os.MkdirTemp("", "iflowkit-scaffold-*")
	if err != nil {
		return err
	}
	if isZip {
		err = filex.ExtractZipFile(src, staging)
	} else {
		_, err = filex.CopyTree(src, staging)
	}
	if err != nil {
		_ = os.RemoveAll(staging)
		return err
	}
	result.StagingDirectory = staging
	logger(s.Logger).Debug("template staged", logx.F("source", src), logx.F("staging", staging))
	return nil
}

// MirrorProcessedFiles copies the staged files into Target.
type MirrorProcessedFiles struct {
	Target string
	Force  bool
	Logger *logx.Logger
}

func (MirrorProcessedFiles) Kind() StepKind { return StepMirrorProcessedFiles }

func (s MirrorProcessedFiles) Run(_ context.Context, result *BuildResult) error {
	if result.StagingDirectory == "" {
		return errors.New("nothing staged to mirror")
	}
	target, err := filepath.Abs(s.Target)
	if err != nil {
		return err
	}
	if !s.Force {
		empty, err := filex.IsEmptyDir(target)
		if err != nil {
			return err
		}
		if !empty {
			return fmt.Errorf("%w: %s", ErrTargetNotEmpty, target)
		}
	}

	n, err := filex.CopyTree(result.StagingDirectory, target)
	if err != nil {
		return err
	}
	result.WrittenDirectory = target
	result.Mirrored = true
	logger(s.Logger).Info("files mirrored", logx.F("target", target), logx.F("files", n))
	return nil
}

// CleanUp removes the staging directory.
type CleanUp struct{}

func (CleanUp) Kind() StepKind { return StepCleanUp }

func (CleanUp) Run(_ context.Context, result *BuildResult) error {
	if result.StagingDirectory == "" {
		return nil
	}
	if err := os.RemoveAll(result.StagingDirectory); err != nil {
		return err
	}
	result.StagingDirectory = ""
	return nil
}

func logger(lg *logx.Logger) *logx.Logger {
	if lg == nil {
		return logx.Nop()
	}
	return lg
}
