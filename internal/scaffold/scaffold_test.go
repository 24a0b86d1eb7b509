package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	got := Flatten(map[string]any{
		"repository": map[string]any{"owner": "foo", "name": "baz"},
		"ci":         map[any]any{"codeclimate": true},
		"top":        1,
	})

	assert.Equal(t, map[string]any{
		"repository.owner": "foo",
		"repository.name":  "baz",
		"ci.codeclimate":   true,
		"top":              1,
	}, got)
}

func TestInstructions_Variables(t *testing.T) {
	in := NewInstructions("tpl", map[string]any{"repository": map[string]any{"owner": "foo"}, "n": 3})

	s, ok := in.StringVariable("repository.owner")
	assert.True(t, ok)
	assert.Equal(t, "foo", s)

	_, ok = in.StringVariable("n")
	assert.False(t, ok)
	_, ok = in.StringVariable("missing")
	assert.False(t, ok)

	in.SetVariable("n", nil)
	_, ok = in.Variable("n")
	assert.False(t, ok)
	assert.Equal(t, map[string]any{"repository.owner": "foo"}, in.Variables)
}

func TestInstructions_BoolVariable(t *testing.T) {
	in := NewInstructions("", map[string]any{
		"a": true, "b": false, "c": "yes", "d": "false", "e": 0, "f": 1, "g": "",
	})

	for key, want := range map[string]bool{"a": true, "b": false, "c": true, "d": false, "e": false, "f": true, "g": false, "missing": false} {
		assert.Equal(t, want, in.BoolVariable(key), key)
	}
}

func TestStepKind_String(t *testing.T) {
	assert.Equal(t, "collectBuildInstructions", StepCollectBuildInstructions.String())
	assert.Equal(t, "mirrorProcessedFiles", StepMirrorProcessedFiles.String())
	assert.Equal(t, "step(42)", StepKind(42).String())
}

func TestDispatcher_CallsAllListeners(t *testing.T) {
	var order []string
	first := errors.New("first")
	d := NewDispatcher(
		ListenerFunc(func(context.Context, Event) error { order = append(order, "a"); return first }),
		ListenerFunc(func(context.Context, Event) error { order = append(order, "b"); return nil }),
	)

	err := d.Dispatch(context.Background(), Event{Step: StepCleanUp})

	assert.ErrorIs(t, err, first)
	assert.Equal(t, []string{"a", "b"}, order)
}

type fakeStep struct {
	kind StepKind
	err  error
	ran  *[]StepKind
}

func (s fakeStep) Kind() StepKind { return s.kind }

func (s fakeStep) Run(context.Context, *BuildResult) error {
	*s.ran = append(*s.ran, s.kind)
	return s.err
}

func TestGenerator_DispatchesEventPerStep(t *testing.T) {
	var ran []StepKind
	var events []Event
	d := NewDispatcher(ListenerFunc(func(_ context.Context, ev Event) error {
		events = append(events, ev)
		return nil
	}))
	g := NewGenerator(d, nil,
		fakeStep{kind: StepCollectBuildInstructions, ran: &ran},
		fakeStep{kind: StepMirrorProcessedFiles, ran: &ran},
	)

	result, err := g.Run(context.Background(), NewInstructions("", nil))

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, []StepKind{StepCollectBuildInstructions, StepMirrorProcessedFiles}, ran)
	require.Len(t, events, 2)
	assert.True(t, events[1].Successful)
	assert.Same(t, result, events[1].Result)
}

func TestGenerator_StepErrorStopsBuild(t *testing.T) {
	var ran []StepKind
	var events []Event
	boom := errors.New("boom")
	d := NewDispatcher(ListenerFunc(func(_ context.Context, ev Event) error {
		events = append(events, ev)
		return nil
	}))
	g := NewGenerator(d, nil,
		fakeStep{kind: StepProcessSourceFiles, err: boom, ran: &ran},
		fakeStep{kind: StepMirrorProcessedFiles, ran: &ran},
	)

	_, err := g.Run(context.Background(), NewInstructions("", nil))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []StepKind{StepProcessSourceFiles}, ran)
	require.Len(t, events, 1)
	assert.False(t, events[0].Successful)
}

func TestGenerator_ListenerErrorDoesNotStopBuild(t *testing.T) {
	var ran []StepKind
	failure := errors.New("listener")
	d := NewDispatcher(ListenerFunc(func(_ context.Context, ev Event) error {
		if ev.Step == StepCollectBuildInstructions {
			return failure
		}
		return nil
	}))
	g := NewGenerator(d, nil,
		fakeStep{kind: StepCollectBuildInstructions, ran: &ran},
		fakeStep{kind: StepCleanUp, ran: &ran},
	)

	_, err := g.Run(context.Background(), NewInstructions("", nil))

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, []StepKind{StepCollectBuildInstructions, StepCleanUp}, ran)
}

func TestPipeline_MirrorsTemplateDirectory(t *testing.T) {
	tpl := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tpl, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tpl, "src", "main.go"), []byte("package main"), 0o644))
	target := filepath.Join(t.TempDir(), "project")

	g := NewGenerator(nil, nil,
		CollectBuildInstructions{Variables: map[string]any{"repository": map[string]any{"name": "baz"}}},
		ProcessSourceFiles{},
		MirrorProcessedFiles{Target: target},
		CleanUp{},
	)

	result, err := g.Run(context.Background(), NewInstructions(tpl, nil))

	require.NoError(t, err)
	assert.True(t, result.Mirrored)
	assert.Equal(t, target, result.WrittenDirectory)
	assert.Empty(t, result.StagingDirectory)
	assert.FileExists(t, filepath.Join(target, "src", "main.go"))
	name, _ := result.Instructions.StringVariable("repository.name")
	assert.Equal(t, "baz", name)
}

func TestMirrorProcessedFiles_RefusesNonEmptyTarget(t *testing.T) {
	staging := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staging, "a.txt"), []byte("new"), 0o644))
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "a.txt"), []byte("old"), 0o644))

	result := &BuildResult{Instructions: NewInstructions("", nil), StagingDirectory: staging}
	err := MirrorProcessedFiles{Target: target}.Run(context.Background(), result)
	assert.ErrorIs(t, err, ErrTargetNotEmpty)
	assert.False(t, result.Mirrored)

	require.NoError(t, MirrorProcessedFiles{Target: target, Force: true}.Run(context.Background(), result))
	b, err := os.ReadFile(filepath.Join(target, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(b))
}

func TestProcessSourceFiles_RejectsPlainFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "template.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	result := &BuildResult{Instructions: NewInstructions(file, nil)}
	err := ProcessSourceFiles{}.Run(context.Background(), result)

	assert.ErrorContains(t, err, "directory or a .zip archive")
	assert.Empty(t, result.StagingDirectory)
}
