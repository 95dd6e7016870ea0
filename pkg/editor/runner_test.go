//go:build linux

package editor

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/stagedit/pkg/errors"
)

func writeScript(t *testing.T, dir, body string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, "fake-editor")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), mode))
	return path
}

func quietRunner() *ExecRunner {
	r := NewExecRunner()
	r.Stdin = bytes.NewReader(nil)
	r.Stdout = &bytes.Buffer{}
	r.Stderr = &bytes.Buffer{}
	return r
}

func TestExecRunnerRunsProgram(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "args")
	script := writeScript(t, dir, `echo "$@" > "`+out+`"`+"\n", 0755)

	require.NoError(t, quietRunner().Run(context.Background(), script, []string{"+4", "/tmp/x"}))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "+4 /tmp/x\n", string(got))
}

func TestExecRunnerIgnoresExitStatus(t *testing.T) {
	script := writeScript(t, t.TempDir(), "exit 3\n", 0755)
	assert.NoError(t, quietRunner().Run(context.Background(), script, nil))
}

func TestExecRunnerNotFound(t *testing.T) {
	err := quietRunner().Run(context.Background(), filepath.Join(t.TempDir(), "no-such-editor"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEditorNotFound))

	err = quietRunner().Run(context.Background(), "stagedit-no-such-editor-on-path", nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEditorNotFound))
}

func TestExecRunnerNotExecutable(t *testing.T) {
	script := writeScript(t, t.TempDir(), "exit 0\n", 0644)

	err := quietRunner().Run(context.Background(), script, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEditorLaunch))
}

func TestExecRunnerNotExecutableOnPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocked"), []byte("#!/bin/sh\nexit 0\n"), 0644))
	t.Setenv("PATH", dir)

	err := quietRunner().Run(context.Background(), "blocked", nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEditorLaunch))
	assert.True(t, stderrors.Is(err, fs.ErrPermission))
}

func TestLaunchFallbackNotExecutableIsFatal(t *testing.T) {
	dir := t.TempDir()
	ran := filepath.Join(t.TempDir(), "ran")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nano"), []byte("#!/bin/sh\nexit 0\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vi"), []byte("#!/bin/sh\necho vi > \""+ran+"\"\n"), 0755))
	t.Setenv("PATH", dir)

	l := New(Options{
		LookupEnv: EnvFromMap(map[string]string{}),
		Fallbacks: []string{"nano", "vi"},
		Runner:    quietRunner(),
	})

	err := l.Launch(context.Background(), []string{"/tmp/x"}, 1)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEditorLaunch))
	assert.True(t, stderrors.Is(err, fs.ErrPermission))

	_, statErr := os.Stat(ran)
	assert.True(t, os.IsNotExist(statErr), "next fallback must not run")
}

func TestLaunchFallbackSkipsMissingThenRuns(t *testing.T) {
	dir := t.TempDir()
	ran := filepath.Join(t.TempDir(), "ran")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vi"), []byte("#!/bin/sh\necho vi > \""+ran+"\"\n"), 0755))
	t.Setenv("PATH", dir)

	l := New(Options{
		LookupEnv: EnvFromMap(map[string]string{}),
		Fallbacks: []string{"nano", "vi"},
		Runner:    quietRunner(),
	})

	require.NoError(t, l.Launch(context.Background(), []string{"/tmp/x"}, 1))
	got, err := os.ReadFile(ran)
	require.NoError(t, err)
	assert.Equal(t, "vi\n", string(got))
}
