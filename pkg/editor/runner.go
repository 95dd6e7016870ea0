package editor

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/stagedit/pkg/errors"
	"github.com/arthur-debert/stagedit/pkg/logging"
)

// Runner spawns a program and blocks until it exits. It reports a program
// that cannot be located with code errors.ErrEditorNotFound so callers can
// move on to another candidate; any other error is a real failure.
type Runner interface {
	Run(ctx context.Context, name string, args []string) error
}

// ExecRunner runs programs as child processes attached to the terminal.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	logger zerolog.Logger
}

// NewExecRunner creates an ExecRunner wired to the process's stdio.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logging.GetLogger("editor.exec"),
	}
}

// Run implements Runner. The child's exit status is logged and otherwise
// ignored.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		if candidate := nonExecutableOnPath(name); candidate != "" && stderrors.Is(err, exec.ErrNotFound) {
			return errors.Wrapf(&fs.PathError{Op: "exec", Path: candidate, Err: fs.ErrPermission},
				errors.ErrEditorLaunch, "failed to execute %q", name).
				WithDetail("path", candidate)
		}
		if stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, errors.ErrEditorNotFound, "%q not found", name)
		}
		return errors.Wrapf(err, errors.ErrEditorLaunch, "failed to execute %q", name)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Args[0] = name
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.SysProcAttr = sysProcAttr()

	// The death signal fires when the spawning thread exits, so keep it.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := cmd.Start(); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, errors.ErrEditorNotFound, "%q not found", name)
		}
		return errors.Wrapf(err, errors.ErrEditorLaunch, "failed to execute %q", name)
	}

	r.logger.Debug().Str("editor", name).Int("pid", cmd.Process.Pid).Msg("Editor started")

	if err := cmd.Wait(); err != nil {
		r.logger.Debug().Err(err).Str("editor", name).Msg("Editor exited with error, ignoring")
		return nil
	}

	r.logger.Debug().Str("editor", name).Msg("Editor exited")
	return nil
}

// nonExecutableOnPath returns the first regular file called name in $PATH.
// LookPath skips such files, but exec would fail on them with EACCES, which
// must not be mistaken for a missing program. Names with a directory part
// are not searched.
func nonExecutableOnPath(name string) string {
	if name == "" || filepath.Base(name) != name {
		return ""
	}
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}
