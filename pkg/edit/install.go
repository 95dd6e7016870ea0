package edit

import (
	"context"
	stderrors "errors"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/stagedit/pkg/errors"
	"github.com/arthur-debert/stagedit/pkg/filesystem"
	"github.com/arthur-debert/stagedit/pkg/label"
	"github.com/arthur-debert/stagedit/pkg/logging"
)

// Launcher opens staged files in an editor and blocks until it exits.
type Launcher interface {
	Launch(ctx context.Context, paths []string, cursorLine int) error
}

// FileError is a per-file install failure.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Result reports what happened to each target of a run.
type Result struct {
	// Installed lists targets whose staging file was renamed into place.
	Installed []string
	// Skipped lists targets left untouched because no content remained.
	Skipped []string
	// Failed lists targets whose trim or rename failed.
	Failed []FileError
}

// Err joins the per-file failures, or returns nil when there were none.
func (r *Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return stderrors.Join(errs...)
}

// InstallerOptions configures an Installer.
type InstallerOptions struct {
	FS       filesystem.FS
	Labeler  label.Labeler
	Launcher Launcher
	// OnInstalled is called after each successful install.
	OnInstalled func(path string)
}

// Installer runs the stage, edit, trim and install workflow over a Session.
type Installer struct {
	fs          filesystem.FS
	stager      *Stager
	launcher    Launcher
	onInstalled func(path string)
	logger      zerolog.Logger
}

// NewInstaller creates an Installer.
func NewInstaller(opts InstallerOptions) *Installer {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return &Installer{
		fs:          fsys,
		stager:      NewStager(fsys, opts.Labeler),
		launcher:    opts.Launcher,
		onInstalled: opts.OnInstalled,
		logger:      logging.GetLogger("edit.install"),
	}
}

// Run stages every target, launches the editor once over all staging files,
// then trims and installs each one. It returns an error only when staging or
// the editor launch fails; per-file failures are collected in the Result and
// do not undo files already installed. The caller owns s and must still call
// s.Cleanup.
func (i *Installer) Run(ctx context.Context, s *Session) (*Result, error) {
	if s.Len() == 0 {
		return nil, errors.New(errors.ErrNoFiles, "got no files to edit")
	}
	if i.launcher == nil {
		return nil, errors.New(errors.ErrContract, "installer has no editor launcher")
	}

	done := logging.LogOperationStart(i.logger, "edit")
	defer done()

	targets := s.Targets()
	for _, t := range targets {
		if t.TempPath != "" {
			continue
		}
		temp, line, err := i.stager.Stage(t, s.Markers)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrStage, "failed to stage %q", t.Path).
				WithDetail("path", t.Path)
		}
		t.TempPath = temp
		t.CursorLine = line
	}

	paths := make([]string, len(targets))
	for n, t := range targets {
		paths[n] = t.TempPath
	}

	if err := i.launcher.Launch(ctx, paths, targets[0].CursorLine); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrEditorLaunch, "editing was interrupted")
	}

	result := &Result{}
	for _, t := range targets {
		i.install(t, s.Markers, result)
	}

	i.logger.Info().
		Int("installed", len(result.Installed)).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed)).
		Msg("Edit run completed")
	return result, nil
}

func (i *Installer) install(t *Target, m *Markers, result *Result) {
	trimmed, err := Trim(i.fs, t.TempPath, m)
	if err != nil {
		i.logger.Error().Err(err).Str("path", t.Path).Msg("Failed to trim edited file")
		result.Failed = append(result.Failed, FileError{
			Path: t.Path,
			Err:  errors.Wrapf(err, errors.ErrTrim, "failed to trim %q", t.TempPath),
		})
		return
	}

	if trimmed == TrimEmptied {
		i.logger.Info().Str("path", t.Path).Msg("Edited file has no content, not installing")
		result.Skipped = append(result.Skipped, t.Path)
		return
	}

	if err := i.fs.Rename(t.TempPath, t.Path); err != nil {
		i.logger.Error().
			Err(err).
			Str("source", t.TempPath).
			Str("destination", t.Path).
			Msg("Failed to install edited file")
		result.Failed = append(result.Failed, FileError{
			Path: t.Path,
			Err: errors.Wrapf(err, errors.ErrInstall, "failed to rename %q to %q", t.TempPath, t.Path).
				WithDetail("source", t.TempPath).
				WithDetail("destination", t.Path),
		})
		return
	}
	t.TempPath = ""

	i.logger.Info().
		Str("path", t.Path).
		Str("trim", trimmed.String()).
		Msg("Successfully installed edited file")
	result.Installed = append(result.Installed, t.Path)

	if i.onInstalled != nil {
		i.onInstalled(t.Path)
	}
}
