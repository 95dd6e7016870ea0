package edit

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/stagedit/pkg/errors"
	"github.com/arthur-debert/stagedit/pkg/filesystem"
	"github.com/arthur-debert/stagedit/pkg/label"
	"github.com/arthur-debert/stagedit/pkg/logging"
)

const (
	// DirMode is the mode of parent directories created for a target.
	DirMode fs.FileMode = 0755
	// FileMode is the mode of staging files not copied from an original.
	FileMode fs.FileMode = 0644

	// templateCursorLine is the first content line of a templated file:
	// header, start marker, blank line, content.
	templateCursorLine = 4

	whitespace = " \t\n\r"
)

// Stager writes the initial staging copy for a target.
type Stager struct {
	fs      filesystem.FS
	labeler label.Labeler
	logger  zerolog.Logger
}

// NewStager creates a Stager. A nil labeler disables labeling.
func NewStager(fsys filesystem.FS, labeler label.Labeler) *Stager {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	if labeler == nil {
		labeler = label.Nop{}
	}
	return &Stager{
		fs:      fsys,
		labeler: labeler,
		logger:  logging.GetLogger("edit.stage"),
	}
}

// Stage creates the staging file for t next to t.Path and returns its path
// and the line the editor should open at. Templated targets require markers.
// On failure no staging file is left behind.
func (s *Stager) Stage(t *Target, m *Markers) (string, int, error) {
	if t.Templated() && m == nil {
		return "", 0, errors.Newf(errors.ErrContract,
			"target %q has comment sources but no markers are configured", t.Path)
	}

	created, err := filesystem.MkdirParents(s.fs, t.Path, DirMode, s.labeler)
	if err != nil {
		return "", 0, errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create parent directories for %q", t.Path).
			WithDetail("path", t.Path)
	}
	for _, dir := range created {
		s.logger.Debug().Str("dir", dir).Msg("Created parent directory")
	}

	scope, err := s.labeler.Begin(t.Path)
	if err != nil {
		return "", 0, errors.Wrapf(err, errors.ErrLabel, "failed to prepare label for %q", t.Path)
	}
	defer scope.End()

	f, err := filesystem.CreateTemp(s.fs, t.Path, FileMode)
	if err != nil {
		return "", 0, errors.Wrapf(err, errors.ErrFileCreate,
			"failed to create temporary file for %q", t.Path).
			WithDetail("path", t.Path)
	}
	tempPath := f.Name()

	ok := false
	defer func() {
		if !ok {
			_ = f.Close()
			_ = s.fs.Remove(tempPath)
		}
	}()

	if err := scope.Apply(tempPath); err != nil {
		return "", 0, errors.Wrapf(err, errors.ErrLabel, "failed to label %q", tempPath)
	}

	cursorLine := 1
	switch {
	case t.Templated():
		if err := s.writeTemplate(f, t, *m); err != nil {
			return "", 0, err
		}
		cursorLine = templateCursorLine
	case t.OriginalPath != "":
		if err := s.copyOriginal(f, t); err != nil {
			return "", 0, err
		}
	}

	if err := f.Sync(); err != nil {
		return "", 0, errors.Wrapf(err, errors.ErrFileWrite, "failed to flush temporary file %q", tempPath)
	}
	if err := f.Close(); err != nil {
		return "", 0, errors.Wrapf(err, errors.ErrFileWrite, "failed to close temporary file %q", tempPath)
	}
	ok = true

	s.logger.Debug().
		Str("target", t.Path).
		Str("temp", tempPath).
		Int("line", cursorLine).
		Bool("templated", t.Templated()).
		Msg("Staged target")
	return tempPath, cursorLine, nil
}

// copyOriginal seeds f from t.OriginalPath. A missing original leaves f empty.
func (s *Stager) copyOriginal(f *os.File, t *Target) error {
	err := filesystem.CopyInto(s.fs, t.OriginalPath, f)
	if stderrors.Is(err, fs.ErrNotExist) {
		s.logger.Debug().
			Str("original", t.OriginalPath).
			Msg("Original file does not exist, starting empty")
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate,
			"failed to copy %q into temporary file for %q", t.OriginalPath, t.Path).
			WithDetail("path", t.OriginalPath)
	}
	return nil
}

func (s *Stager) writeTemplate(f *os.File, t *Target, m Markers) error {
	// Pin the mode regardless of umask.
	if err := f.Chmod(FileMode); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to change mode of temporary file %q", f.Name())
	}

	current, err := s.fs.ReadFile(t.Path)
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrFileRead, "failed to read target file %q", t.Path).
			WithDetail("path", t.Path)
	}

	doc, err := s.renderTemplate(t, m, string(current))
	if err != nil {
		return err
	}

	if _, err := f.WriteString(doc); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write temporary file %q", f.Name())
	}
	return nil
}

// renderTemplate builds the templated staging document for t.
func (s *Stager) renderTemplate(t *Target, m Markers, current string) (string, error) {
	var b strings.Builder

	newline := "\n"
	if strings.HasSuffix(current, "\n") {
		newline = ""
	}
	fmt.Fprintf(&b, "### Editing %s\n%s\n\n%s%s\n%s\n", t.Path, m.Start, current, newline, m.End)

	self := filepath.Clean(t.Path)
	for _, src := range t.CommentSources {
		if filepath.Clean(src) == self {
			continue
		}

		contents, err := s.fs.ReadFile(src)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileRead, "failed to read original file %q", src).
				WithDetail("path", src)
		}

		fmt.Fprintf(&b, "\n\n### %s", src)
		if len(contents) > 0 {
			commented := strings.ReplaceAll(strings.Trim(string(contents), whitespace), "\n", "\n# ")
			fmt.Fprintf(&b, "\n# %s", commented)
		}
	}

	return b.String(), nil
}
