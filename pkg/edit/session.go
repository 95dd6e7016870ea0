package edit

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/stagedit/pkg/filesystem"
	"github.com/arthur-debert/stagedit/pkg/logging"
)

// Markers delimit the editable region of a templated staging file.
type Markers struct {
	Start string
	End   string
}

// Target is one file being edited.
type Target struct {
	// Path is the final destination and the target's key in its session.
	Path string
	// OriginalPath seeds the staging copy when no templating is requested.
	OriginalPath string
	// CommentSources are embedded as commented reference material.
	// nil disables templating; an empty, non-nil slice still templates.
	CommentSources []string
	// TempPath is the staging copy, empty before staging and after install.
	TempPath string
	// CursorLine is the 1-based line the editor should open at.
	CursorLine int
}

// Templated reports whether the target is staged through the template.
func (t *Target) Templated() bool {
	return t.CommentSources != nil
}

// SessionOptions configures a Session.
type SessionOptions struct {
	FS                filesystem.FS
	Markers           *Markers
	RemoveEmptyParent bool
}

// Session is the ordered set of edit targets plus shared settings.
type Session struct {
	Markers           *Markers
	RemoveEmptyParent bool

	targets []*Target
	fs      filesystem.FS
	logger  zerolog.Logger
}

// NewSession creates an empty session.
func NewSession(opts SessionOptions) *Session {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return &Session{
		Markers:           opts.Markers,
		RemoveEmptyParent: opts.RemoveEmptyParent,
		fs:                fsys,
		logger:            logging.GetLogger("edit.session"),
	}
}

// Add registers path for editing. It returns false, leaving the session
// unchanged, when path is already registered. Paths are compared verbatim.
func (s *Session) Add(path, originalPath string, commentSources []string) bool {
	if s.Contains(path) {
		s.logger.Debug().Str("path", path).Msg("Target already registered")
		return false
	}

	var sources []string
	if commentSources != nil {
		sources = append([]string{}, commentSources...)
	}

	s.targets = append(s.targets, &Target{
		Path:           path,
		OriginalPath:   originalPath,
		CommentSources: sources,
		CursorLine:     1,
	})
	return true
}

// Contains reports whether path is registered.
func (s *Session) Contains(path string) bool {
	for _, t := range s.targets {
		if t.Path == path {
			return true
		}
	}
	return false
}

// Targets returns the registered targets in order.
func (s *Session) Targets() []*Target {
	return s.targets
}

// Len returns the number of registered targets.
func (s *Session) Len() int {
	return len(s.targets)
}

// Cleanup removes staging files that were not installed and, if configured,
// each target's parent directory when it is empty. Errors are logged and
// swallowed. Cleanup releases all targets and may be called repeatedly.
func (s *Session) Cleanup() {
	for _, t := range s.targets {
		if t.TempPath != "" {
			if err := s.fs.Remove(t.TempPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				s.logger.Debug().Err(err).Str("path", t.TempPath).Msg("Failed to remove staging file, ignoring")
			}
			t.TempPath = ""
		}

		if s.RemoveEmptyParent {
			parent := filepath.Dir(t.Path)
			// Non-empty directories make Remove fail, which is what we want.
			if err := s.fs.Remove(parent); err == nil {
				s.logger.Debug().Str("path", parent).Msg("Removed empty parent directory")
			}
		}
	}

	s.targets = nil
}
