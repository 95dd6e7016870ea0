package edit

import (
	"strings"

	"github.com/arthur-debert/stagedit/pkg/errors"
	"github.com/arthur-debert/stagedit/pkg/filesystem"
)

// TrimResult describes what trimming did to a staging file.
type TrimResult int

const (
	// TrimEmptied means no meaningful content remains; do not install.
	TrimEmptied TrimResult = iota
	// TrimUnchanged means the file already held exactly the trimmed content.
	TrimUnchanged
	// TrimChanged means the file was rewritten with the trimmed content.
	TrimChanged
)

func (r TrimResult) String() string {
	switch r {
	case TrimEmptied:
		return "emptied"
	case TrimUnchanged:
		return "unchanged"
	case TrimChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Trim reduces the file at path to the content between the markers, with
// surrounding whitespace removed and a single trailing newline. A missing
// start marker means the region starts at the top of the file; a missing end
// marker means it runs to the end. With nil markers the whole file is the
// region. The file is only rewritten when its content changes.
func Trim(fsys filesystem.FS, path string, m *Markers) (TrimResult, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return TrimEmptied, errors.Wrapf(err, errors.ErrFileRead, "failed to read temporary file %q", path).
			WithDetail("path", path)
	}

	old := string(data)
	region := extractRegion(old, m)

	trimmed := strings.Trim(region, whitespace)
	if trimmed == "" {
		return TrimEmptied, nil
	}

	updated := trimmed + "\n"
	if updated == old {
		return TrimUnchanged, nil
	}

	if err := fsys.WriteFile(path, []byte(updated), FileMode); err != nil {
		return TrimEmptied, errors.Wrapf(err, errors.ErrFileWrite, "failed to modify temporary file %q", path).
			WithDetail("path", path)
	}
	return TrimChanged, nil
}

// extractRegion returns the text between the first start marker and the
// first end marker following it.
func extractRegion(contents string, m *Markers) string {
	if m == nil {
		return contents
	}

	region := contents
	if i := strings.Index(region, m.Start); i >= 0 {
		region = region[i+len(m.Start):]
	}
	if i := strings.Index(region, m.End); i >= 0 {
		region = region[:i]
	}
	return region
}
