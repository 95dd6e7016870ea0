package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/arthur-debert/stagedit/pkg/label"
)

// tempAttempts bounds name collisions before CreateTemp gives up
const tempAttempts = 16

// TempName derives a hidden, randomized sibling name for target:
// "<dir>/.#<base><16 hex chars>".
func TempName(target string) string {
	dir, base := filepath.Split(target)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	return filepath.Join(dir, ".#"+base+suffix)
}

// CreateTemp exclusively creates a new staging file next to target and
// returns it open for writing. Existing files are never reused.
func CreateTemp(fsys FS, target string, perm fs.FileMode) (*os.File, error) {
	var lastErr error
	for i := 0; i < tempAttempts; i++ {
		name := TempName(target)
		f, err := fsys.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// CopyInto copies src into dst and gives dst the permission bits of src.
// A missing src is reported as fs.ErrNotExist with dst left untouched.
func CopyInto(fsys FS, src string, dst *os.File) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	// *os.File to *os.File lets the runtime use copy_file_range where available
	if _, err := io.Copy(dst, in); err != nil {
		return err
	}

	return dst.Chmod(info.Mode().Perm())
}

// MkdirParents creates every missing parent directory of path with mode,
// labeling each created directory. It returns the directories it created,
// outermost first.
func MkdirParents(fsys FS, path string, mode fs.FileMode, labeler label.Labeler) ([]string, error) {
	var missing []string
	for dir := filepath.Dir(filepath.Clean(path)); ; dir = filepath.Dir(dir) {
		info, err := fsys.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return nil, &fs.PathError{Op: "mkdir", Path: dir, Err: fs.ErrExist}
			}
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		missing = append(missing, dir)
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}

	var created []string
	for i := len(missing) - 1; i >= 0; i-- {
		dir := missing[i]
		if err := mkdirLabeled(fsys, dir, mode, labeler); err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return created, err
		}
		created = append(created, dir)
	}
	return created, nil
}

func mkdirLabeled(fsys FS, dir string, mode fs.FileMode, labeler label.Labeler) error {
	scope, err := labeler.Begin(dir)
	if err != nil {
		return err
	}
	defer scope.End()

	if err := fsys.Mkdir(dir, mode); err != nil {
		return err
	}
	return scope.Apply(dir)
}
