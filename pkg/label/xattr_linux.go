//go:build linux

package label

import (
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/arthur-debert/stagedit/pkg/logging"
)

// SELinuxXattr is the extended attribute holding the SELinux context.
const SELinuxXattr = "security.selinux"

// Xattr labels new entries with the security context of the closest
// existing ancestor of the target (or the target itself when it exists).
type Xattr struct {
	attr   string
	logger zerolog.Logger
}

// NewXattr creates an Xattr labeler for the SELinux attribute.
func NewXattr() *Xattr {
	return &Xattr{
		attr:   SELinuxXattr,
		logger: logging.GetLogger("label.xattr"),
	}
}

// Begin implements Labeler. Filesystems without label support yield a
// scope that applies nothing.
func (x *Xattr) Begin(target string) (Scope, error) {
	source, value, err := x.lookup(target)
	if err != nil {
		return nil, err
	}
	if value == nil {
		x.logger.Trace().Str("target", target).Msg("No label to propagate")
		return nopScope{}, nil
	}

	x.logger.Trace().
		Str("target", target).
		Str("source", source).
		Str("label", string(value)).
		Msg("Label scope opened")
	return &xattrScope{x: x, value: value}, nil
}

// lookup walks from target towards the root and returns the first label found.
func (x *Xattr) lookup(target string) (string, []byte, error) {
	p := filepath.Clean(target)
	for {
		value, err := x.get(p)
		switch {
		case err == nil:
			return p, value, nil
		case errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENOTDIR):
			// keep walking
		case unsupported(err):
			return p, nil, nil
		default:
			return "", nil, err
		}

		parent := filepath.Dir(p)
		if parent == p {
			return p, nil, nil
		}
		p = parent
	}
}

func (x *Xattr) get(path string) ([]byte, error) {
	size, err := unix.Lgetxattr(path, x.attr, nil)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	n, err := unix.Lgetxattr(path, x.attr, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func unsupported(err error) bool {
	return errors.Is(err, unix.ENODATA) ||
		errors.Is(err, unix.ENOTSUP) ||
		errors.Is(err, unix.EOPNOTSUPP)
}

type xattrScope struct {
	x     *Xattr
	value []byte
	ended bool
}

func (s *xattrScope) Apply(path string) error {
	if s.ended {
		return nil
	}
	err := unix.Lsetxattr(path, s.x.attr, s.value, 0)
	if err != nil && !unsupported(err) && !errors.Is(err, unix.EPERM) {
		return err
	}
	return nil
}

func (s *xattrScope) End() {
	s.ended = true
}
