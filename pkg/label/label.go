// Package label applies mandatory-access-control labels to files and
// directories created while staging edits.
//
// Creation is bracketed by a Scope: Begin resolves the label that new
// entries for a target should carry, Apply stamps it onto each created path,
// and End releases the scope. Callers defer End immediately after a
// successful Begin so it runs on every exit path.
package label

import (
	"github.com/arthur-debert/stagedit/pkg/logging"
)

// Mode selects a Labeler implementation by name.
type Mode string

const (
	// ModeNone disables labeling.
	ModeNone Mode = "none"
	// ModeXattr copies the security.selinux extended attribute from the
	// nearest existing ancestor onto newly created entries.
	ModeXattr Mode = "xattr"
)

// Labeler opens labeling scopes for paths about to be created.
type Labeler interface {
	Begin(target string) (Scope, error)
}

// Scope is an open labeling context for one target.
type Scope interface {
	// Apply labels a path created inside the scope.
	Apply(path string) error
	// End closes the scope. It is safe to call more than once.
	End()
}

// New returns the Labeler for mode. Unknown modes fall back to Nop.
func New(mode Mode) Labeler {
	switch mode {
	case ModeXattr:
		return NewXattr()
	case ModeNone, "":
		return Nop{}
	default:
		logger := logging.GetLogger("label")
		logger.Warn().
			Str("mode", string(mode)).
			Msg("Unknown label mode, labeling disabled")
		return Nop{}
	}
}

// Nop is a Labeler that does nothing.
type Nop struct{}

// Begin implements Labeler.
func (Nop) Begin(string) (Scope, error) { return nopScope{}, nil }

type nopScope struct{}

func (nopScope) Apply(string) error { return nil }
func (nopScope) End()               {}
