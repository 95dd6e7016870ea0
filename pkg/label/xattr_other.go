//go:build !linux

package label

// Xattr is unavailable off Linux and behaves like Nop.
type Xattr struct{ Nop }

// NewXattr returns a labeler that applies nothing.
func NewXattr() *Xattr {
	return &Xattr{}
}
