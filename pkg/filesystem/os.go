package filesystem

import (
	"github.com/spf13/afero"
)

// NewOS creates a filesystem backed by the operating system
func NewOS() FS {
	return NewAferoFS(afero.NewOsFs())
}
