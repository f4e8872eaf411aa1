package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/marktree/pkg/errors"
)

// WriteFileAtomic creates the parent directory, writes data to a sibling
// temporary file and renames it over name, so readers never see a partial
// file.
func WriteFileAtomic(fsys FS, name string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(name)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dir).
			WithDetail("path", dir)
	}

	tmp := name + ".tmp"
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", tmp).
			WithDetail("path", name)
	}
	if err := fsys.Rename(tmp, name); err != nil {
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to replace %s", name).
			WithDetail("path", name)
	}
	return nil
}
