// pkg/filesystem/filesystem_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Memory FS, real filesystem
// PURPOSE: Test the afero-backed FS and atomic writes

package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	fsys := NewMemory()

	require.NoError(t, WriteFileAtomic(fsys, "/exports/nested/bookmarks.xbel", []byte("first"), 0644))
	require.NoError(t, WriteFileAtomic(fsys, "/exports/nested/bookmarks.xbel", []byte("second"), 0644))

	data, err := fsys.ReadFile("/exports/nested/bookmarks.xbel")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	_, err = fsys.Stat("/exports/nested/bookmarks.xbel.tmp")
	assert.Error(t, err)
}

func TestReadFileRejectsDirectories(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/data", 0755))

	_, err := fsys.ReadFile("/data")
	assert.Error(t, err)
}

func TestOSFilesystem(t *testing.T) {
	fsys := NewOS()
	path := filepath.Join(t.TempDir(), "out", "records.json")

	require.NoError(t, WriteFileAtomic(fsys, path, []byte("[]"), 0644))
	exists, err := afero.Exists(afero.NewOsFs(), path)
	require.NoError(t, err)
	assert.True(t, exists)
}
