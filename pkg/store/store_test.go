// pkg/store/store_test.go
// TEST TYPE: Store Tests
// DEPENDENCIES: Real filesystem (ALLOWED for store package), SQLite
// PURPOSE: Test saving, loading and deleting items in the local replica

package store_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/arthur-debert/marktree/pkg/filesystem"
	"github.com/arthur-debert/marktree/pkg/guid"
	"github.com/arthur-debert/marktree/pkg/sources"
	"github.com/arthur-debert/marktree/pkg/store"
	"github.com/arthur-debert/marktree/pkg/tree"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func options() sources.Options {
	return sources.Options{ReparentOrphansTo: guid.Unfiled, Now: referenceTime}
}

func localRecords() []sources.Record {
	return []sources.Record{
		{ID: "root________", Type: "folder"},
		{ID: "menu________", Type: "folder", ParentID: "root________"},
		{ID: "unfiled_____", Type: "folder", ParentID: "root________"},
		{ID: "folderAAAAAA", Type: "folder", ParentID: "menu________", Title: "Reading", Modified: 1709294398500},
		{ID: "bookmarkAAAA", Type: "bookmark", ParentID: "folderAAAAAA", Title: "Go", URI: "https://go.dev"},
		{ID: "separatorAAA", Type: "separator", ParentID: "folderAAAAAA", Position: 1},
		{ID: "bookmarkBBBB", Type: "bookmark", ParentID: "menu________", NeedsMerge: true, Validity: "reupload"},
		{ID: "deletedAAAAA", Deleted: true},
	}
}

func localTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr, err := sources.BuildLocalTree(localRecords(), options())
	require.NoError(t, err)
	return tr
}

func openStore(t *testing.T, path string) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), path, store.Options{BusyTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func childGuids(n tree.Node) []guid.Guid {
	guids := []guid.Guid{}
	for child := range n.Children() {
		guids = append(guids, child.Guid())
	}
	return guids
}

func nodeFor(t *testing.T, tr *tree.Tree, g guid.Guid) tree.Node {
	t.Helper()
	n, ok := tr.NodeForGuid(g)
	require.True(t, ok, "expected %s in tree", g)
	return n
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "nested", "marktree.db"))

	original := localTree(t)
	require.NoError(t, s.SaveTree(ctx, original, referenceTime))

	loaded, err := s.LoadTree(ctx, options())
	require.NoError(t, err)

	assert.Equal(t, original.String(), loaded.String())
	assert.Empty(t, loaded.Problems())
	for n := range original.Root().Descendants() {
		other := nodeFor(t, loaded, n.Guid())
		assert.Equal(t, n.Item(), other.Item(), "item %s", n.Guid())
		assert.Equal(t, n.Content(), other.Content(), "content %s", n.Guid())
	}
	assert.Equal(t, []guid.Guid{"deletedAAAAA"}, loaded.Deletions())

	bookmark := nodeFor(t, loaded, "bookmarkBBBB").Item()
	assert.True(t, bookmark.NeedsMerge)
	assert.Equal(t, tree.Reupload, bookmark.Validity)
	assert.Equal(t, int64(1500), nodeFor(t, loaded, "folderAAAAAA").Item().Age)
}

func TestSaveReplacesPreviousTree(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "marktree.db"))

	require.NoError(t, s.SaveTree(ctx, localTree(t), referenceTime))

	smaller, err := sources.BuildLocalTree([]sources.Record{
		{ID: "menu________", Type: "folder", ParentID: "root________"},
		{ID: "bookmarkCCCC", Type: "bookmark", ParentID: "menu________"},
	}, options())
	require.NoError(t, err)
	later := referenceTime.Add(time.Hour)
	require.NoError(t, s.SaveTree(ctx, smaller, later))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Items)
	assert.Equal(t, 1, stats.Folders)
	assert.Equal(t, 0, stats.Tombstones)
	assert.True(t, later.Equal(stats.SavedAt))

	loaded, err := s.LoadTree(ctx, options())
	require.NoError(t, err)
	assert.Equal(t, []guid.Guid{"bookmarkCCCC"}, childGuids(nodeFor(t, loaded, guid.Menu)))
	_, ok := loaded.NodeForGuid("folderAAAAAA")
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "marktree.db"))

	empty, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Stats{}, empty)

	require.NoError(t, s.SaveTree(ctx, localTree(t), referenceTime))
	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Items)
	assert.Equal(t, 3, stats.Folders)
	assert.Equal(t, 1, stats.Tombstones)
	assert.True(t, referenceTime.Equal(stats.SavedAt))
}

func TestNoteDeleted(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "marktree.db"))
	require.NoError(t, s.SaveTree(ctx, localTree(t), referenceTime))

	require.NoError(t, s.NoteDeleted(ctx, "folderAAAAAA"))
	// Deleting twice is harmless
	require.NoError(t, s.NoteDeleted(ctx, "folderAAAAAA"))

	loaded, err := s.LoadTree(ctx, options())
	require.NoError(t, err)

	assert.Equal(t, []guid.Guid{"deletedAAAAA", "folderAAAAAA"}, loaded.Deletions())
	assert.Equal(t, []guid.Guid{"bookmarkBBBB"}, childGuids(nodeFor(t, loaded, guid.Menu)))

	// The folder's children lost their parent and land in unfiled
	assert.Equal(t, []guid.Guid{"bookmarkAAAA", "separatorAAA"}, childGuids(nodeFor(t, loaded, guid.Unfiled)))
	assert.Equal(t, 2, loaded.Problems().Counts().Orphans)

	err = s.NoteDeleted(ctx, guid.Root)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "marktree.db")

	first, err := store.Open(ctx, path, store.Options{})
	require.NoError(t, err)
	require.NoError(t, first.SaveTree(ctx, localTree(t), referenceTime))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	assert.Equal(t, path, second.Path())
	loaded, err := second.LoadTree(ctx, options())
	require.NoError(t, err)
	assert.Equal(t, localTree(t).String(), loaded.String())
}

func TestOpenErrors(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := store.Open(context.Background(), filepath.Join(blocker, "marktree.db"), store.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrDirCreate))

	notADatabase := filepath.Join(t.TempDir(), "garbage.db")
	require.NoError(t, os.WriteFile(notADatabase, []byte(strings.Repeat("not a sqlite database ", 400)), 0644))
	_, err = store.Open(context.Background(), notADatabase, store.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrStoreOpen))
}

// dirRecorder notes the directories created through it
type dirRecorder struct {
	filesystem.FS
	dirs []string
}

func (r *dirRecorder) MkdirAll(path string, perm os.FileMode) error {
	r.dirs = append(r.dirs, path)
	return r.FS.MkdirAll(path, perm)
}

func TestOpenCreatesDirectoryThroughFS(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	fsys := &dirRecorder{FS: filesystem.NewOS()}

	s, err := store.Open(context.Background(), filepath.Join(dir, "marktree.db"), store.Options{FS: fsys})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, []string{dir}, fsys.dirs)
	assert.DirExists(t, dir)

	// A filesystem that cannot create the directory fails the open
	_, err = store.Open(context.Background(), filepath.Join(t.TempDir(), "marktree.db"),
		store.Options{FS: filesystem.NewAferoFS(afero.NewReadOnlyFs(afero.NewMemMapFs()))})
	assert.True(t, errors.IsErrorCode(err, errors.ErrDirCreate))
}

func TestCancelledContext(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "marktree.db"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.LoadTree(ctx, options())
	assert.True(t, errors.IsErrorCode(err, errors.ErrStoreQuery))

	err = s.SaveTree(ctx, localTree(t), referenceTime)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStoreWrite))
}
