// pkg/sources/xbel_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Memory FS
// PURPOSE: Test XBEL import, export and derived GUIDs

package sources_test

import (
	"testing"

	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/arthur-debert/marktree/pkg/filesystem"
	"github.com/arthur-debert/marktree/pkg/guid"
	"github.com/arthur-debert/marktree/pkg/sources"
	"github.com/arthur-debert/marktree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXBEL = `<?xml version="1.0" encoding="UTF-8"?>
<xbel version="1.0">
  <folder id="menu________">
    <title>Bookmarks Menu</title>
    <bookmark id="bookmarkAAAA" href="https://go.dev" modified="2024-03-01T11:59:59Z">
      <title>Go</title>
    </bookmark>
    <separator/>
    <bookmark href="place:sort=8">
      <title>Most Visited</title>
    </bookmark>
  </folder>
  <folder id="not a guid">
    <title>Projects</title>
  </folder>
</xbel>
`

func TestParseXBEL(t *testing.T) {
	records, err := sources.ParseXBEL([]byte(sampleXBEL))
	require.NoError(t, err)
	require.Len(t, records, 6)

	root, menu, bookmark, separator, query, projects := records[0], records[1], records[2], records[3], records[4], records[5]

	assert.Equal(t, string(guid.Root), root.ID)
	assert.Equal(t, []string{string(guid.Menu), projects.ID}, root.Children)

	assert.Equal(t, "Bookmarks Menu", menu.Title)
	assert.Equal(t, string(guid.Root), menu.ParentID)
	assert.Equal(t, []string{"bookmarkAAAA", separator.ID, query.ID}, menu.Children)

	assert.Equal(t, "bookmark", bookmark.Type)
	assert.Equal(t, "https://go.dev", bookmark.URI)
	assert.Equal(t, "Go", bookmark.Title)
	assert.Equal(t, int64(1709294399000), bookmark.Modified)

	assert.Equal(t, "separator", separator.Type)
	assert.Equal(t, 1, separator.Position)
	assert.True(t, separator.Guid().IsValid())

	assert.Equal(t, "query", query.Type)
	assert.Equal(t, string(guid.Menu), query.ParentID)

	assert.Equal(t, "folder", projects.Type)
	assert.True(t, projects.Guid().IsValid())
	assert.NotEqual(t, "not a guid", projects.ID)

	// Derived GUIDs are stable across reads
	again, err := sources.ParseXBEL([]byte(sampleXBEL))
	require.NoError(t, err)
	assert.Equal(t, records, again)
}

func TestParseXBELErrors(t *testing.T) {
	_, err := sources.ParseXBEL([]byte("<xbel><folder></xbel>"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceParse))

	_, err = sources.ParseXBEL([]byte(`<?xml version="1.0"?><opml/>`))
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceParse))

	_, err = sources.ReadXBEL(filesystem.NewMemory(), "/missing.xbel")
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceRead))
}

func TestXBELImportExport(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/in.xbel", []byte(sampleXBEL), 0644))

	records, err := sources.ReadXBEL(fsys, "/in.xbel")
	require.NoError(t, err)
	imported, err := sources.BuildLocalTree(records, options())
	require.NoError(t, err)
	assert.Empty(t, imported.Problems())

	bookmark := nodeFor(t, imported, "bookmarkAAAA")
	assert.Equal(t, int64(1000), bookmark.Item().Age)
	assert.Equal(t, tree.Query, nodeFor(t, imported, guid.Guid(records[4].ID)).Kind())

	require.NoError(t, sources.WriteXBEL(fsys, "/out/exported.xbel", imported, referenceTime))

	data, err := fsys.ReadFile("/out/exported.xbel")
	require.NoError(t, err)
	assert.Contains(t, string(data), `<!DOCTYPE xbel`)
	assert.Contains(t, string(data), `<bookmark id="bookmarkAAAA" href="https://go.dev" modified="2024-03-01T11:59:59Z">`)

	reread, err := sources.ReadXBEL(fsys, "/out/exported.xbel")
	require.NoError(t, err)
	reimported, err := sources.BuildLocalTree(reread, options())
	require.NoError(t, err)

	assert.Equal(t, imported.String(), reimported.String())
	for n := range imported.Root().Descendants() {
		assert.Equal(t, n.Content(), nodeFor(t, reimported, n.Guid()).Content(), "content of %s", n.Guid())
	}
}
