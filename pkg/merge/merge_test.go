// pkg/merge/merge_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: pkg/tree
// PURPOSE: Test merge states, upload reasons and merged tree output

package merge_test

import (
	"testing"

	"github.com/arthur-debert/marktree/pkg/guid"
	"github.com/arthur-debert/marktree/pkg/merge"
	"github.com/arthur-debert/marktree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replicas struct {
	local  *tree.Tree
	remote *tree.Tree
}

// buildReplicas builds the same small tree twice:
//
//	root
//	  menu
//	    folderAAAAAA
//	      bookmarkAAAA
//	    bookmarkBBBB
func buildReplicas(t *testing.T) replicas {
	t.Helper()
	build := func() *tree.Tree {
		b := tree.WithRoot(tree.NewItem(guid.Root, tree.Folder))
		for _, link := range []struct {
			item   tree.Item
			parent guid.Guid
		}{
			{tree.NewItem(guid.Menu, tree.Folder), guid.Root},
			{tree.NewItem("folderAAAAAA", tree.Folder), guid.Menu},
			{tree.NewItem("bookmarkAAAA", tree.Bookmark), "folderAAAAAA"},
			{tree.NewItem("bookmarkBBBB", tree.Bookmark), guid.Menu},
		} {
			pb, err := b.Item(link.item)
			require.NoError(t, err)
			_, err = pb.ByStructure(link.parent)
			require.NoError(t, err)
		}
		tr, err := b.IntoTree()
		require.NoError(t, err)
		return tr
	}
	return replicas{local: build(), remote: build()}
}

func (r replicas) nodes(t *testing.T, g guid.Guid) (tree.Node, tree.Node) {
	t.Helper()
	local, ok := r.local.NodeForGuid(g)
	require.True(t, ok)
	remote, ok := r.remote.NodeForGuid(g)
	require.True(t, ok)
	return local, remote
}

func TestMergeStates(t *testing.T) {
	r := buildReplicas(t)
	local, remote := r.nodes(t, "bookmarkAAAA")

	tests := []struct {
		name        string
		state       merge.MergeState
		hasLocal    bool
		hasRemote   bool
		winner      *tree.Tree
		shouldApply bool
		reason      merge.UploadReason
		label       string
	}{
		{"local only", merge.NewLocalOnly(local), true, false, r.local, false, merge.UploadLocallyNew, "(Local, Local)"},
		{"remote only", merge.NewRemoteOnly(remote), false, true, r.remote, true, merge.UploadNone, "(Remote, Remote)"},
		{"local", merge.NewLocal(local, remote), true, true, r.local, false, merge.UploadMerged, "(Local, Local)"},
		{"remote", merge.NewRemote(local, remote), true, true, r.remote, true, merge.UploadNone, "(Remote, Remote)"},
		{"unchanged", merge.NewUnchanged(local, remote), true, true, r.local, false, merge.UploadNone, "(Unchanged, Unchanged)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.state.LocalNode()
			assert.Equal(t, tt.hasLocal, ok)
			_, ok = tt.state.RemoteNode()
			assert.Equal(t, tt.hasRemote, ok)
			assert.Same(t, tt.winner, tt.state.Node().Tree())
			assert.Equal(t, tt.shouldApply, tt.state.ShouldApply())
			assert.Equal(t, tt.reason, tt.state.UploadReason())
			assert.Equal(t, tt.label, tt.state.String())
		})
	}
}

func TestWithNewStructure(t *testing.T) {
	r := buildReplicas(t)
	local, remote := r.nodes(t, "folderAAAAAA")

	tests := []struct {
		name   string
		state  merge.MergeState
		kind   merge.StateKind
		reason merge.UploadReason
		apply  bool
	}{
		{"remote only", merge.NewRemoteOnly(remote), merge.RemoteOnlyWithNewStructure, merge.UploadNewStructure, true},
		{"remote", merge.NewRemote(local, remote), merge.RemoteWithNewStructure, merge.UploadNewStructure, true},
		{"unchanged", merge.NewUnchanged(local, remote), merge.Local, merge.UploadMerged, false},
		{"local", merge.NewLocal(local, remote), merge.Local, merge.UploadMerged, false},
		{"local only", merge.NewLocalOnly(local), merge.LocalOnly, merge.UploadLocallyNew, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := tt.state.WithNewStructure()
			assert.Equal(t, tt.kind, next.Kind())
			assert.Equal(t, tt.reason, next.UploadReason())
			assert.Equal(t, tt.apply, next.ShouldApply())

			// Applying it twice changes nothing
			assert.Equal(t, next, next.WithNewStructure())
		})
	}

	state := merge.NewRemoteOnly(remote).WithNewStructure()
	_, ok := state.LocalNode()
	assert.False(t, ok)
	assert.Equal(t, "(Remote, New)", state.String())
}

func TestMergedNodeGuidChanges(t *testing.T) {
	r := buildReplicas(t)
	local, remote := r.nodes(t, "bookmarkAAAA")

	same := merge.NewMergedNode("bookmarkAAAA", merge.NewUnchanged(local, remote))
	assert.False(t, same.LocalGuidChanged())
	assert.False(t, same.RemoteGuidChanged())

	renamed := merge.NewMergedNode("bookmarkCCCC", merge.NewLocal(local, remote))
	assert.True(t, renamed.LocalGuidChanged())
	assert.True(t, renamed.RemoteGuidChanged())

	localOnly := merge.NewMergedNode("bookmarkCCCC", merge.NewLocalOnly(local))
	assert.True(t, localOnly.LocalGuidChanged())
	assert.False(t, localOnly.RemoteGuidChanged())

	assert.Equal(t, "bookmarkCCCC (Local, Local)", renamed.String())
}

func mergedRoot(t *testing.T) *merge.MergedRoot {
	t.Helper()
	r := buildReplicas(t)
	state := func(g guid.Guid) merge.MergeState {
		local, remote := r.nodes(t, g)
		return merge.NewUnchanged(local, remote)
	}

	folderLocal, folderRemote := r.nodes(t, "folderAAAAAA")
	bookmarkLocal, _ := r.nodes(t, "bookmarkBBBB")

	folderNode := merge.NewMergedNode("folderAAAAAA", merge.NewRemote(folderLocal, folderRemote).WithNewStructure())
	folderNode.MergedChildren = []merge.MergedNode{
		merge.NewMergedNode("bookmarkAAAA", state("bookmarkAAAA")),
	}
	menu := merge.NewMergedNode(guid.Menu, state(guid.Menu))
	menu.MergedChildren = []merge.MergedNode{
		folderNode,
		merge.NewMergedNode("bookmarkBBBB", merge.NewLocalOnly(bookmarkLocal)),
	}
	root := merge.NewMergedNode(guid.Root, state(guid.Root))
	root.MergedChildren = []merge.MergedNode{menu}

	return merge.NewMergedRoot(root, []merge.Deletion{
		{Guid: "deletedAAAAA", LocalLevel: 2, ShouldUploadTombstone: true},
		{Guid: "deletedBBBBB"},
	})
}

func TestDescendants(t *testing.T) {
	root := mergedRoot(t)

	type flat struct {
		parent   guid.Guid
		level    int
		position int
		guid     guid.Guid
	}
	var got []flat
	for _, d := range root.Descendants() {
		got = append(got, flat{d.Parent.Guid, d.Level, d.Position, d.Node.Guid})
	}

	assert.Equal(t, []flat{
		{guid.Root, 1, 0, guid.Menu},
		{guid.Menu, 2, 0, "folderAAAAAA"},
		{"folderAAAAAA", 3, 0, "bookmarkAAAA"},
		{guid.Menu, 2, 1, "bookmarkBBBB"},
	}, got)

	assert.Same(t, root.Node(), root.Descendants()[0].Parent)
}

func TestCounts(t *testing.T) {
	counts := mergedRoot(t).Counts()
	assert.Equal(t, merge.Counts{
		None:         2,
		LocallyNew:   1,
		NewStructure: 1,
		Deleted:      2,
		Tombstones:   1,
	}, counts)
}

func TestMergedRootString(t *testing.T) {
	expected := "📂 root________ (Unchanged, Unchanged)\n" +
		"| 📂 menu________ (Unchanged, Unchanged)\n" +
		"| | 📂 folderAAAAAA (Remote, New)\n" +
		"| | | 🔖 bookmarkAAAA (Unchanged, Unchanged)\n" +
		"| | 🔖 bookmarkBBBB (Local, Local)\n" +
		"Deleted: [deletedAAAAA, deletedBBBBB]"
	assert.Equal(t, expected, mergedRoot(t).String())
}

func TestEmptyMergedRoot(t *testing.T) {
	r := buildReplicas(t)
	root := merge.NewMergedRoot(merge.NewMergedNode(guid.Root, merge.NewUnchanged(r.local.Root(), r.remote.Root())), nil)
	assert.Empty(t, root.Descendants())
	assert.Equal(t, merge.Counts{}, root.Counts())
	assert.Equal(t, "📂 root________ (Unchanged, Unchanged)", root.String())
}
