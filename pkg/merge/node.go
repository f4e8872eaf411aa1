package merge

import (
	"strings"

	"github.com/arthur-debert/marktree/pkg/guid"
)

// MergedNode is one item of the merged tree. Guid may differ from both sides
// when the merge deduplicated or fixed up an invalid GUID.
type MergedNode struct {
	Guid           guid.Guid
	MergeState     MergeState
	MergedChildren []MergedNode
}

// NewMergedNode returns a childless merged node
func NewMergedNode(g guid.Guid, state MergeState) MergedNode {
	return MergedNode{Guid: g, MergeState: state}
}

// RemoteGuidChanged reports whether the merged GUID differs from the remote
// item's, so the remote record must be replaced
func (n *MergedNode) RemoteGuidChanged() bool {
	remote, ok := n.MergeState.RemoteNode()
	return ok && remote.Guid() != n.Guid
}

// LocalGuidChanged reports whether the merged GUID differs from the local
// item's, so the local item must be renamed
func (n *MergedNode) LocalGuidChanged() bool {
	local, ok := n.MergeState.LocalNode()
	return ok && local.Guid() != n.Guid
}

// IsFolder reports whether the winning side is a folder
func (n *MergedNode) IsFolder() bool {
	return n.MergeState.Node().Item().IsFolder()
}

func (n *MergedNode) String() string {
	return string(n.Guid) + " " + n.MergeState.String()
}

// ToASCIIString renders the merged subtree rooted at n, one line per node,
// indenting each level with "| ".
func (n *MergedNode) ToASCIIString() string {
	type frame struct {
		node   *MergedNode
		prefix string
	}

	var lines []string
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		m := "🔖"
		if f.node.IsFolder() {
			m = "📂"
		}
		lines = append(lines, f.prefix+m+" "+f.node.String())

		childPrefix := f.prefix + "| "
		for i := len(f.node.MergedChildren) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: &f.node.MergedChildren[i], prefix: childPrefix})
		}
	}
	return strings.Join(lines, "\n")
}
