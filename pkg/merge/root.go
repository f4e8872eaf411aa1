package merge

import (
	"strings"

	"github.com/arthur-debert/marktree/pkg/guid"
)

// Deletion is an item deleted on one side that the merge keeps deleted
type Deletion struct {
	Guid guid.Guid
	// LocalLevel is the item's depth in the local tree, or 0 if it only
	// existed remotely
	LocalLevel int
	// ShouldUploadTombstone is set when the server still has the item
	ShouldUploadTombstone bool
}

// MergedDescendant is one entry of the flattened merged tree
type MergedDescendant struct {
	Parent   *MergedNode
	Level    int
	Position int
	Node     *MergedNode
}

// Counts tallies a merged tree by upload reason. The root is not counted.
type Counts struct {
	None         int
	LocallyNew   int
	Merged       int
	NewStructure int
	Deleted      int
	Tombstones   int // deletions that must be uploaded
}

// MergedRoot is the result of merging two trees
type MergedRoot struct {
	node      MergedNode
	deletions []Deletion
}

// NewMergedRoot wraps the merged root node and the merge's deletions
func NewMergedRoot(node MergedNode, deletions []Deletion) *MergedRoot {
	return &MergedRoot{node: node, deletions: deletions}
}

// Node returns the merged root node
func (r *MergedRoot) Node() *MergedNode {
	return &r.node
}

// Deletions returns the deletions in the order the merge recorded them
func (r *MergedRoot) Deletions() []Deletion {
	return r.deletions
}

// Descendants flattens the merged tree in pre-order, without the root. This
// is the order items are applied locally and uploaded. Direct children of
// the root are at level 1.
func (r *MergedRoot) Descendants() []MergedDescendant {
	var descendants []MergedDescendant
	stack := pushChildren(nil, &r.node, 1)
	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		descendants = append(descendants, d)
		stack = pushChildren(stack, d.Node, d.Level+1)
	}
	return descendants
}

// pushChildren pushes parent's children onto stack so they pop in order
func pushChildren(stack []MergedDescendant, parent *MergedNode, level int) []MergedDescendant {
	for i := len(parent.MergedChildren) - 1; i >= 0; i-- {
		stack = append(stack, MergedDescendant{
			Parent:   parent,
			Level:    level,
			Position: i,
			Node:     &parent.MergedChildren[i],
		})
	}
	return stack
}

// Counts returns the upload summary of the merged tree
func (r *MergedRoot) Counts() Counts {
	var c Counts
	for _, d := range r.Descendants() {
		switch d.Node.MergeState.UploadReason() {
		case UploadNone:
			c.None++
		case UploadLocallyNew:
			c.LocallyNew++
		case UploadMerged:
			c.Merged++
		case UploadNewStructure:
			c.NewStructure++
		}
	}
	for _, del := range r.deletions {
		c.Deleted++
		if del.ShouldUploadTombstone {
			c.Tombstones++
		}
	}
	return c
}

// String renders the merged tree followed by the deletions, if any
func (r *MergedRoot) String() string {
	var sb strings.Builder
	sb.WriteString(r.node.ToASCIIString())
	if len(r.deletions) > 0 {
		sb.WriteString("\nDeleted: [")
		for i, del := range r.deletions {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(string(del.Guid))
		}
		sb.WriteString("]")
	}
	return sb.String()
}
