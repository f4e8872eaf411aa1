package tree

import (
	"iter"
	"strings"

	"github.com/arthur-debert/marktree/pkg/guid"
)

// Node is a read-only cursor over one entry of a Tree. It holds no state of
// its own and is only valid while the tree is. Two nodes are == only if they
// point at the same entry of the same tree, so structurally identical
// entries in different trees never compare equal.
type Node struct {
	tree  *Tree
	index int
}

func (n Node) entry() *treeEntry {
	return &n.tree.entries[n.index]
}

// IsZero reports whether n is the zero Node returned by failed lookups
func (n Node) IsZero() bool {
	return n.tree == nil
}

// Tree returns the tree n belongs to
func (n Node) Tree() *Tree {
	return n.tree
}

// Item returns the node's item
func (n Node) Item() Item {
	return n.entry().item
}

// Guid returns the node's GUID
func (n Node) Guid() guid.Guid {
	return n.entry().item.Guid
}

// Kind returns the node's kind
func (n Node) Kind() Kind {
	return n.entry().item.Kind
}

// Content returns the node's dedupe content, or nil
func (n Node) Content() Content {
	return n.entry().content
}

// Divergence returns whether the node's structure was repaired
func (n Node) Divergence() Divergence {
	return n.entry().divergence
}

// Diverged is shorthand for Divergence() == Diverged
func (n Node) Diverged() bool {
	return n.entry().divergence == Diverged
}

// IsRoot reports whether n is the tree's root
func (n Node) IsRoot() bool {
	return n.index == 0
}

// IsUserContentRoot reports whether n is one of the four fixed top-level
// folders
func (n Node) IsUserContentRoot() bool {
	return n.Guid().IsUserContentRoot()
}

// Parent returns the node's parent, or false for the root
func (n Node) Parent() (Node, bool) {
	parentIndex := n.entry().parentIndex
	if parentIndex < 0 {
		return Node{}, false
	}
	return Node{tree: n.tree, index: parentIndex}, true
}

// ChildCount returns the number of children
func (n Node) ChildCount() int {
	return len(n.entry().childIndices)
}

// Child returns the child at position i
func (n Node) Child(i int) (Node, bool) {
	children := n.entry().childIndices
	if i < 0 || i >= len(children) {
		return Node{}, false
	}
	return Node{tree: n.tree, index: children[i]}, true
}

// Children yields the node's children in order
func (n Node) Children() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, childIndex := range n.entry().childIndices {
			if !yield(Node{tree: n.tree, index: childIndex}) {
				return
			}
		}
	}
}

// Descendants yields every node below n in pre-order
func (n Node) Descendants() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		stack := reversedChildren(n, nil)
		for len(stack) > 0 {
			next := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(next) {
				return
			}
			stack = reversedChildren(next, stack)
		}
	}
}

// reversedChildren pushes n's children onto stack so they pop in order
func reversedChildren(n Node, stack []Node) []Node {
	children := n.entry().childIndices
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, Node{tree: n.tree, index: children[i]})
	}
	return stack
}

// Level returns the node's depth; the root is at level 0
func (n Node) Level() int {
	level := 0
	for parent, ok := n.Parent(); ok; parent, ok = parent.Parent() {
		level++
	}
	return level
}

// IsSyncable reports whether the node should be synced. The root is never
// synced, and neither is anything outside the user content roots. Diverged
// queries are skipped too, since older clients misfiled them.
func (n Node) IsSyncable() bool {
	for current, ok := n, true; ok; current, ok = current.Parent() {
		if current.IsRoot() {
			return false
		}
		if current.IsUserContentRoot() {
			return true
		}
		if current.Kind() == Query && current.Diverged() {
			return false
		}
	}
	return false
}

func (n Node) String() string {
	return n.entry().item.String()
}

// ToASCIIString renders the subtree rooted at n, one line per node. Folders
// are marked 📂, everything else 🔖, diverged nodes are prefixed with ❗ and
// each level is indented with "| ".
func (n Node) ToASCIIString() string {
	type frame struct {
		node   Node
		prefix string
	}

	var lines []string
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		lines = append(lines, f.prefix+marker(f.node.Item().IsFolder(), f.node.Diverged())+" "+f.node.String())

		if !f.node.Item().IsFolder() {
			continue
		}
		childPrefix := f.prefix + "| "
		children := f.node.entry().childIndices
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: Node{tree: n.tree, index: children[i]}, prefix: childPrefix})
		}
	}
	return strings.Join(lines, "\n")
}

// marker returns the line marker used by the ASCII renderings
func marker(folder, diverged bool) string {
	m := "🔖"
	if folder {
		m = "📂"
	}
	if diverged {
		return "❗" + m
	}
	return m
}
