package tree

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/arthur-debert/marktree/pkg/guid"
)

// Divergence flags an entry whose final structure disagrees with at least
// one recorded fact. Diverged entries must be re-uploaded.
type Divergence int

const (
	Consistent Divergence = iota
	Diverged
)

func (d Divergence) String() string {
	if d == Diverged {
		return "Diverged"
	}
	return "Consistent"
}

type treeEntry struct {
	item         Item
	content      Content
	parentIndex  int // -1 for the root
	childIndices []int
	divergence   Divergence
}

// Tree is a well-formed, acyclic bookmark tree: every entry except the root
// has exactly one parent, and every folder's children agree with their
// parent. The root is always entry 0.
//
// The structure is immutable and safe for concurrent readers. The tombstone
// set is not: NoteDeleted must not race with other calls.
type Tree struct {
	entries     []treeEntry
	indexByGuid map[guid.Guid]int
	deleted     map[guid.Guid]struct{}
	problems    Problems
}

// Root returns the root node
func (t *Tree) Root() Node {
	return Node{tree: t, index: 0}
}

// Size returns the number of live entries, including the root
func (t *Tree) Size() int {
	return len(t.entries)
}

// NodeForGuid returns the node for g, if it is in the tree
func (t *Tree) NodeForGuid(g guid.Guid) (Node, bool) {
	index, ok := t.indexByGuid[g]
	if !ok {
		return Node{}, false
	}
	return Node{tree: t, index: index}, true
}

// Guids yields the GUID of every live entry in insertion order, then every
// tombstone in GUID order.
func (t *Tree) Guids() iter.Seq[guid.Guid] {
	return func(yield func(guid.Guid) bool) {
		for i := range t.entries {
			if !yield(t.entries[i].item.Guid) {
				return
			}
		}
		for _, g := range t.Deletions() {
			if !yield(g) {
				return
			}
		}
	}
}

// NoteDeleted records a tombstone for g
func (t *Tree) NoteDeleted(g guid.Guid) {
	t.deleted[g] = struct{}{}
}

// IsDeleted reports whether g has a tombstone
func (t *Tree) IsDeleted(g guid.Guid) bool {
	_, ok := t.deleted[g]
	return ok
}

// Deletions returns the tombstones sorted by GUID
func (t *Tree) Deletions() []guid.Guid {
	return slices.Sorted(maps.Keys(t.deleted))
}

// Problems returns the structure problems found while building the tree
func (t *Tree) Problems() Problems {
	return t.problems
}

// String renders the tree with Node.ToASCIIString, followed by the
// tombstones if there are any.
func (t *Tree) String() string {
	var sb strings.Builder
	sb.WriteString(t.Root().ToASCIIString())
	if deletions := t.Deletions(); len(deletions) > 0 {
		sb.WriteString("\nDeleted: [")
		for i, g := range deletions {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(string(g))
		}
		sb.WriteString("]")
	}
	return sb.String()
}
