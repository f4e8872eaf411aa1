package tree

import (
	"github.com/arthur-debert/marktree/pkg/guid"
)

// childRef is a child recorded in a folder's children. The child may be
// recorded before its own item is inserted, in which case it is missing
// until Builder.Item patches it.
type childRef struct {
	index  int
	guid   guid.Guid
	exists bool
}

// candidateKind orders competing parent facts; lower kinds win ties
type candidateKind int

const (
	// byChildren: the parent lists the child in its children
	byChildren candidateKind = iota
	// byKnownItem: the child names an inserted parent in its parentid
	byKnownItem
	// byUnknownItem: the child names a parent that was not looked up when
	// the fact was recorded
	byUnknownItem
)

type parentCandidate struct {
	kind  candidateKind
	index int       // byChildren, byKnownItem
	guid  guid.Guid // byUnknownItem
}

// parentState tracks how much is known about an entry's parent.
// It upgrades none -> complete -> partial as facts arrive.
type parentState int

const (
	parentNone parentState = iota
	parentRoot
	parentComplete
	parentPartial
)

type stagedParent struct {
	state      parentState
	index      int               // parentComplete
	candidates []parentCandidate // parentPartial
}

type stagedEntry struct {
	item     Item
	content  Content
	parent   stagedParent
	children []childRef
}

// Builder accumulates items and possibly contradictory structure facts, in
// any order, and converts them into a Tree with IntoTree. Entries are
// addressed by their position in one append-only slice; the root is always
// at index 0.
//
// A Builder is owned by a single goroutine. IntoTree consumes it: every
// method returns an error afterwards.
type Builder struct {
	entries           []stagedEntry
	indexByGuid       map[guid.Guid]int
	pendingChildren   map[guid.Guid][]int // missing child -> folders that listed it
	reparentOrphansTo guid.Guid
	consumed          bool
}

// WithRoot returns a Builder holding only the given root item
func WithRoot(root Item) *Builder {
	b := &Builder{
		entries:         make([]stagedEntry, 0, 16),
		indexByGuid:     make(map[guid.Guid]int, 16),
		pendingChildren: make(map[guid.Guid][]int),
	}
	b.indexByGuid[root.Guid] = 0
	b.entries = append(b.entries, stagedEntry{
		item:   root,
		parent: stagedParent{state: parentRoot},
	})
	return b
}

// ReparentOrphansTo sets the folder that receives items without any usable
// parent. It only takes effect if g names an inserted folder when the tree
// is built; otherwise orphans go to the root.
func (b *Builder) ReparentOrphansTo(g guid.Guid) *Builder {
	b.reparentOrphansTo = g
	return b
}

// Len returns the number of staged entries, including the root
func (b *Builder) Len() int {
	return len(b.entries)
}

// Item inserts a new item without a parent and returns a handle for
// recording its parent. Inserting a GUID twice fails with DUPLICATE_ITEM.
func (b *Builder) Item(item Item) (ParentBuilder, error) {
	if b.consumed {
		return ParentBuilder{}, consumedError()
	}
	if _, ok := b.indexByGuid[item.Guid]; ok {
		return ParentBuilder{}, duplicateItemError(item.Guid)
	}

	index := len(b.entries)
	b.indexByGuid[item.Guid] = index
	b.entries = append(b.entries, stagedEntry{item: item})

	// Folders that listed this item before it arrived now know it
	if parents, ok := b.pendingChildren[item.Guid]; ok {
		delete(b.pendingChildren, item.Guid)
		for _, parentIndex := range parents {
			b.entries[index].parent = b.entries[index].parent.with(parentCandidate{kind: byChildren, index: parentIndex})
			b.entries[parentIndex].resolveMissingChild(item.Guid, index)
		}
	}

	return ParentBuilder{builder: b, child: childRef{index: index, guid: item.Guid, exists: true}}, nil
}

// ParentFor returns a handle for recording a parent fact about child, which
// does not need to be inserted yet.
func (b *Builder) ParentFor(child guid.Guid) ParentBuilder {
	if index, ok := b.indexByGuid[child]; ok {
		return ParentBuilder{builder: b, child: childRef{index: index, guid: child, exists: true}}
	}
	return ParentBuilder{builder: b, child: childRef{guid: child}}
}

// Content attaches dedupe content to an inserted item
func (b *Builder) Content(g guid.Guid, content Content) error {
	if b.consumed {
		return consumedError()
	}
	index, ok := b.indexByGuid[g]
	if !ok {
		return missingItemError(g)
	}
	b.entries[index].content = content
	return nil
}

// folderIndex returns the index of g if it names an inserted folder
func (b *Builder) folderIndex(g guid.Guid) (int, bool) {
	index, ok := b.indexByGuid[g]
	if !ok || !b.entries[index].item.IsFolder() {
		return 0, false
	}
	return index, true
}

// ParentBuilder records a single parent fact for one child. It is returned
// by Builder.Item and Builder.ParentFor; each method consumes it and returns
// the Builder for chaining.
type ParentBuilder struct {
	builder *Builder
	child   childRef
}

// ByChildren records that the folder parent lists the child in its
// children. The child may not be inserted yet. Fails with INVALID_PARENT if
// parent is not an inserted folder.
func (p ParentBuilder) ByChildren(parent guid.Guid) (*Builder, error) {
	b := p.builder
	if b == nil || b.consumed {
		return b, consumedError()
	}
	parentIndex, ok := b.folderIndex(parent)
	if !ok {
		return b, invalidParentError(p.child.guid, parent)
	}

	if p.child.exists {
		if err := b.entries[p.child.index].addParents(parentCandidate{kind: byChildren, index: parentIndex}); err != nil {
			return b, err
		}
	} else {
		b.pendingChildren[p.child.guid] = append(b.pendingChildren[p.child.guid], parentIndex)
	}
	b.entries[parentIndex].children = append(b.entries[parentIndex].children, p.child)
	return b, nil
}

// ByParentGuid records the child's own parentid. The child must be inserted
// (MISSING_ITEM otherwise); the parent is looked up when the tree is built.
func (p ParentBuilder) ByParentGuid(parent guid.Guid) (*Builder, error) {
	b := p.builder
	if b == nil || b.consumed {
		return b, consumedError()
	}
	if !p.child.exists {
		return b, missingItemError(p.child.guid)
	}
	if err := b.entries[p.child.index].addParents(parentCandidate{kind: byUnknownItem, guid: parent}); err != nil {
		return b, err
	}
	return b, nil
}

// ByStructure records both facts at once, for input already known to be
// consistent such as the local store. The child must be inserted and parent
// must be an inserted folder.
func (p ParentBuilder) ByStructure(parent guid.Guid) (*Builder, error) {
	b := p.builder
	if b == nil || b.consumed {
		return b, consumedError()
	}
	parentIndex, ok := b.folderIndex(parent)
	if !ok {
		return b, invalidParentError(p.child.guid, parent)
	}
	if !p.child.exists {
		return b, missingItemError(p.child.guid)
	}

	err := b.entries[p.child.index].addParents(
		parentCandidate{kind: byChildren, index: parentIndex},
		parentCandidate{kind: byKnownItem, index: parentIndex},
	)
	if err != nil {
		return b, err
	}
	b.entries[parentIndex].children = append(b.entries[parentIndex].children, p.child)
	return b, nil
}

// addParents records new parent facts. The root cannot be reparented.
func (e *stagedEntry) addParents(candidates ...parentCandidate) error {
	if e.parent.state == parentRoot {
		return duplicateItemError(e.item.Guid)
	}
	e.parent = e.parent.with(candidates...)
	return nil
}

// with returns the parent state upgraded by new candidates
func (p stagedParent) with(candidates ...parentCandidate) stagedParent {
	switch p.state {
	case parentNone:
		if len(candidates) == 2 && isStructurePair(candidates[0], candidates[1]) {
			return stagedParent{state: parentComplete, index: candidates[0].index}
		}
		return stagedParent{state: parentPartial, candidates: append([]parentCandidate(nil), candidates...)}
	case parentComplete:
		merged := make([]parentCandidate, 0, 2+len(candidates))
		merged = append(merged,
			parentCandidate{kind: byChildren, index: p.index},
			parentCandidate{kind: byKnownItem, index: p.index},
		)
		return stagedParent{state: parentPartial, candidates: append(merged, candidates...)}
	case parentPartial:
		return stagedParent{state: parentPartial, candidates: append(p.candidates, candidates...)}
	}
	return p
}

// isStructurePair reports whether a and b are a children fact and a known
// parentid fact naming the same parent
func isStructurePair(a, b parentCandidate) bool {
	if a.kind == byKnownItem {
		a, b = b, a
	}
	return a.kind == byChildren && b.kind == byKnownItem && a.index == b.index
}

func (e *stagedEntry) resolveMissingChild(g guid.Guid, index int) {
	for i, child := range e.children {
		if !child.exists && child.guid == g {
			e.children[i] = childRef{index: index, guid: g, exists: true}
		}
	}
}
