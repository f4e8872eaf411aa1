package tree

import (
	"github.com/arthur-debert/marktree/pkg/guid"
)

// resolution says which fact chose an entry's parent
type resolution int

const (
	resolvedRoot resolution = iota
	// resolvedUnchanged: the children and parentid facts agree
	resolvedUnchanged
	// resolvedByChildren: a folder's children won
	resolvedByChildren
	// resolvedByParentGuid: a parentid, or the orphan fallback, won. These
	// entries are appended to their parent's children after resolution.
	resolvedByParentGuid
)

type resolvedParent struct {
	how   resolution
	index int
	// fallback: no usable fact, placed in the orphan folder or the root
	fallback bool
}

// parentIndex returns the resolved parent, or false for the root
func (p resolvedParent) parentIndex() (int, bool) {
	if p.how == resolvedRoot {
		return 0, false
	}
	return p.index, true
}

// keepsChildPosition reports whether the entry stays where its parent's
// children list put it
func (p resolvedParent) keepsChildPosition() bool {
	return p.how == resolvedUnchanged || p.how == resolvedByChildren
}

// resolver picks exactly one parent for every staged entry
type resolver struct {
	builder  *Builder
	problems *Problems
}

// resolveAll returns the resolved parent of every entry, indexed like the
// builder's entries, and the entries to append to each parent because they
// were placed by parentid or as orphans.
func (r *resolver) resolveAll() ([]resolvedParent, map[int][]int) {
	parents := make([]resolvedParent, len(r.builder.entries))
	for i := range r.builder.entries {
		parents[i] = r.resolve(i)
	}
	r.rehomeOrphanLoop(parents)

	reparented := make(map[int][]int)
	for i, parent := range parents {
		if parent.how == resolvedByParentGuid {
			reparented[parent.index] = append(reparented[parent.index], i)
		}
	}
	return parents, reparented
}

// rehomeOrphanLoop moves an orphan to the root when the orphan folder it was
// given to is one of its own descendants. Only one orphan can close such a
// loop: the first one on the orphan folder's ancestor chain.
func (r *resolver) rehomeOrphanLoop(parents []resolvedParent) {
	target, ok := r.orphanTarget()
	if !ok {
		return
	}
	current := target
	for range parents {
		parent, ok := parents[current].parentIndex()
		if !ok {
			return
		}
		if parents[current].fallback && parent == target {
			parents[current] = resolvedParent{how: resolvedByParentGuid, index: 0, fallback: true}
			return
		}
		current = parent
	}
}

func (r *resolver) resolve(index int) resolvedParent {
	entry := &r.builder.entries[index]
	parent := r.resolveFacts(index, entry)

	if parent.how != resolvedRoot && entry.item.Guid.IsUserContentRoot() {
		if parent.index == 0 && (parent.keepsChildPosition() || !parent.fallback) {
			return parent
		}
		r.problems.note(MisparentedRoot, entry.item.Guid)
		return resolvedParent{how: resolvedByParentGuid, index: 0}
	}
	return parent
}

func (r *resolver) resolveFacts(index int, entry *stagedEntry) resolvedParent {
	switch entry.parent.state {
	case parentRoot:
		return resolvedParent{how: resolvedRoot}
	case parentNone:
		r.problems.note(Orphan, entry.item.Guid)
		return resolvedParent{how: resolvedByParentGuid, index: r.defaultOrphanIndex(index), fallback: true}
	case parentComplete:
		return resolvedParent{how: resolvedUnchanged, index: entry.parent.index}
	}

	candidates := entry.parent.candidates

	// A remote tree is usually ingested in two passes, children first and
	// parentids second. When both name the same folder the structure is
	// complete.
	if len(candidates) == 2 {
		if parentIndex, ok := r.splitStructure(candidates[0], candidates[1]); ok {
			return resolvedParent{how: resolvedUnchanged, index: parentIndex}
		}
	}

	if names := r.candidateNames(candidates); len(names) > 1 {
		r.problems.note(DivergedParents, entry.item.Guid, names...)
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if r.compare(candidates[i], candidates[best]) < 0 {
			best = i
		}
	}
	return r.resolveCandidate(index, entry, candidates[best])
}

// splitStructure matches a children fact and an unresolved parentid fact
// that name the same folder
func (r *resolver) splitStructure(a, b parentCandidate) (int, bool) {
	if a.kind == byUnknownItem {
		a, b = b, a
	}
	if a.kind != byChildren || b.kind != byUnknownItem {
		return 0, false
	}
	if index, ok := r.builder.indexByGuid[b.guid]; ok && index == a.index {
		return a.index, true
	}
	return 0, false
}

// rank orders candidates by kind: children before known parentids before
// unknown parentids, and unknown parentids that name an inserted folder
// before those that don't.
func (r *resolver) rank(c parentCandidate) (int, int, bool) {
	switch c.kind {
	case byChildren:
		return 0, c.index, true
	case byKnownItem:
		return 1, c.index, true
	default:
		if index, ok := r.builder.folderIndex(c.guid); ok {
			return 2, index, true
		}
		return 3, 0, false
	}
}

// compare orders two candidates. Within a kind the newer parent wins.
func (r *resolver) compare(a, b parentCandidate) int {
	rankA, indexA, resolvedA := r.rank(a)
	rankB, indexB, resolvedB := r.rank(b)
	if rankA != rankB {
		return rankA - rankB
	}
	if !resolvedA || !resolvedB {
		return 0
	}
	ageA := r.builder.entries[indexA].item.Age
	ageB := r.builder.entries[indexB].item.Age
	switch {
	case ageA < ageB:
		return -1
	case ageA > ageB:
		return 1
	}
	return 0
}

func (r *resolver) resolveCandidate(index int, entry *stagedEntry, c parentCandidate) resolvedParent {
	switch c.kind {
	case byChildren:
		return resolvedParent{how: resolvedByChildren, index: c.index}
	case byKnownItem:
		return resolvedParent{how: resolvedByParentGuid, index: c.index}
	}
	if parentIndex, ok := r.builder.folderIndex(c.guid); ok {
		return resolvedParent{how: resolvedByParentGuid, index: parentIndex}
	}
	r.problems.note(InvalidParentGuid, entry.item.Guid, c.guid)
	return resolvedParent{how: resolvedByParentGuid, index: r.defaultOrphanIndex(index), fallback: true}
}

// defaultOrphanIndex returns the configured orphan folder if it was inserted
// as a folder, else the root. The orphan folder never becomes its own
// parent.
func (r *resolver) defaultOrphanIndex(index int) int {
	if target, ok := r.orphanTarget(); ok && target != index {
		return target
	}
	return 0
}

func (r *resolver) orphanTarget() (int, bool) {
	if r.builder.reparentOrphansTo == "" {
		return 0, false
	}
	return r.builder.folderIndex(r.builder.reparentOrphansTo)
}

// candidateNames returns the distinct parent GUIDs named by candidates, in
// recording order
func (r *resolver) candidateNames(candidates []parentCandidate) []guid.Guid {
	names := make([]guid.Guid, 0, len(candidates))
	seen := make(map[guid.Guid]struct{}, len(candidates))
	for _, c := range candidates {
		name := c.guid
		if c.kind != byUnknownItem {
			name = r.builder.entries[c.index].item.Guid
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
