package tree

import (
	"slices"
	"strings"

	"github.com/arthur-debert/marktree/pkg/guid"
	"github.com/arthur-debert/marktree/pkg/logging"
)

// IntoTree resolves one parent per entry, rejects parent cycles and
// assembles the final Tree. It consumes the builder: the staged entries
// move into the tree and every later call on the builder fails.
//
// Conversion fails only on CYCLE. Every other contradiction is repaired and
// reported through the divergence flags and Tree.Problems.
func (b *Builder) IntoTree() (*Tree, error) {
	if b.consumed {
		return nil, consumedError()
	}
	b.consumed = true

	logger := logging.GetLogger("tree")
	done := logging.LogOperationStart(logger, "into-tree")
	defer done()

	var problems Problems
	r := &resolver{builder: b, problems: &problems}
	parents, reparented := r.resolveAll()

	if index, ok := detectCycles(parents); ok {
		g := b.entries[index].item.Guid
		logger.Debug().Str("guid", string(g)).Msg("Parent cycle detected")
		return nil, cycleError(g)
	}

	for _, orphans := range reparented {
		slices.SortFunc(orphans, func(a, c int) int {
			return strings.Compare(string(b.entries[a].item.Guid), string(b.entries[c].item.Guid))
		})
	}

	entries := make([]treeEntry, len(b.entries))
	placed := make([]bool, len(b.entries))
	diverged := 0

	for index := range b.entries {
		staged := &b.entries[index]
		entry := treeEntry{
			item:        staged.item,
			content:     staged.content,
			parentIndex: -1,
			divergence:  Consistent,
		}

		parent := parents[index]
		if parentIndex, ok := parent.parentIndex(); ok {
			entry.parentIndex = parentIndex
			if parent.how != resolvedUnchanged {
				entry.divergence = Diverged
			}
		}

		entry.childIndices = make([]int, 0, len(staged.children)+len(reparented[index]))
		for _, child := range staged.children {
			if !child.exists {
				problems.note(MissingChild, child.guid, staged.item.Guid)
				entry.divergence = Diverged
				continue
			}
			childParent := parents[child.index]
			if childParent.index != index || !childParent.keepsChildPosition() || placed[child.index] {
				entry.divergence = Diverged
				continue
			}
			placed[child.index] = true
			entry.childIndices = append(entry.childIndices, child.index)
		}

		if orphans, ok := reparented[index]; ok {
			for _, orphan := range orphans {
				placed[orphan] = true
			}
			entry.childIndices = append(entry.childIndices, orphans...)
			entry.divergence = Diverged
		}

		if entry.divergence == Diverged {
			diverged++
			logger.Trace().Str("guid", string(entry.item.Guid)).Msg("Entry diverged")
		}
		entries[index] = entry
	}

	problems.sort()

	t := &Tree{
		entries:     entries,
		indexByGuid: b.indexByGuid,
		deleted:     make(map[guid.Guid]struct{}),
		problems:    problems,
	}
	b.entries = nil
	b.indexByGuid = nil
	b.pendingChildren = nil

	logger.Debug().
		Int("entries", len(entries)).
		Int("diverged", diverged).
		Int("problems", len(problems)).
		Msg("Tree assembled")

	return t, nil
}
