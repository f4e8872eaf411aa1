package display

import (
	"slices"
	"strings"

	"github.com/arthur-debert/marktree/pkg/guid"
	"github.com/arthur-debert/marktree/pkg/tree"
)

// DifferenceKind classifies how an item differs between two replicas
type DifferenceKind int

const (
	LocalOnly DifferenceKind = iota
	RemoteOnly
	DeletedLocally
	DeletedRemotely
	Moved
	// Diverged items sit under the same parent on both sides, but the
	// remote facts about them disagreed
	Diverged
)

func (k DifferenceKind) String() string {
	switch k {
	case LocalOnly:
		return "local only"
	case RemoteOnly:
		return "remote only"
	case DeletedLocally:
		return "deleted locally"
	case DeletedRemotely:
		return "deleted remotely"
	case Moved:
		return "moved"
	case Diverged:
		return "diverged"
	default:
		return "unknown"
	}
}

// Difference is one GUID whose placement differs between local and remote
type Difference struct {
	Guid         guid.Guid
	Kind         DifferenceKind
	LocalParent  guid.Guid
	RemoteParent guid.Guid
}

func parentOf(n tree.Node) guid.Guid {
	if parent, ok := n.Parent(); ok {
		return parent.Guid()
	}
	return ""
}

// Compare lists, sorted by GUID, every item that is missing on one side,
// sits under different parents, or diverged on the remote side
func Compare(local, remote *tree.Tree) []Difference {
	var diffs []Difference

	for n := range local.Root().Descendants() {
		g := n.Guid()
		other, ok := remote.NodeForGuid(g)
		switch {
		case !ok && remote.IsDeleted(g):
			diffs = append(diffs, Difference{Guid: g, Kind: DeletedRemotely, LocalParent: parentOf(n)})
		case !ok:
			diffs = append(diffs, Difference{Guid: g, Kind: LocalOnly, LocalParent: parentOf(n)})
		case parentOf(n) != parentOf(other):
			diffs = append(diffs, Difference{Guid: g, Kind: Moved, LocalParent: parentOf(n), RemoteParent: parentOf(other)})
		case other.Diverged():
			diffs = append(diffs, Difference{Guid: g, Kind: Diverged, LocalParent: parentOf(n), RemoteParent: parentOf(other)})
		}
	}

	for n := range remote.Root().Descendants() {
		g := n.Guid()
		if _, ok := local.NodeForGuid(g); ok {
			continue
		}
		kind := RemoteOnly
		if local.IsDeleted(g) {
			kind = DeletedLocally
		}
		diffs = append(diffs, Difference{Guid: g, Kind: kind, RemoteParent: parentOf(n)})
	}

	slices.SortFunc(diffs, func(a, b Difference) int {
		return strings.Compare(string(a.Guid), string(b.Guid))
	})
	return diffs
}
