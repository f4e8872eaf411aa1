package tree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arthur-debert/marktree/pkg/guid"
)

// ProblemKind classifies a structure problem found while resolving parents
type ProblemKind int

const (
	// Orphan items had no parent facts at all
	Orphan ProblemKind = iota
	// MisparentedRoot is a user content root that was moved back to the root
	MisparentedRoot
	// DivergedParents items had more than one distinct candidate parent
	DivergedParents
	// MissingChild is a child listed by a folder but never inserted
	MissingChild
	// InvalidParentGuid items named a parentid that is not an inserted folder
	InvalidParentGuid
)

func (k ProblemKind) String() string {
	switch k {
	case Orphan:
		return "orphan"
	case MisparentedRoot:
		return "misparented-root"
	case DivergedParents:
		return "diverged-parents"
	case MissingChild:
		return "missing-child"
	case InvalidParentGuid:
		return "invalid-parent-guid"
	default:
		return fmt.Sprintf("problem(%d)", int(k))
	}
}

// Problem is one structure problem. Parents holds the candidate parents for
// DivergedParents, the listing folder for MissingChild, and the named
// parent for InvalidParentGuid.
type Problem struct {
	Kind    ProblemKind
	Guid    guid.Guid
	Parents []guid.Guid
}

func (p Problem) String() string {
	if len(p.Parents) == 0 {
		return fmt.Sprintf("%s: %s", p.Kind, p.Guid)
	}
	parents := make([]string, len(p.Parents))
	for i, parent := range p.Parents {
		parents[i] = string(parent)
	}
	return fmt.Sprintf("%s: %s (%s)", p.Kind, p.Guid, strings.Join(parents, ", "))
}

// Problems is the structure problem report of a Tree, sorted by GUID then
// kind.
type Problems []Problem

// ProblemCounts summarizes a report
type ProblemCounts struct {
	Orphans            int
	MisparentedRoots   int
	DivergedParents    int
	MissingChildren    int
	InvalidParentGuids int
}

// Total returns the number of problems
func (c ProblemCounts) Total() int {
	return c.Orphans + c.MisparentedRoots + c.DivergedParents + c.MissingChildren + c.InvalidParentGuids
}

// Counts tallies the report by kind
func (ps Problems) Counts() ProblemCounts {
	var c ProblemCounts
	for _, p := range ps {
		switch p.Kind {
		case Orphan:
			c.Orphans++
		case MisparentedRoot:
			c.MisparentedRoots++
		case DivergedParents:
			c.DivergedParents++
		case MissingChild:
			c.MissingChildren++
		case InvalidParentGuid:
			c.InvalidParentGuids++
		}
	}
	return c
}

// Of returns the problems recorded for g
func (ps Problems) Of(g guid.Guid) Problems {
	var out Problems
	for _, p := range ps {
		if p.Guid == g {
			out = append(out, p)
		}
	}
	return out
}

func (ps *Problems) note(kind ProblemKind, g guid.Guid, parents ...guid.Guid) {
	*ps = append(*ps, Problem{Kind: kind, Guid: g, Parents: parents})
}

func (ps Problems) sort() {
	slices.SortStableFunc(ps, func(a, b Problem) int {
		if c := strings.Compare(string(a.Guid), string(b.Guid)); c != 0 {
			return c
		}
		return int(a.Kind) - int(b.Kind)
	})
}
