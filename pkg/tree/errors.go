package tree

import (
	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/arthur-debert/marktree/pkg/guid"
)

func duplicateItemError(g guid.Guid) error {
	return errors.Newf(errors.ErrDuplicateItem, "item %s already exists or cannot be reparented", g).
		WithDetail("guid", string(g))
}

func invalidParentError(child, parent guid.Guid) error {
	return errors.Newf(errors.ErrInvalidParent, "cannot record %s as a child of %s: parent is missing or not a folder", child, parent).
		WithDetail("guid", string(child)).
		WithDetail("parent_guid", string(parent))
}

func missingItemError(g guid.Guid) error {
	return errors.Newf(errors.ErrMissingItem, "item %s was never inserted", g).
		WithDetail("guid", string(g))
}

func cycleError(g guid.Guid) error {
	return errors.Newf(errors.ErrCycle, "item %s is its own ancestor", g).
		WithDetail("guid", string(g))
}

func consumedError() error {
	return errors.New(errors.ErrInvalidInput, "builder was already converted into a tree")
}
