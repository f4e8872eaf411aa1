package sources

import (
	"time"

	"github.com/arthur-debert/marktree/pkg/guid"
	"github.com/arthur-debert/marktree/pkg/logging"
	"github.com/arthur-debert/marktree/pkg/tree"
)

// Options control how records become a tree
type Options struct {
	// ReparentOrphansTo receives items without a usable parent
	ReparentOrphansTo guid.Guid
	// Now is the reference time for ages; zero means time.Now
	Now time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func newBuilder(opts Options) *tree.Builder {
	b := tree.WithRoot(tree.NewItem(guid.Root, tree.Folder))
	if opts.ReparentOrphansTo != "" {
		b.ReparentOrphansTo(opts.ReparentOrphansTo)
	}
	return b
}

// insertItems adds every live record except the root, with its content
func insertItems(b *tree.Builder, records []Record, now time.Time) error {
	for _, r := range records {
		if r.Deleted || r.Guid() == guid.Root {
			continue
		}
		item, err := r.Item(now)
		if err != nil {
			return err
		}
		if _, err := b.Item(item); err != nil {
			return err
		}
		if err := b.Content(item.Guid, r.Content(item.Kind)); err != nil {
			return err
		}
	}
	return nil
}

// BuildRemoteTree ingests records the way a remote replica is read: every
// item first, then each folder's children, then each record's parentid.
// Records may contradict each other; the tree reports how they were
// resolved. Deleted records become tombstones.
func BuildRemoteTree(records []Record, opts Options) (*tree.Tree, error) {
	logger := logging.GetLogger("sources")
	done := logging.LogOperationStart(logger, "build-remote-tree")
	defer done()

	b := newBuilder(opts)
	if err := insertItems(b, records, opts.now()); err != nil {
		return nil, err
	}

	for _, r := range records {
		if r.Deleted || (!r.IsFolder() && r.Guid() != guid.Root) {
			continue
		}
		for _, child := range r.Children {
			if _, err := b.ParentFor(guid.Guid(child)).ByChildren(r.Guid()); err != nil {
				return nil, err
			}
		}
	}

	for _, r := range records {
		if r.Deleted || r.ParentID == "" || r.Guid() == guid.Root {
			continue
		}
		if _, err := b.ParentFor(r.Guid()).ByParentGuid(guid.Guid(r.ParentID)); err != nil {
			return nil, err
		}
	}

	t, err := b.IntoTree()
	if err != nil {
		return nil, err
	}
	noteDeleted(t, records)

	logger.Debug().
		Int("records", len(records)).
		Int("problems", len(t.Problems())).
		Msg("Remote tree built")
	return t, nil
}

// BuildLocalTree ingests trusted records in pre-order: each record's parent
// must come before it. Both structure facts are recorded at once from the
// parentid; Children is ignored. Records without a parentid are left as
// orphans.
func BuildLocalTree(records []Record, opts Options) (*tree.Tree, error) {
	logger := logging.GetLogger("sources")
	done := logging.LogOperationStart(logger, "build-local-tree")
	defer done()

	b := newBuilder(opts)
	now := opts.now()
	for _, r := range records {
		if r.Deleted || r.Guid() == guid.Root {
			continue
		}
		item, err := r.Item(now)
		if err != nil {
			return nil, err
		}
		pb, err := b.Item(item)
		if err != nil {
			return nil, err
		}
		if err := b.Content(item.Guid, r.Content(item.Kind)); err != nil {
			return nil, err
		}
		if r.ParentID == "" {
			logger.Warn().Str("guid", r.ID).Msg("Local record has no parent")
			continue
		}
		if _, err := pb.ByStructure(guid.Guid(r.ParentID)); err != nil {
			return nil, err
		}
	}

	t, err := b.IntoTree()
	if err != nil {
		return nil, err
	}
	noteDeleted(t, records)
	return t, nil
}

func noteDeleted(t *tree.Tree, records []Record) {
	for _, r := range records {
		if r.Deleted {
			t.NoteDeleted(r.Guid())
		}
	}
}
