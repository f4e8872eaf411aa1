// Package tree turns the contradictory structure facts of a bookmark replica
// into a single well-formed tree.
//
// Facts are recorded on a Builder in any order:
//
//	b := tree.WithRoot(tree.NewItem(guid.Root, tree.Folder))
//	pb, err := b.Item(tree.NewItem("bookmarkAAAA", tree.Bookmark))
//	_, err = pb.ByParentGuid(guid.Unfiled)         // the item's parentid
//	_, err = b.ParentFor("bookmarkAAAA").ByChildren(guid.Menu) // a folder's children
//
// IntoTree then runs a fixed pipeline:
//
//	Resolve -> Detect cycles -> Assemble
//
//   - Resolve picks one parent per entry. Agreeing facts win outright;
//     otherwise children facts beat parentids, and newer parents beat older
//     ones. Items without a usable parent go to the orphan folder set with
//     ReparentOrphansTo, or to the root. User content roots always end up
//     under the root.
//   - Detect cycles walks the resolved parent chains and rejects the input
//     with a CYCLE error if any entry is its own ancestor.
//   - Assemble rewrites every folder's children to match the resolved
//     parents, appends entries placed by parentid in GUID order, and flags
//     every entry whose structure changed as Diverged.
//
// Every entry is addressed by its position in one slice, in the builder and
// in the tree; nodes never point at each other.
package tree
