package tree

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/marktree/pkg/guid"
)

// Kind is the type of a bookmark item
type Kind int

const (
	Bookmark Kind = iota
	Query
	Folder
	Livemark
	Separator
)

var kindNames = map[Kind]string{
	Bookmark:  "Bookmark",
	Query:     "Query",
	Folder:    "Folder",
	Livemark:  "Livemark",
	Separator: "Separator",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a kind name, as found in sync records and the local store,
// to a Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, bool) {
	for kind, name := range kindNames {
		if strings.EqualFold(name, s) {
			return kind, true
		}
	}
	return Bookmark, false
}

// Validity describes whether an item can be used as-is or needs repair
type Validity int

const (
	// Valid items can be applied and uploaded unchanged
	Valid Validity = iota
	// Reupload items are usable but should be re-uploaded with fixed data
	Reupload
	// Replace items are unusable and must be replaced by the other side
	Replace
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "Valid"
	case Reupload:
		return "Reupload"
	case Replace:
		return "Replace"
	default:
		return fmt.Sprintf("Validity(%d)", int(v))
	}
}

// ParseValidity maps a validity name to a Validity. An empty string is Valid.
func ParseValidity(s string) (Validity, bool) {
	switch strings.ToLower(s) {
	case "", "valid":
		return Valid, true
	case "reupload":
		return Reupload, true
	case "replace":
		return Replace, true
	}
	return Valid, false
}

// Item is a single bookmark record. It carries no structural information;
// parents and children are recorded through a Builder.
type Item struct {
	Guid       guid.Guid
	Kind       Kind
	Age        int64 // milliseconds since last modification; smaller is newer
	NeedsMerge bool
	Validity   Validity
}

// NewItem returns a valid, merged item of the given kind with age 0
func NewItem(g guid.Guid, kind Kind) Item {
	return Item{Guid: g, Kind: kind}
}

// IsFolder reports whether the item can hold children. Livemarks are
// folders whose children are fetched from a feed.
func (i Item) IsFolder() bool {
	return i.Kind == Folder || i.Kind == Livemark
}

func (i Item) String() string {
	kind := i.Kind.String()
	if i.Validity != Valid {
		kind = fmt.Sprintf("%s (%s)", kind, i.Validity)
	}
	if i.NeedsMerge {
		return fmt.Sprintf("%s (%s; Age = %dms; Unmerged)", i.Guid, kind, i.Age)
	}
	return fmt.Sprintf("%s (%s; Age = %dms)", i.Guid, kind, i.Age)
}

// Content is the user-visible part of an item, used to find duplicates by
// similarity rather than by GUID. It is one of BookmarkContent,
// FolderContent or SeparatorContent.
type Content interface {
	isContent()
}

// BookmarkContent is the content of a bookmark or query
type BookmarkContent struct {
	Title string
	URL   string
}

// FolderContent is the content of a folder
type FolderContent struct {
	Title string
}

// SeparatorContent is the content of a separator. Separators have no title,
// so they are matched by position.
type SeparatorContent struct {
	Position int
}

func (BookmarkContent) isContent()  {}
func (FolderContent) isContent()    {}
func (SeparatorContent) isContent() {}
