// Package guid defines the stable identifiers used by bookmark items and the
// well-known GUIDs of the built-in roots.
package guid

// Guid is the stable external identifier of a bookmark item.
type Guid string

// Well-known GUIDs
const (
	// Root is the synthetic root of every tree. It is never synced.
	Root Guid = "root________"

	// Menu is the bookmarks menu folder
	Menu Guid = "menu________"

	// Toolbar is the bookmarks toolbar folder
	Toolbar Guid = "toolbar_____"

	// Unfiled is the "Other Bookmarks" folder, the usual orphan target
	Unfiled Guid = "unfiled_____"

	// Mobile is the mobile bookmarks folder
	Mobile Guid = "mobile______"

	// Tags is the legacy tags root. It is a built-in root but does not hold
	// user content.
	Tags Guid = "tags________"
)

// validLength is the length of a GUID minted by a modern client
const validLength = 12

// UserContentRoots lists the top-level folders that must always be direct
// children of the root, in their canonical order.
var UserContentRoots = []Guid{Menu, Toolbar, Unfiled, Mobile}

// String implements fmt.Stringer
func (g Guid) String() string {
	return string(g)
}

// IsValid reports whether g looks like a GUID minted by a modern client:
// 12 characters from the URL-safe base64 alphabet. Built-in roots are always
// valid even though they use underscores as padding.
func (g Guid) IsValid() bool {
	if g.IsBuiltInRoot() {
		return true
	}
	if len(g) != validLength {
		return false
	}
	for i := 0; i < len(g); i++ {
		if !isBase64URL(g[i]) {
			return false
		}
	}
	return true
}

// IsUserContentRoot reports whether g is one of the four fixed top-level
// folders.
func (g Guid) IsUserContentRoot() bool {
	switch g {
	case Menu, Toolbar, Unfiled, Mobile:
		return true
	}
	return false
}

// IsBuiltInRoot reports whether g is the synthetic root, a user content root,
// or the tags root.
func (g Guid) IsBuiltInRoot() bool {
	return g == Root || g == Tags || g.IsUserContentRoot()
}

func isBase64URL(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
