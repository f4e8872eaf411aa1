package sources

import (
	"encoding/base64"

	"github.com/google/uuid"

	"github.com/arthur-debert/marktree/pkg/guid"
)

// xbelNamespace scopes the name-based UUIDs derived for XBEL elements
var xbelNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("marktree:xbel"))

// derivedGuid returns a stable GUID for an XBEL element without a usable id.
// The same element path always yields the same GUID, so re-importing an
// unchanged file does not churn identities.
func derivedGuid(path string) guid.Guid {
	id := uuid.NewSHA1(xbelNamespace, []byte(path))
	return guid.Guid(base64.RawURLEncoding.EncodeToString(id[:9]))
}
