// pkg/guid/guid_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test GUID validation and well-known roots

package guid_test

import (
	"testing"

	"github.com/arthur-debert/marktree/pkg/guid"
	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		guid guid.Guid
		want bool
	}{
		{"root", guid.Root, true},
		{"tags root", guid.Tags, true},
		{"minted", "bookmarkAAAA", true},
		{"url safe characters", "a-b_c-d_e-f_", true},
		{"too short", "bookmarkA", false},
		{"too long", "bookmarkAAAAA", false},
		{"invalid character", "bookmark+AAA", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.guid.IsValid())
		})
	}
}

func TestRoots(t *testing.T) {
	for _, g := range guid.UserContentRoots {
		assert.True(t, g.IsUserContentRoot(), "%s should be a user content root", g)
		assert.True(t, g.IsBuiltInRoot(), "%s should be a built-in root", g)
	}

	assert.False(t, guid.Root.IsUserContentRoot())
	assert.True(t, guid.Root.IsBuiltInRoot())
	assert.False(t, guid.Tags.IsUserContentRoot())
	assert.True(t, guid.Tags.IsBuiltInRoot())
	assert.False(t, guid.Guid("bookmarkAAAA").IsBuiltInRoot())
}
