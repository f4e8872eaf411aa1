// pkg/paths/paths_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Environment
// PURPOSE: Test XDG directories and their overrides

package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		envSetup map[string]string
		validate func(t *testing.T, p Paths)
	}{
		{
			name: "custom directories",
			envSetup: map[string]string{
				EnvMarktreeDataDir:   "/custom/data",
				EnvMarktreeConfigDir: "/custom/config",
				EnvStateHome:         "/custom/state",
			},
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, "/custom/data", p.DataDir())
				assert.Equal(t, "/custom/config", p.ConfigDir())
				assert.Equal(t, "/custom/state/marktree", p.StateDir())
				assert.Equal(t, "/custom/data/marktree.db", p.DatabasePath())
				assert.Equal(t, "/custom/config/config.toml", p.ConfigFilePath())
				assert.Equal(t, "/custom/state/marktree/marktree.log", p.LogFilePath())
			},
		},
		{
			name: "tilde in overrides",
			envSetup: map[string]string{
				EnvMarktreeDataDir: "~/bookmarks",
			},
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, filepath.Join(homeDir, "bookmarks"), p.DataDir())
			},
		},
		{
			name: "default state directory",
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, filepath.Join(homeDir, ".local", "state", "marktree"), p.StateDir())
				assert.Equal(t, MarktreeDirName, filepath.Base(p.DataDir()))
				assert.Equal(t, MarktreeDirName, filepath.Base(p.ConfigDir()))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvMarktreeDataDir, "")
			t.Setenv(EnvMarktreeConfigDir, "")
			t.Setenv(EnvStateHome, "")
			for k, v := range tt.envSetup {
				t.Setenv(k, v)
			}

			p, err := New()
			require.NoError(t, err)
			tt.validate(t, p)
		})
	}
}

func TestExpandHome(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", homeDir},
		{"~/bookmarks.xbel", filepath.Join(homeDir, "bookmarks.xbel")},
		{"~other/file", "~other/file"},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.input))
		})
	}
}

func TestNormalizePath(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	_, err = p.NormalizePath("")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	normalized, err := p.NormalizePath("/tmp/a/../b/./c.xbel")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/b/c.xbel", normalized)

	normalized, err = p.NormalizePath("relative.xbel")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(normalized))
}
