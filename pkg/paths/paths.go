// Package paths provides centralized path handling for marktree.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/marktree/pkg/errors"
)

// Environment variable names
const (
	// EnvMarktreeDataDir overrides the XDG data directory for marktree
	EnvMarktreeDataDir = "MARKTREE_DATA_DIR"

	// EnvMarktreeConfigDir overrides the XDG config directory for marktree
	EnvMarktreeConfigDir = "MARKTREE_CONFIG_DIR"

	// EnvStateHome is the XDG state directory, which xdg does not expose
	EnvStateHome = "XDG_STATE_HOME"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// MarktreeDirName is the directory name for marktree-specific files
	MarktreeDirName = "marktree"

	// DatabaseFileName is the local replica store
	DatabaseFileName = "marktree.db"

	// ConfigFileName is the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "marktree.log"
)

// Paths provides centralized path management for marktree
type Paths interface {
	DataDir() string
	ConfigDir() string
	StateDir() string
	DatabasePath() string
	ConfigFilePath() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
}

type paths struct {
	xdgData   string
	xdgConfig string
	xdgState  string
}

// New creates a Paths instance from the XDG directories, respecting the
// MARKTREE_* overrides.
func New() (Paths, error) {
	p := &paths{}

	if dataDir := os.Getenv(EnvMarktreeDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, MarktreeDirName)
	}

	if configDir := os.Getenv(EnvMarktreeConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, MarktreeDirName)
	}

	if stateDir := os.Getenv(EnvStateHome); stateDir != "" {
		p.xdgState = filepath.Join(expandHome(stateDir), MarktreeDirName)
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to find home directory")
		}
		p.xdgState = filepath.Join(homeDir, ".local", "state", MarktreeDirName)
	}

	return p, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// DataDir returns the XDG data directory for marktree
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the XDG config directory for marktree
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// StateDir returns the XDG state directory for marktree
func (p *paths) StateDir() string {
	return p.xdgState
}

// DatabasePath returns the default location of the local replica store
func (p *paths) DatabasePath() string {
	return filepath.Join(p.xdgData, DatabaseFileName)
}

// ConfigFilePath returns the user configuration file
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// LogFilePath returns the log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
	}
	return filepath.Clean(abs), nil
}
