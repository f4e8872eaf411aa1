// Package paths provides centralized path handling for marktree.
//
// # Environment Variables
//
// The package respects the following environment variables:
//
//   - MARKTREE_DATA_DIR: Override XDG data directory (default: $XDG_DATA_HOME/marktree)
//   - MARKTREE_CONFIG_DIR: Override XDG config directory (default: $XDG_CONFIG_HOME/marktree)
//   - XDG_STATE_HOME: State directory root, holding the log file (default: ~/.local/state)
//
// # Files
//
//   - DatabasePath: <data>/marktree.db, the local replica store
//   - ConfigFilePath: <config>/config.toml
//   - LogFilePath: <state>/marktree.log
package paths
