// Package config handles configuration management for marktree.
// It layers the embedded defaults, the user's config.toml and MARKTREE_*
// environment variables, in that order.
package config
