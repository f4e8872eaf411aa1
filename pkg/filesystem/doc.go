// Package filesystem provides the filesystem marktree reads bookmark sources
// from and writes exports to: the OS filesystem in the CLI and an in-memory
// one in tests, both through afero.
package filesystem
