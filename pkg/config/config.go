package config

import (
	"slices"
	"time"

	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/arthur-debert/marktree/pkg/guid"
)

// Color modes for rendered output
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the effective marktree configuration
type Config struct {
	Tree    TreeConfig    `koanf:"tree"`
	Store   StoreConfig   `koanf:"store"`
	Render  RenderConfig  `koanf:"render"`
	Logging LoggingConfig `koanf:"logging"`
}

// TreeConfig controls how trees are built
type TreeConfig struct {
	// ReparentOrphansTo is the folder that receives items without a usable
	// parent
	ReparentOrphansTo string `koanf:"reparent_orphans_to"`
	// Now is an optional RFC3339 reference time for computing item ages
	Now string `koanf:"now"`
}

// StoreConfig locates the local replica store
type StoreConfig struct {
	Path        string        `koanf:"path"`
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

// RenderConfig controls terminal output
type RenderConfig struct {
	Color string `koanf:"color"`
	Width int    `koanf:"width"`
}

// LoggingConfig holds the default log verbosity; -v flags add to it
type LoggingConfig struct {
	Verbosity int `koanf:"verbosity"`
}

// OrphanFolder returns the configured orphan folder as a GUID
func (c TreeConfig) OrphanFolder() guid.Guid {
	return guid.Guid(c.ReparentOrphansTo)
}

// ReferenceTime returns the time ages are measured from
func (c TreeConfig) ReferenceTime() (time.Time, error) {
	if c.Now == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, c.Now)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, errors.ErrConfigInvalid, "tree.now %q is not an RFC3339 time", c.Now).
			WithDetail("key", "tree.now")
	}
	return t, nil
}

// Validate checks the values that the loaders cannot
func (c *Config) Validate() error {
	if c.Tree.ReparentOrphansTo != "" && !c.Tree.OrphanFolder().IsValid() {
		return errors.Newf(errors.ErrConfigInvalid, "tree.reparent_orphans_to %q is not a valid GUID", c.Tree.ReparentOrphansTo).
			WithDetail("key", "tree.reparent_orphans_to")
	}
	if _, err := c.Tree.ReferenceTime(); err != nil {
		return err
	}
	if c.Store.BusyTimeout < 0 {
		return errors.New(errors.ErrConfigInvalid, "store.busy_timeout must not be negative").
			WithDetail("key", "store.busy_timeout")
	}
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Render.Color) {
		return errors.Newf(errors.ErrConfigInvalid, "render.color must be auto, always or never, not %q", c.Render.Color).
			WithDetail("key", "render.color")
	}
	if c.Render.Width < 0 {
		return errors.New(errors.ErrConfigInvalid, "render.width must not be negative").
			WithDetail("key", "render.width")
	}
	return nil
}
