package config

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/marktree/pkg/errors"
)

// Marshal renders cfg as TOML, in the same shape the loader reads
func Marshal(cfg *Config) ([]byte, error) {
	out, err := toml.Marshal(configToMap(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to marshal configuration")
	}
	return out, nil
}

// configToMap converts a Config to the map layout of the config file.
// Durations are written as strings so the output loads back unchanged.
func configToMap(cfg *Config) map[string]any {
	return map[string]any{
		"tree": map[string]any{
			"reparent_orphans_to": cfg.Tree.ReparentOrphansTo,
			"now":                 cfg.Tree.Now,
		},
		"store": map[string]any{
			"path":         cfg.Store.Path,
			"busy_timeout": cfg.Store.BusyTimeout.String(),
		},
		"render": map[string]any{
			"color": cfg.Render.Color,
			"width": cfg.Render.Width,
		},
		"logging": map[string]any{
			"verbosity": cfg.Logging.Verbosity,
		},
	}
}
