package config

import (
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/arthur-debert/marktree/pkg/logging"
	"github.com/arthur-debert/marktree/pkg/paths"
)

// EnvPrefix prefixes every configuration environment variable. Sections are
// separated by a double underscore: MARKTREE_STORE__BUSY_TIMEOUT.
const EnvPrefix = "MARKTREE_"

// LoadOptions selects the configuration sources
type LoadOptions struct {
	// ConfigFile is an explicit config file, which must exist. Empty means
	// the user config file, if there is one.
	ConfigFile string
	// Paths resolves the default file locations. Nil uses paths.New.
	Paths paths.Paths
	// SkipEnv ignores MARKTREE_* environment variables
	SkipEnv bool
	// Overrides are dotted keys, such as "store.path", applied last. The
	// CLI passes its flags here.
	Overrides map[string]any
}

// LoadConfiguration layers the embedded defaults, the config file, the
// environment and the overrides, then decodes and validates the result.
func LoadConfiguration(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")

	p := opts.Paths
	if p == nil {
		var err error
		if p, err = paths.New(); err != nil {
			return nil, err
		}
	}

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Config file
	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = p.ConfigFilePath()
		if _, err := os.Stat(configFile); err != nil {
			configFile = ""
		}
	} else {
		configFile = paths.ExpandHome(configFile)
		if _, err := os.Stat(configFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", configFile).
				WithDetail("path", configFile)
		}
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", configFile).
				WithDetail("path", configFile)
		}
		logger.Debug().Str("path", configFile).Msg("Loaded config file")
	}

	// 3. Environment
	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}

	// 6. Post-process
	postProcessConfig(cfg, p)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults, with paths resolved
func Default() *Config {
	k := koanf.New(".")
	cfg := &Config{}
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err == nil {
		if decoded, err := unmarshal(k); err == nil {
			cfg = decoded
		}
	}
	if p, err := paths.New(); err == nil {
		postProcessConfig(cfg, p)
	}
	return cfg
}

// envKey maps MARKTREE_STORE__BUSY_TIMEOUT to store.busy_timeout
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

func postProcessConfig(cfg *Config, p paths.Paths) {
	if cfg.Store.Path == "" {
		cfg.Store.Path = p.DatabasePath()
	} else {
		cfg.Store.Path = paths.ExpandHome(cfg.Store.Path)
	}
	cfg.Render.Color = strings.ToLower(cfg.Render.Color)
}
