package config

// Global configuration instance
var globalConfig *Config

// Initialize sets up the global configuration
func Initialize(cfg *Config) {
	if cfg == nil {
		cfg = Default()
	}
	globalConfig = cfg
}

// Get returns the current configuration
func Get() *Config {
	if globalConfig == nil {
		Initialize(nil)
	}
	return globalConfig
}

// GetTree returns tree building configuration
func GetTree() TreeConfig {
	return Get().Tree
}

// GetStore returns store configuration
func GetStore() StoreConfig {
	return Get().Store
}

// GetRender returns rendering configuration
func GetRender() RenderConfig {
	return Get().Render
}

// GetLogging returns logging configuration
func GetLogging() LoggingConfig {
	return Get().Logging
}
