// Package config loads the agent configuration and backs the persistent
// address store for the network interface.
package config

// Config is the top-level agent configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Interface InterfaceConfig `mapstructure:"interface" yaml:"interface"`
	Fetch     FetchConfig     `mapstructure:"fetch" yaml:"fetch"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string           `mapstructure:"level" yaml:"level"`
	Format string           `mapstructure:"format" yaml:"format"`
	File   FileOutputConfig `mapstructure:"file" yaml:"file"`
}

// FileOutputConfig enables rotated file logging next to stdout.
type FileOutputConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// InterfaceConfig selects and configures the active network device. Exactly
// one interface is active system-wide.
type InterfaceConfig struct {
	// Index keys the interface's address entries in the store.
	Index int `mapstructure:"index" yaml:"index"`
	// Driver names the registered device driver.
	Driver string `mapstructure:"driver" yaml:"driver"`
	// Options are driver-specific and decoded by the driver itself.
	Options map[string]any `mapstructure:"options" yaml:"options"`
	// PollIntervalMS is the receive poll period in milliseconds.
	PollIntervalMS int `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
}

// FetchConfig controls the HTTP retrieval pipeline.
type FetchConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// applyDefaults fills in the values a minimal config file may omit.
func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Interface.Driver == "" {
		cfg.Interface.Driver = "loopback"
	}
	if cfg.Interface.PollIntervalMS <= 0 {
		cfg.Interface.PollIntervalMS = 10
	}
	if cfg.Fetch.TimeoutSeconds <= 0 {
		cfg.Fetch.TimeoutSeconds = 30
	}
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
