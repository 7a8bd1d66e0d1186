// Package config holds the small set of process-wide tunables that are
// legitimately runtime config rather than compile-time constants: the log
// level and a /proc mount-point override used in tests and containerized
// environments where /proc is bind-mounted elsewhere.
//
// The mailbox poll interval is deliberately not here — it's pinned as a Go
// constant (pkg/mailbox.pollInterval) because it governs wire-level timing,
// not deployment-level behavior.
package config

import (
	"github.com/spf13/viper"
)

// Config is the set of runtime-tunable values for a master or worker process.
type Config struct {
	LogLevel string `mapstructure:"logLevel"`
	ProcRoot string `mapstructure:"procRoot"`
}

// Load reads configuration from path (a directory containing config.json)
// and from environment variables, falling back to defaults when neither
// supplies a value. A missing config file is not an error; Load
// returns defaults in that case.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("json")

	v.SetDefault("logLevel", "info")
	v.SetDefault("procRoot", "/proc")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
