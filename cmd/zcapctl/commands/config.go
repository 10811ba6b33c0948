package commands

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/zcap/errors"
)

// Config holds zcapctl's own settings, layered the way the teacher repo's
// configuration loader layers its settings: defaults, then a config file,
// then ZCAPCTL_-prefixed environment variables.
type Config struct {
	StorePath   string `mapstructure:"store_path"`
	JSONLogging bool   `mapstructure:"json_logging"`
}

func loadConfig(configFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("ZCAPCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store_path", defaultStorePath())
	v.SetDefault("json_logging", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal zcapctl configuration")
	}
	return &cfg, nil
}

func defaultStorePath() string {
	return filepath.Join(".", "zcapctl-store.json")
}
