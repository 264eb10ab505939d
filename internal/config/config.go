// Package config loads pulse settings from flags, environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by pulse.
const EnvPrefix = "PULSE"

// Config holds all runtime settings.
type Config struct {
	Port         int          `mapstructure:"port"`
	LogLevel     string       `mapstructure:"log_level"`
	LogPretty    bool         `mapstructure:"log_pretty"`
	DatabaseURL  string       `mapstructure:"database_url"`
	ProjectsFile string       `mapstructure:"projects_file"`
	RateLimit    float64      `mapstructure:"rate_limit"`
	Concurrency  int          `mapstructure:"concurrency"`
	GitLab       GitLabConfig `mapstructure:"gitlab"`
	Reports      ReportConfig `mapstructure:"reports"`
}

// GitLabConfig configures the GitLab API client.
type GitLabConfig struct {
	APIURL string `mapstructure:"api_url"`
	Token  string `mapstructure:"token"`
}

// ReportConfig locates the published reports.
type ReportConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("database_url", "")
	v.SetDefault("projects_file", "")
	v.SetDefault("rate_limit", 5.0)
	v.SetDefault("concurrency", 4)
	v.SetDefault("gitlab.api_url", "")
	v.SetDefault("gitlab.token", "")
	v.SetDefault("reports.base_url", "")
}

// Load resolves the configuration. Precedence is flags, then PULSE_*
// environment variables, then the config file, then defaults. An empty
// configFile skips the file; flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindFlags binds the flags whose names match config keys, with "-" standing
// in for "_" and "." (e.g. --gitlab-token binds gitlab.token).
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	keys := make(map[string]string)
	for _, key := range v.AllKeys() {
		flagName := strings.NewReplacer(".", "-", "_", "-").Replace(key)
		keys[flagName] = key
	}

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := keys[f.Name]
		if !ok || err != nil {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("failed to bind flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// Validate reports settings that can never work.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate_limit must not be negative"))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative"))
	}
	return errors.Join(errs...)
}
