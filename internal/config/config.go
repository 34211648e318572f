// Package config loads kubectl-smart's user-facing settings following the
// precedence chain command flags > environment variables (KUBECTL_SMART_*)
// > user config file > built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	smarterrors "github.com/kubectl-smart/kubectl-smart/internal/errors"
)

// Performance holds collector and run concurrency/timeout limits.
type Performance struct {
	MaxConcurrentCollectors int     `mapstructure:"max_concurrent_collectors"`
	CollectorTimeoutSeconds float64 `mapstructure:"collector_timeout_seconds"`
	RunTimeoutSeconds       float64 `mapstructure:"run_timeout_seconds"`
}

// Output holds rendering preferences.
type Output struct {
	ColorsEnabled    bool   `mapstructure:"colors_enabled"`
	MaxDisplayIssues int    `mapstructure:"max_display_issues"`
	DefaultFormat    string `mapstructure:"default_format"`
}

// Scoring holds scoring engine settings.
type Scoring struct {
	WeightsFile string `mapstructure:"weights_file"`
}

// Forecast holds forecaster defaults.
type Forecast struct {
	DefaultHorizonHours int    `mapstructure:"default_horizon_hours"`
	CacheDir            string `mapstructure:"cache_dir"`
}

// Logging holds logging preferences.
type Logging struct {
	Level string `mapstructure:"level"`
}

// Config is the fully resolved, validated set of user-facing settings.
type Config struct {
	Performance Performance `mapstructure:"performance"`
	Output      Output      `mapstructure:"output"`
	Scoring     Scoring     `mapstructure:"scoring"`
	Forecast    Forecast    `mapstructure:"forecast"`
	Logging     Logging     `mapstructure:"logging"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("performance.max_concurrent_collectors", 5)
	v.SetDefault("performance.collector_timeout_seconds", 1.0)
	v.SetDefault("performance.run_timeout_seconds", 3.0)
	v.SetDefault("output.colors_enabled", true)
	v.SetDefault("output.max_display_issues", 10)
	v.SetDefault("output.default_format", "text")
	v.SetDefault("scoring.weights_file", "")
	v.SetDefault("forecast.default_horizon_hours", 48)
	v.SetDefault("forecast.cache_dir", defaultCacheDir())
	v.SetDefault("logging.level", "info")
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".kube", "kubectl-smart-cache")
	}
	return filepath.Join(home, ".kube", "kubectl-smart-cache")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kube", "kubectl-smart.yaml")
}

// Load resolves the configuration from, in increasing precedence: built-in
// defaults, the user config file (explicitPath, or ~/.kube/kubectl-smart.yaml
// when empty), KUBECTL_SMART_* environment variables, and finally any bound
// command flags. flags may be nil.
func Load(explicitPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("KUBECTL_SMART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := explicitPath
	if path == "" {
		path = defaultConfigPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
				return nil, smarterrors.New(smarterrors.InputError, "config", fmt.Errorf("read config file %s: %w", path, err))
			}
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, smarterrors.New(smarterrors.InputError, "config", fmt.Errorf("bind flags: %w", err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, smarterrors.New(smarterrors.InputError, "config", fmt.Errorf("unmarshal config: %w", err))
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Performance.MaxConcurrentCollectors <= 0 {
		return inputErr("performance.max_concurrent_collectors must be positive")
	}
	if cfg.Performance.CollectorTimeoutSeconds <= 0 {
		return inputErr("performance.collector_timeout_seconds must be positive")
	}
	if cfg.Performance.RunTimeoutSeconds <= 0 {
		return inputErr("performance.run_timeout_seconds must be positive")
	}
	if cfg.Output.MaxDisplayIssues < 0 {
		return inputErr("output.max_display_issues must not be negative")
	}
	switch cfg.Output.DefaultFormat {
	case "text", "json":
	default:
		return inputErr(fmt.Sprintf("output.default_format must be text or json, got %q", cfg.Output.DefaultFormat))
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return inputErr(fmt.Sprintf("logging.level must be one of debug|info|warn|error, got %q", cfg.Logging.Level))
	}
	if cfg.Forecast.DefaultHorizonHours < 1 {
		cfg.Forecast.DefaultHorizonHours = 1
	}
	if cfg.Forecast.DefaultHorizonHours > 168 {
		cfg.Forecast.DefaultHorizonHours = 168
	}
	return nil
}

func inputErr(msg string) *smarterrors.SmartError {
	return smarterrors.New(smarterrors.InputError, "config", fmt.Errorf("%s", msg))
}
