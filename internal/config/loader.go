package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".ivtree"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for ivtree settings.
const envPrefix = "IVTREE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// applyDefaults registers every key so AutomaticEnv can override it.
func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("dataset.path", DefaultDatasetPath)
	viperCfg.SetDefault("dataset.max_size", DefaultDatasetMaxSize)
	viperCfg.SetDefault("dataset.validate_schema", DefaultDatasetValidateSchema)
	viperCfg.SetDefault("dataset.cache_entries", DefaultDatasetCacheEntries)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.color", DefaultOutputColor)

	viperCfg.SetDefault("server.addr", DefaultServerAddr)
	viperCfg.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	viperCfg.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	viperCfg.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)

	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_insecure", false)
	viperCfg.SetDefault("observability.otlp_headers", "")
	viperCfg.SetDefault("observability.log_level", DefaultObservabilityLogLevel)
	viperCfg.SetDefault("observability.log_json", DefaultObservabilityLogJSON)
	viperCfg.SetDefault("observability.sample_ratio", DefaultObservabilitySampleRatio)
	viperCfg.SetDefault("observability.environment", "")
}
