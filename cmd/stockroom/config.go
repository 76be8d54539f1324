// Config loading for the stockroom CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyDatabasePath = "database_path"
	cfgKeyTemplatePath = "default_template_path"
	cfgKeyUniqueFields = "unique_fields"
	cfgKeyTextFields   = "text_fields"
	cfgKeyLogLevel     = "log_level"
	cfgKeyLogFormat    = "log_format"
)

// configValues is the slice of viper the CLI reads after loading.
type configValues interface {
	GetString(key string) string
	GetStringSlice(key string) []string
}

// fileConfig is the shape of config.yaml.
type fileConfig struct {
	DatabasePath        string   `yaml:"database_path,omitempty"`
	DefaultTemplatePath string   `yaml:"default_template_path,omitempty"`
	UniqueFields        []string `yaml:"unique_fields"`
	TextFields          []string `yaml:"text_fields"`
	LogLevel            string   `yaml:"log_level"`
	LogFormat           string   `yaml:"log_format"`
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper. The config directory and a default config.yaml are created on first
// run; a missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureDefaultConfigFile writes a default config.yaml if the file does not
// exist in the config directory. The defaults are rendered from the same
// field lists the store falls back to, so editing the file starts from the
// effective values.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	defaults := fileConfig{
		UniqueFields: types.DefaultUniqueFields,
		TextFields:   types.DefaultTextFields,
		LogLevel:     "info",
		LogFormat:    "text",
	}
	out, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("render default config: %w", err)
	}

	header := []byte("# Stockroom CLI configuration\n")
	return os.WriteFile(path, append(header, out...), 0o644)
}
