// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads keywallet settings with viper: defaults, then
// keywallet.yaml (user, system or ./), then KEYWALLET_* environment
// variables, then flags annotated with the config key they override.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Store    StoreConfig  `mapstructure:"store" yaml:"store"`
	Language string       `mapstructure:"language" yaml:"language"`
	Log      LogConfig    `mapstructure:"log" yaml:"log"`
	Backup   BackupConfig `mapstructure:"backup" yaml:"backup"`
}

// StoreConfig locates the wallet file.
type StoreConfig struct {
	// Path overrides the wallet file location; Profile is ignored when set.
	Path    string `mapstructure:"path" yaml:"path"`
	Profile string `mapstructure:"profile" yaml:"profile"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type BackupConfig struct {
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// ConfigKeyAnnotation marks a flag as overriding a config key.
const ConfigKeyAnnotation = "keywallet_config_key"

// Defaults returns the built-in values for every known key.
func Defaults() map[string]any {
	return map[string]any{
		"store.path":      "",
		"store.profile":   "",
		"language":        "en",
		"log.level":       "warn",
		"backup.compress": false,
	}
}

// BindFlag annotates flag name on fs so LoadConfig maps it to key.
func BindFlag(fs *pflag.FlagSet, name, key string) {
	_ = fs.SetAnnotation(name, ConfigKeyAnnotation, []string{key})
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Keywallet")
		default: // Linux, macOS, etc.
			configDir = "/etc/keywallet"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "keywallet")
	}

	return filepath.Join(configDir, "keywallet.yaml"), nil
}

// LoadConfig merges defaults, config files, environment and annotated flags
// into a T. A missing config file is not an error; an explicit configFile
// that cannot be read is.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("keywallet")
	v.SetConfigType("yaml")
	if configFile != nil {
		v.SetConfigFile(*configFile)
	}
	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	v.SetEnvPrefix("keywallet")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		var bindErr error
		visit := func(f *pflag.Flag) {
			keys, ok := f.Annotations[ConfigKeyAnnotation]
			if !ok || len(keys) == 0 || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(keys[0], f)
		}
		cmd.Flags().VisitAll(visit)
		cmd.InheritedFlags().VisitAll(visit)
		if bindErr != nil {
			return c, bindErr
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// WriteConfigFile writes c as YAML to the user or system config path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := getConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// StorePath resolves the wallet file location for c.
func (c Config) StorePath() (string, error) {
	if p := strings.TrimSpace(c.Store.Path); p != "" {
		return expandHome(p)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	name := "wallets.json"
	if prof := strings.TrimSpace(c.Store.Profile); prof != "" {
		if strings.ContainsAny(prof, `/\`) || prof == "." || prof == ".." {
			return "", fmt.Errorf("invalid profile name %q", prof)
		}
		name = "wallets-" + prof + ".json"
	}
	return filepath.Join(dir, "keywallet", name), nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
