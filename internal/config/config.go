package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/jchantrell/kcdutils/internal/home"
)

type Config struct {
	LogLevel         string `mapstructure:"log_level"`
	LogFormat        string `mapstructure:"log_format"`
	Mode             string `mapstructure:"mode"`
	RenamePolicy     string `mapstructure:"rename_policy"`
	DefaultExtension string `mapstructure:"default_extension"`
	BufferSize       int    `mapstructure:"buffer_size"`
	Workers          int    `mapstructure:"workers"`
	Journal          bool   `mapstructure:"journal"`
	JournalPath      string `mapstructure:"journal_path"`
	NoProgress       bool   `mapstructure:"no_progress"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("mode", "copy")
	v.SetDefault("rename_policy", "segment")
	v.SetDefault("default_extension", "avi")
	v.SetDefault("buffer_size", 64*1024)
	v.SetDefault("workers", 4)
	v.SetDefault("journal", true)
	v.SetDefault("journal_path", home.Manager().GetJournalPath())
	v.SetDefault("no_progress", false)
}

// Load initializes and loads configuration from file
func Load(cfgFile string) (*Config, error) {
	return LoadWith(viper.New(), cfgFile)
}

// LoadWith loads configuration into v, reading cfgFile or kcdutils.yaml from
// the home or working directory when present
func LoadWith(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		v.AddConfigPath(homeDir)
		v.AddConfigPath(".")
		v.SetConfigName("kcdutils")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("KCDUTILS")
	v.AutomaticEnv()

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
