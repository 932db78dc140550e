// Package config provides configuration loading for the yseal server.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration options for the server.
type Config struct {
	Addr       string       `mapstructure:"addr"`
	DBPath     string       `mapstructure:"db_path"`
	SigningKey string       `mapstructure:"signing_key"`
	Pagination PageConfig   `mapstructure:"pagination"`
	Upload     UploadConfig `mapstructure:"upload"`
}

// PageConfig holds pagination limits for list endpoints.
type PageConfig struct {
	PageSize    int `mapstructure:"page_size"`
	MaxPageSize int `mapstructure:"max_page_size"`
}

// UploadConfig holds policy package upload limits.
type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// Default returns the built-in configuration values.
func Default() Config {
	return Config{
		Addr:       ":8080",
		DBPath:     "yseal.db",
		SigningKey: "dev-signing-key",
		Pagination: PageConfig{PageSize: 10, MaxPageSize: 100},
		Upload:     UploadConfig{MaxBytes: 10 * 1024 * 1024},
	}
}

// Load reads configuration from the given file (optional) and YSEAL_*
// environment variables, layered over the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("addr", def.Addr)
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("signing_key", def.SigningKey)
	v.SetDefault("pagination.page_size", def.Pagination.PageSize)
	v.SetDefault("pagination.max_page_size", def.Pagination.MaxPageSize)
	v.SetDefault("upload.max_bytes", def.Upload.MaxBytes)

	v.SetEnvPrefix("YSEAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
