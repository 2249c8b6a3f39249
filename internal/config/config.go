// Package config loads service configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the configuration for the splitpot server.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	DBPath     string `mapstructure:"DB_PATH"`
	JWTSecret  string `mapstructure:"JWT_SECRET"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from environment variables and an optional
// .env file in the given path. JWT_SECRET is required; everything else
// has a sensible default.
func Load(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_PATH", "./data/splitpot.db")
	viper.SetDefault("LOG_LEVEL", "info")

	_ = viper.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")
	_ = viper.BindEnv("DB_PATH")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("LOG_LEVEL")

	// The .env file is optional; only a malformed one is an error.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
