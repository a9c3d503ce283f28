package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from config.yaml in the working directory (when
// present) and from SCHOLAR_-prefixed environment variables, validates the
// result, and returns it. Environment variables win over file values.
func Load() (*Config, error) {
	return load("")
}

// LoadFromFile is Load with an explicit config file path. Used by tests so
// they never depend on the working directory.
func LoadFromFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("protocol.fee_bps", 100)
	v.SetDefault("protocol.reward_rate_per_unit", uint64(1_000_000_000_000_000_000))
	v.SetDefault("protocol.currency_decimals", 6)
	v.SetDefault("protocol.reward_decimals", 18)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; the environment can carry everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SCHOLAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper's AutomaticEnv does not see keys absent from both defaults and
	// the file, so the settings without defaults are bound explicitly.
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"auth.admin_password_hash",
		"protocol.treasury_address",
		"protocol.registry_address",
		"protocol.reward_token_address",
		"protocol.vault_address",
	} {
		envVar := "SCHOLAR_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
