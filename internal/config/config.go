// Package config loads and validates application configuration from the
// environment and an optional YAML file. Environment variables use the
// SCHOLAR_ prefix and take precedence over file values.
package config

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Protocol ProtocolConfig `mapstructure:"protocol" validate:"required"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects and configures the persistence driver. The memory
// driver keeps all state in process and needs no URL; it exists for local
// development and tests.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres memory"`
	URL    string `mapstructure:"url" validate:"required_if=Driver postgres,omitempty,url"`
}

// AuthConfig contains authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	// AdminPasswordHash is the bcrypt hash the token endpoint verifies
	// admin credentials against.
	AdminPasswordHash string `mapstructure:"admin_password_hash" validate:"required"`
}

// ProtocolConfig seeds the stored protocol configuration on first start.
// Later changes go through the administrative API, not the environment.
type ProtocolConfig struct {
	FeeBps             uint64 `mapstructure:"fee_bps" validate:"lte=1000"`
	RewardRatePerUnit  uint64 `mapstructure:"reward_rate_per_unit"`
	CurrencyDecimals   uint8  `mapstructure:"currency_decimals" validate:"lte=18"`
	RewardDecimals     uint8  `mapstructure:"reward_decimals" validate:"lte=30"`
	TreasuryAddress    string `mapstructure:"treasury_address" validate:"required"`
	RegistryAddress    string `mapstructure:"registry_address" validate:"required"`
	RewardTokenAddress string `mapstructure:"reward_token_address" validate:"required"`
	VaultAddress       string `mapstructure:"vault_address" validate:"required"`
}
