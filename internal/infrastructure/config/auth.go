package config

import "time"

// AuthConfig holds token signing and account seeding configuration
type AuthConfig struct {
	// HS256 signing secret
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	Issuer    string        `mapstructure:"issuer"`
	Audience  string        `mapstructure:"audience"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	BcryptCost int `mapstructure:"bcrypt_cost" validate:"omitempty,min=4,max=31"`

	Seed SeedConfig `mapstructure:"seed"`
}

// SeedConfig describes the default accounts created at startup
type SeedConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	AdminEmail    string `mapstructure:"admin_email" validate:"omitempty,email"`
	AdminPassword string `mapstructure:"admin_password"`
	UserEmail     string `mapstructure:"user_email" validate:"omitempty,email"`
	UserPassword  string `mapstructure:"user_password"`
}
