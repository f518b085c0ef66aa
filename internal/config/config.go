package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Server ServerConfig `toml:"server"`
	Auth   AuthConfig   `toml:"auth"`
	Market MarketConfig `toml:"market"`
	Seed   SeedConfig   `toml:"seed"`
}

type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

type MarketConfig struct {
	// SignupGrant is the starting balance for every new account.
	SignupGrant int `toml:"signup_grant"`
	// MaxBountyPerTask caps the bounty on a single task; 0 means no cap.
	MaxBountyPerTask int `toml:"max_bounty_per_task"`
}

type SeedConfig struct {
	Accounts []SeedAccount `toml:"accounts"`
}

// SeedAccount is created at startup. Privileged accounts may read platform
// revenue.
type SeedAccount struct {
	Handle      string `toml:"handle"`
	DisplayName string `toml:"display_name"`
	Password    string `toml:"password"`
	Coins       int    `toml:"coins"`
	Privileged  bool   `toml:"privileged"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        "0.0.0.0:8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Auth:   AuthConfig{JWTSecret: "supersecretmvp"},
		Market: MarketConfig{SignupGrant: 100},
	}
}

// Load reads a TOML config from path, applying defaults for absent fields.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := Default()
	if err = toml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
