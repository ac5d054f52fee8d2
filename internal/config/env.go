package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// parseEnv overlays configuration values from environment variables onto the
// provided Config. In development a .env file sitting next to the binary is
// loaded first, without overriding variables already present in the
// environment. Variables that are not set leave the current values untouched.
func parseEnv(config *Config) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
