package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	TablePrefix string
	LogDir      string // empty = stdout only
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: os.Getenv("TABLE_PREFIX"),
		LogDir:      os.Getenv("LOG_DIR"),
		Debug:       getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// OwnSchema reports whether this deployment owns its database schema and
// should run the embedded migrations. Prefixed tables mean the schema is
// managed externally.
func (c *Config) OwnSchema() bool {
	return c.TablePrefix == ""
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
