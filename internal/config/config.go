package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/store-it/rental-service/internal/utils"
)

type Config struct {
	AppName string
	AppPort string
	AppUrl  string

	DBUrl string

	SendgridAPIKey      string
	SendgridFromEmail   string
	SendgridSandboxMode bool

	SweepSchedule string
}

// LoadConfig reads the environment (optionally seeded from a .env file)
// and fails fast on anything required. Services never read env vars
// directly; everything flows through here.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Info("No .env file found, relying on environment")
	}

	cfg := &Config{
		AppName:           getEnv("APP_NAME", "rental-service"),
		AppPort:           mustGetEnv("APP_PORT"),
		AppUrl:            getEnv("APP_URL", ""),
		DBUrl:             mustGetEnv("DB_URL"),
		SendgridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendgridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "noreply@store-it.example"),
		SweepSchedule:     getEnv("SWEEP_SCHEDULE", ""),
	}

	if v := os.Getenv("SENDGRID_SANDBOX_MODE"); v != "" {
		sandbox, err := strconv.ParseBool(v)
		if err != nil {
			utils.Logger.Fatalf("SENDGRID_SANDBOX_MODE invalid: %q", v)
		}
		cfg.SendgridSandboxMode = sandbox
	}

	return cfg
}

func mustGetEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", key)
	}
	return v
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
