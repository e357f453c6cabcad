package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/arnavshah/guard-roster-go/pkg/models"
)

// Config holds the process settings read from the environment
type Config struct {
	Port            string `validate:"required,numeric"`
	GinMode         string `validate:"omitempty,oneof=debug release test"`
	DatabaseURL     string
	DataPath        string `validate:"required"`
	JWTSecret       string
	APIMasterSecret string
	AdminUsername   string `validate:"required"`
	AdminPassword   string `validate:"required"`
	RosterFile      string
	SolverMode      string        `validate:"oneof=auto exact heuristic"`
	SolverTimeLimit time.Duration `validate:"gte=0"`
	LogLevel        string        `validate:"oneof=debug info warn error"`
	LogFormat       string        `validate:"oneof=text json"`
}

// LoadDotEnv loads the first .env file found among paths.
// Try root and parent directories for flexibility.
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{".env", "../.env", "../../.env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return p
		}
	}
	return ""
}

// FromEnv reads and validates the configuration
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:            getenv("PORT", "8000"),
		GinMode:         os.Getenv("GIN_MODE"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DataPath:        getenv("DATA_PATH", "api_keys.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		APIMasterSecret: os.Getenv("API_MASTER_SECRET"),
		AdminUsername:   getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getenv("ADMIN_PASSWORD", "admin123"),
		RosterFile:      os.Getenv("ROSTER_FILE"),
		SolverMode:      getenv("SOLVER_MODE", "auto"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "text"),
		SolverTimeLimit: 10 * time.Second,
	}

	if raw := os.Getenv("SOLVER_TIME_LIMIT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, models.NewConfigError("SOLVER_TIME_LIMIT: %v", err)
		}
		cfg.SolverTimeLimit = d
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, validationError(err)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
