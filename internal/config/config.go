package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends. The backend is chosen once at startup; every operation
// goes through the same repository interface afterwards.
const (
	StorageDB   = "db"
	StorageFile = "file"
)

type Config struct {
	Addr            string
	Storage         string
	DBPath          string
	DataDir         string
	WordBankPath    string
	SessionSecret   string
	SessionTTLHours int
	Timezone        string
	LogLevel        string
	CookieSecure    bool
	StaticDir       string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8000"),
		Storage:         strings.ToLower(envOr("STORAGE", StorageDB)),
		DBPath:          envOr("DB_PATH", "file:vocapsule.db"),
		DataDir:         envOr("DATA_DIR", "./data"),
		WordBankPath:    envOr("WORDBANK_PATH", "data/word.json"),
		SessionSecret:   envOr("SECRET", "devsecret"),
		SessionTTLHours: envIntOr("SESSION_TTL_HOURS", 720),
		Timezone:        envOr("TIMEZONE", "UTC"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		CookieSecure:    envBoolOr("COOKIE_SECURE", false),
		StaticDir:       envOr("STATIC_DIR", "web/static"),

		GoogleClientID:     envOr("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envOr("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  envOr("GOOGLE_REDIRECT_URI", "http://127.0.0.1:8000/auth/google/callback"),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.Storage != StorageDB && c.Storage != StorageFile {
		problems = append(problems, fmt.Sprintf("STORAGE must be %q or %q, got %q", StorageDB, StorageFile, c.Storage))
	}
	if c.Storage == StorageDB && c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.Storage == StorageFile && c.DataDir == "" {
		problems = append(problems, "DATA_DIR cannot be empty")
	}
	if c.WordBankPath == "" {
		problems = append(problems, "WORDBANK_PATH cannot be empty")
	}
	if c.SessionSecret == "" {
		problems = append(problems, "SECRET cannot be empty")
	}
	if c.SessionTTLHours <= 0 {
		problems = append(problems, "SESSION_TTL_HOURS must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE is not a valid IANA zone: %v", err))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// Location resolves the configured timezone. Call Validate first; an
// unparseable zone falls back to UTC here.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
