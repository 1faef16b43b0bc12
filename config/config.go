package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"

	CatalogPostgres = "postgres"
	CatalogSQLite   = "sqlite"
)

type Config struct {
	Port     string
	Mode     string
	Debug    bool
	LogLevel string

	MongoURL      string
	MongoDatabase string

	CatalogDB   string
	PostgresURL string
	SQLitePath  string

	SessionSecret         string
	SessionDuration       time.Duration
	SessionActiveDuration time.Duration

	LoginRatePerMinute int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Mode:     strings.ToLower(getEnv("APP_MODE", ModeDevelopment)),
		Debug:    os.Getenv("APP_DEBUG") == "true",
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MongoURL:      os.Getenv("MONGO_URL"),
		MongoDatabase: getEnv("MONGO_DATABASE", "climate"),

		CatalogDB:   strings.ToLower(getEnv("CATALOG_DB", CatalogPostgres)),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "data/catalog.db"),

		SessionSecret:         os.Getenv("SESSION_SECRET"),
		SessionDuration:       getDuration("SESSION_DURATION", 30*time.Minute),
		SessionActiveDuration: getDuration("SESSION_ACTIVE_DURATION", 10*time.Minute),

		LoginRatePerMinute: getInt("LOGIN_RATE_PER_MIN", 10),
	}
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Mode == ModeProduction
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.MongoURL == "" {
		return errors.New("MONGO_URL not set in environment")
	}
	switch c.CatalogDB {
	case CatalogPostgres:
		if c.PostgresURL == "" {
			return errors.New("POSTGRES_URL not set in environment")
		}
	case CatalogSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH not set in environment")
		}
	default:
		return errors.New("CATALOG_DB not supported: " + c.CatalogDB)
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}
	if c.SessionActiveDuration <= 0 || c.SessionDuration <= 0 {
		return errors.New("session durations must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
