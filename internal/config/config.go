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

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Session cookie configuration
	Session SessionConfig

	// CORS configuration
	CORS CORSConfig

	// Security configuration
	Security SecurityConfig

	// Feature flags
	Features FeatureConfig

	// Storefront configuration
	Shop ShopConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, testing, production
	LogLevel    string // debug, info, warn, error
	SiteName    string
	AutoMigrate bool
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver             string // "postgres" (lib/pq) or "pgx" (pgx stdlib)
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// SessionConfig holds the signed session cookie settings
type SessionConfig struct {
	Secret       string
	CookieName   string
	MaxAge       time.Duration
	SecureCookie bool
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost       int
	EnableRequestLog bool
}

// FeatureConfig toggles modules that are not generally available yet
type FeatureConfig struct {
	Reports   bool
	Receipts  bool
	Inventory bool
}

// ShopConfig holds customer-facing display settings
type ShopConfig struct {
	Currency               string
	ReceiptRedirectSeconds int
}

const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverPgx      = "pgx"

	minSessionSecretLength = 32
)

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	environment := getEnv("ENVIRONMENT", EnvProduction)

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: environment,
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			SiteName:    getEnv("SITE_NAME", "Cafeteria Management System"),
			AutoMigrate: getEnvAsBool("AUTO_MIGRATE", false),
		},
		Database: databaseFromEnv(),
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", ""),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "cafeteria_session"),
			MaxAge:       time.Duration(getEnvAsInt("SESSION_MAX_AGE", 28800)) * time.Second,
			SecureCookie: getEnvAsBool("SESSION_SECURE_COOKIE", environment == EnvProduction),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
		},
		Security: SecurityConfig{
			BcryptCost:       getEnvAsInt("BCRYPT_COST", 12),
			EnableRequestLog: getEnvAsBool("ENABLE_REQUEST_LOGGING", true),
		},
		Features: FeatureConfig{
			Reports:   getEnvAsBool("FEATURE_REPORTS", false),
			Receipts:  getEnvAsBool("FEATURE_RECEIPTS", false),
			Inventory: getEnvAsBool("FEATURE_INVENTORY", false),
		},
		Shop: ShopConfig{
			Currency:               getEnv("CURRENCY", "Ksh"),
			ReceiptRedirectSeconds: getEnvAsInt("RECEIPT_REDIRECT_SECONDS", 5),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadDatabase loads only the database settings, for tools that do not serve HTTP
func LoadDatabase() (DatabaseConfig, error) {
	_ = godotenv.Load()

	cfg := databaseFromEnv()
	if cfg.URL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func databaseFromEnv() DatabaseConfig {
	return DatabaseConfig{
		Driver:             getEnv("DATABASE_DRIVER", DriverPostgres),
		URL:                getEnv("DATABASE_URL", ""),
		MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
		MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
		ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Server.Environment {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		return fmt.Errorf("invalid ENVIRONMENT: %s (must be 'development', 'testing' or 'production')", c.Server.Environment)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Database.Driver != DriverPostgres && c.Database.Driver != DriverPgx {
		return fmt.Errorf("invalid DATABASE_DRIVER: %s (must be 'postgres' or 'pgx')", c.Database.Driver)
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if len(c.Session.Secret) < minSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecretLength)
	}

	if c.Session.MaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive")
	}

	return nil
}

// ShowDebug reports whether diagnostic detail may be rendered to users
func (c *Config) ShowDebug() bool {
	return c.Server.Environment == EnvDevelopment
}

// FeatureEnabled checks a feature flag by name. Unknown names are disabled.
func (c *Config) FeatureEnabled(name string) bool {
	switch name {
	case "reports":
		return c.Features.Reports
	case "receipts":
		return c.Features.Receipts
	case "inventory":
		return c.Features.Inventory
	}
	return false
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
