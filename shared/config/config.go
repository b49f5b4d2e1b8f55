package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvironmentLocal      Environment = "local"
	EnvironmentStaging    Environment = "staging"
	EnvironmentProduction Environment = "production"
)

type Config struct {
	// App
	AppName        string
	AppDescription string
	AppVersion     string
	LicenseName    string
	ContactName    string
	ContactEmail   string
	Port           string
	Environment    Environment

	// Database
	DatabaseURL  string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string
	CreateTables bool

	// Security
	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int
	RefreshTokenExpireDays   int
	TokenType                string

	// Redis (revocation cache, disabled when RedisHost is empty)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// HTTP
	ClientCacheMaxAge  int
	CORSAllowedOrigins []string

	// Super Admin
	AdminName     string
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	// EnvFile is the .env file that was loaded, empty if none was found.
	EnvFile string
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
}

// LoadConfig loads configuration from the first .env file found and the process environment.
func LoadConfig() (*Config, error) {
	envFile := ""
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			envFile = path
			break
		}
	}

	cfg := &Config{
		AppName:        getEnv("APP_NAME", "Mada Job app"),
		AppDescription: getEnv("APP_DESCRIPTION", "Account and authentication API"),
		AppVersion:     getEnv("APP_VERSION", "0.1"),
		LicenseName:    getEnv("LICENSE", "MIT"),
		ContactName:    getEnv("CONTACT_NAME", ""),
		ContactEmail:   getEnv("CONTACT_EMAIL", ""),
		Port:           getEnv("PORT", "8000"),
		Environment:    Environment(strings.ToLower(getEnv("ENVIRONMENT", string(EnvironmentLocal)))),

		DatabaseURL:  getEnv("DATABASE_URL", ""),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "madajob"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),
		CreateTables: getEnvAsBool("CREATE_TABLE", true),

		SecretKey:                os.Getenv("SECRET_KEY"),
		Algorithm:                getEnv("ALGORITHM", "HS256"),
		AccessTokenExpireMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		RefreshTokenExpireDays:   getEnvAsInt("REFRESH_TOKEN_EXPIRE_DAYS", 7),
		TokenType:                getEnv("TOKEN_TYPE", "bearer"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ClientCacheMaxAge:  getEnvAsInt("CLIENT_CACHE_MAX_AGE", 60),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		AdminName:     getEnv("ADMIN_NAME", "Admin"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@admin.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		EnvFile: envFile,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that makes the service unable to start.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("ALGORITHM %q is not supported, use HS256, HS384 or HS512", c.Algorithm)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.RefreshTokenExpireDays <= 0 {
		return errors.New("REFRESH_TOKEN_EXPIRE_DAYS must be positive")
	}
	switch c.Environment {
	case EnvironmentLocal, EnvironmentStaging, EnvironmentProduction:
	default:
		return fmt.Errorf("ENVIRONMENT %q is not one of local, staging, production", c.Environment)
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty items
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
