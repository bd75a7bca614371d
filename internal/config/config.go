package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Limits   LimitsConfig
	APILog   APILogConfig
	Master   MasterConfig
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory".
	Driver      string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Debug              bool
	Timezone           string
	CORSAllowedOrigins []string
}

type LimitsConfig struct {
	UserLimit int64
}

type APILogConfig struct {
	RetentionDays int
	PurgeInterval time.Duration
}

// MasterConfig seeds the installation's master account on startup.
type MasterConfig struct {
	Name     string
	Email    string
	Password string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	autoMigrate, err := getEnvBool("DB_AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Driver:      getEnv("DB_DRIVER", "postgres"),
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "timeclock"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: autoMigrate,
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	debug, err := getEnvBool("APP_DEBUG", false)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Debug:              debug,
		Timezone:           getEnv("APP_TIMEZONE", "America/Sao_Paulo"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	userLimit, err := strconv.ParseInt(getEnv("USER_LIMIT", "1000"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid USER_LIMIT: %w", err)
	}
	config.Limits = LimitsConfig{UserLimit: userLimit}

	retention, err := strconv.Atoi(getEnv("API_LOG_RETENTION_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_LOG_RETENTION_DAYS: %w", err)
	}
	purgeInterval, err := time.ParseDuration(getEnv("API_LOG_PURGE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_LOG_PURGE_INTERVAL: %w", err)
	}
	config.APILog = APILogConfig{
		RetentionDays: retention,
		PurgeInterval: purgeInterval,
	}

	config.Master = MasterConfig{
		Name:     getEnv("MASTER_NAME", "Master"),
		Email:    getEnv("MASTER_EMAIL", ""),
		Password: getEnv("MASTER_PASSWORD", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Password == "" {
			return errors.New("DB_PASSWORD is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Limits.UserLimit < 1 {
		return errors.New("USER_LIMIT must be at least 1")
	}
	if c.APILog.RetentionDays < 1 {
		return errors.New("API_LOG_RETENTION_DAYS must be at least 1")
	}
	if (c.Master.Email == "") != (c.Master.Password == "") {
		return errors.New("MASTER_EMAIL and MASTER_PASSWORD must be set together")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the configured business timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
