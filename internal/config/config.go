package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Admin authentication
	Auth AuthConfig

	// Content pipeline configuration
	Content ContentConfig

	// Public site settings used for sitemap and robots.txt
	Site SiteConfig

	// Contact-form notifications
	Notify NotifyConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// AuthConfig holds token and registration settings
type AuthConfig struct {
	JWTSecret          string
	TokenTTL           time.Duration
	AllowedEmails      []string // only these addresses may register
	LoginRatePerMinute int
}

// ContentConfig holds article pipeline settings
type ContentConfig struct {
	MaxUploadSize   int64 // in bytes
	ExcerptLength   int
	MaxImageWidth   int // 0 disables resizing
	SlugMaxAttempts int
}

// SiteConfig describes the public website
type SiteConfig struct {
	BaseURL     string
	StaticPages []string
	Categories  []string
}

// NotifyConfig holds contact notification settings
type NotifyConfig struct {
	WebhookURL     string
	WebhookTimeout time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
	Env    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8001"),
			ReadTimeout:        getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:       getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout:    getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "cityguide_blog"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Auth: AuthConfig{
			JWTSecret:          os.Getenv("JWT_SECRET_KEY"),
			TokenTTL:           getDurationEnv("ACCESS_TOKEN_TTL", 24*time.Hour),
			AllowedEmails:      getListEnv("ADMIN_ALLOWED_EMAILS", nil),
			LoginRatePerMinute: getIntEnv("LOGIN_RATE_PER_MINUTE", 10),
		},
		Content: ContentConfig{
			MaxUploadSize:   getInt64Env("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
			ExcerptLength:   getIntEnv("EXCERPT_LENGTH", 150),
			MaxImageWidth:   getIntEnv("FEATURED_IMAGE_MAX_WIDTH", 1600),
			SlugMaxAttempts: getIntEnv("SLUG_MAX_ATTEMPTS", 5),
		},
		Site: SiteConfig{
			BaseURL:     strings.TrimRight(getEnv("SITE_URL", "https://howtobangalore.com"), "/"),
			StaticPages: getListEnv("SITE_STATIC_PAGES", []string{"/", "/about", "/contact", "/privacy", "/terms", "/disclaimer", "/sitemap"}),
			Categories:  getListEnv("SITE_CATEGORIES", []string{"housing", "transport", "utilities", "lifestyle"}),
		},
		Notify: NotifyConfig{
			WebhookURL:     os.Getenv("CONTACT_WEBHOOK_URL"),
			WebhookTimeout: getDurationEnv("CONTACT_WEBHOOK_TIMEOUT", 5*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Env:    getEnv("ENV", "production"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET_KEY is required and must be at least 16 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if c.Content.SlugMaxAttempts < 1 {
		return fmt.Errorf("SLUG_MAX_ATTEMPTS must be at least 1")
	}
	if c.Content.MaxImageWidth < 0 {
		return fmt.Errorf("FEATURED_IMAGE_MAX_WIDTH must not be negative")
	}
	if !strings.HasPrefix(c.Site.BaseURL, "http://") && !strings.HasPrefix(c.Site.BaseURL, "https://") {
		return fmt.Errorf("SITE_URL must be an absolute http(s) URL")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// IsAllowedEmail reports whether email may register an admin account
func (c *AuthConfig) IsAllowedEmail(email string) bool {
	email = strings.TrimSpace(email)
	for _, allowed := range c.AllowedEmails {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated variable, dropping blank entries
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
