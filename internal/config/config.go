package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Terminal   TerminalConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds the reconciliation engine settings. WindowStart is
// the local time-of-day ("HH:MM") at which an attendance day begins; punches
// before it belong to the previous day's window.
type AttendanceConfig struct {
	Timezone     string
	WindowStart  string
	SyncInterval time.Duration
}

// TerminalConfig holds the biometric terminal connection settings.
type TerminalConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	DeviceIDs []string
}

func Load() (*Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrms_app"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance engine configuration
	syncInterval, err := time.ParseDuration(getEnv("SYNC_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		Timezone:     getEnv("COMPANY_TIMEZONE", "Asia/Riyadh"),
		WindowStart:  getEnv("ATTENDANCE_WINDOW_START", "06:00"),
		SyncInterval: syncInterval,
	}

	// Terminal configuration
	terminalTimeout, err := time.ParseDuration(getEnv("TERMINAL_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TERMINAL_TIMEOUT: %w", err)
	}

	config.Terminal = TerminalConfig{
		BaseURL:   getEnv("TERMINAL_BASE_URL", ""),
		APIKey:    getEnv("TERMINAL_API_KEY", ""),
		Timeout:   terminalTimeout,
		DeviceIDs: getEnvSlice("TERMINAL_DEVICE_IDS"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Terminal.BaseURL == "" {
		return fmt.Errorf("TERMINAL_BASE_URL is required")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid COMPANY_TIMEZONE: %w", err)
	}
	if _, err := parseWindowStart(c.Attendance.WindowStart); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_WINDOW_START: %w", err)
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

// WindowStartMinutes returns the attendance window start as minutes after
// local midnight.
func (c *Config) WindowStartMinutes() int {
	minutes, _ := parseWindowStart(c.Attendance.WindowStart)
	return minutes
}

func parseWindowStart(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string = strings.Split(value, ",")
	return result
}
