package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	Admin      AdminConfig
	App        AppConfig
	Attendance AttendanceConfig
	Match      MatchConfig
	Office     OfficeConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AdminConfig holds the single administrator credential. Admin routes are
// protected only when Username is set.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// AttendanceConfig holds the ledger and leaderboard settings.
type AttendanceConfig struct {
	Timezone        string
	Location        *time.Location
	StandardWorkday time.Duration
}

// MatchConfig holds face matching settings.
type MatchConfig struct {
	Threshold       float64
	Policy          string
	RosterRefresh   time.Duration
	IndexNeighbours int
}

// OfficeConfig describes the optional geofence around the office.
type OfficeConfig struct {
	Enabled      bool
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

func Load() (*Config, error) {
	// .env is optional; real deployments pass plain environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "face_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT and admin configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}
	config.Admin = AdminConfig{
		Username:     getEnv("ADMIN_USERNAME", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	// Attendance configuration
	workday, err := time.ParseDuration(getEnv("STANDARD_WORKDAY", "8h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STANDARD_WORKDAY: %w", err)
	}
	timezone := getEnv("APP_TIMEZONE", "Local")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	config.Attendance = AttendanceConfig{
		Timezone:        timezone,
		Location:        loc,
		StandardWorkday: workday,
	}

	// Face matching configuration
	threshold, err := strconv.ParseFloat(getEnv("MATCH_THRESHOLD", "0.55"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MATCH_THRESHOLD: %w", err)
	}
	rosterRefresh, err := time.ParseDuration(getEnv("ROSTER_REFRESH_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ROSTER_REFRESH_INTERVAL: %w", err)
	}
	neighbours, err := strconv.Atoi(getEnv("MATCH_INDEX_NEIGHBOURS", "16"))
	if err != nil {
		return nil, fmt.Errorf("invalid MATCH_INDEX_NEIGHBOURS: %w", err)
	}
	config.Match = MatchConfig{
		Threshold:       threshold,
		Policy:          strings.ToLower(getEnv("MATCH_POLICY", "nearest")),
		RosterRefresh:   rosterRefresh,
		IndexNeighbours: neighbours,
	}

	// Office geofence, disabled unless both coordinates are present
	latStr := getEnv("OFFICE_LATITUDE", "")
	lonStr := getEnv("OFFICE_LONGITUDE", "")
	radius, err := strconv.ParseFloat(getEnv("OFFICE_RADIUS_METERS", "700"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_RADIUS_METERS: %w", err)
	}
	config.Office = OfficeConfig{RadiusMeters: radius}
	if latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OFFICE_LATITUDE: %w", err)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OFFICE_LONGITUDE: %w", err)
		}
		config.Office.Enabled = true
		config.Office.Latitude = lat
		config.Office.Longitude = lon
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
	if c.Match.Threshold <= 0 {
		return fmt.Errorf("MATCH_THRESHOLD must be positive")
	}
	switch c.Match.Policy {
	case "first", "nearest", "indexed":
	default:
		return fmt.Errorf("MATCH_POLICY must be one of: first, nearest, indexed")
	}
	if c.Match.RosterRefresh <= 0 {
		return fmt.Errorf("ROSTER_REFRESH_INTERVAL must be positive")
	}
	if c.Attendance.StandardWorkday <= 0 {
		return fmt.Errorf("STANDARD_WORKDAY must be positive")
	}
	if c.Office.Enabled {
		if c.Office.Latitude < -90 || c.Office.Latitude > 90 {
			return fmt.Errorf("OFFICE_LATITUDE must be between -90 and 90")
		}
		if c.Office.Longitude < -180 || c.Office.Longitude > 180 {
			return fmt.Errorf("OFFICE_LONGITUDE must be between -180 and 180")
		}
		if c.Office.RadiusMeters <= 0 {
			return fmt.Errorf("OFFICE_RADIUS_METERS must be positive")
		}
	}
	if c.AuthEnabled() {
		if c.Admin.PasswordHash == "" {
			return fmt.Errorf("ADMIN_PASSWORD_HASH is required when ADMIN_USERNAME is set")
		}
		if c.JWT.Secret == "" {
			return fmt.Errorf("JWT_SECRET_KEY is required when ADMIN_USERNAME is set")
		}
		if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
			return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
		}
	}
	return nil
}

// AuthEnabled reports whether administrative routes require a token.
func (c *Config) AuthEnabled() bool {
	return c.Admin.Username != ""
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

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
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

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
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
