package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Spreadsheet exports
	Sources SourcesConfig

	// Generated artifact
	Output OutputConfig

	// Search API
	HTTP HTTPConfig

	// Redis response cache
	Redis RedisConfig

	// Observability
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string      `validate:"required"`
	Environment Environment `validate:"oneof=development staging production"`
	Version     string

	// Timezone the exam times are written in (default: Asia/Kolkata)
	Timezone string `validate:"required"`
	Location *time.Location

	// Year used for dates that do not carry one ("Day 1 : 17th Dec : Wed")
	ExamYear int `validate:"min=2000,max=2100"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// SourcesConfig names the three CSV exports.
type SourcesConfig struct {
	RosterPath    string `validate:"required"`
	TheoryPath    string `validate:"required"`
	PracticalPath string `validate:"required"`

	// Substring that marks venue cells on the practical venue row
	VenueKeyword string `validate:"required"`
}

// OutputConfig holds artifact settings.
type OutputConfig struct {
	// JSON array consumed by the front end
	ArtifactPath string `validate:"required"`

	// Optional diagnostics report (unmatched names, bad roll parts, ...)
	ReportPath string
}

// HTTPConfig holds search API settings.
type HTTPConfig struct {
	Host string
	Port int `validate:"min=1,max=65535"`

	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`
	IdleTimeout  time.Duration `validate:"gt=0"`

	EnableCORS     bool
	AllowedOrigins []string

	// Requests per minute per IP (0 = disabled)
	RateLimitPerMinute int `validate:"min=0"`

	// Search result limits
	DefaultSearchLimit int `validate:"min=1"`
	MaxSearchLimit     int `validate:"min=1,gtefield=DefaultSearchLimit"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Enabled bool

	Host     string
	Port     int `validate:"min=1,max=65535"`
	Password string
	DB       int `validate:"min=0,max=15"`

	DialTimeout time.Duration `validate:"gt=0"`

	// Connection attempts at startup before running without cache
	ConnectAttempts int `validate:"min=1"`

	// How long cached responses live
	TTL time.Duration `validate:"gt=0"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `validate:"oneof=debug info warn error"` // debug, info, warn, error
	LogFormat string `validate:"oneof=json text"`             // json, text
}

// Load loads configuration from environment variables. A .env file (path in
// ENV_FILE, default ".env") is read first when it exists; variables already
// set in the environment win.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, fmt.Errorf("env file: %w", err)
	}

	cfg := &Config{
		App:           loadAppConfig(),
		Sources:       loadSourcesConfig(),
		Output:        loadOutputConfig(),
		HTTP:          loadHTTPConfig(),
		Redis:         loadRedisConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func loadAppConfig() AppConfig {
	timezone := getEnv("APP_TIMEZONE", "Asia/Kolkata")

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	return AppConfig{
		Name:            getEnv("APP_NAME", "exam-schedule-hub"),
		Environment:     Environment(getEnv("APP_ENV", "development")),
		Version:         getEnv("APP_VERSION", "0.1.0"),
		Timezone:        timezone,
		Location:        loc,
		ExamYear:        getEnvInt("EXAM_YEAR", 2025),
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func loadSourcesConfig() SourcesConfig {
	return SourcesConfig{
		RosterPath:    getEnv("ROSTER_CSV", "csv_data/roster.csv"),
		TheoryPath:    getEnv("THEORY_CSV", "csv_data/theory.csv"),
		PracticalPath: getEnv("PRACTICAL_CSV", "csv_data/practical.csv"),
		VenueKeyword:  getEnv("PRACTICAL_VENUE_KEYWORD", "Bunker"),
	}
}

func loadOutputConfig() OutputConfig {
	return OutputConfig{
		ArtifactPath: getEnv("OUTPUT_JSON", "src/data/exam_data.json"),
		ReportPath:   getEnv("OUTPUT_REPORT", ""),
	}
}

func loadHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Host:               getEnv("HTTP_HOST", "0.0.0.0"),
		Port:               getEnvInt("HTTP_PORT", 8080),
		ReadTimeout:        getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:        getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		EnableCORS:         getEnvBool("HTTP_ENABLE_CORS", true),
		AllowedOrigins:     getEnvStringSlice("HTTP_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute: getEnvInt("HTTP_RATE_LIMIT", 120),
		DefaultSearchLimit: getEnvInt("SEARCH_DEFAULT_LIMIT", 5),
		MaxSearchLimit:     getEnvInt("SEARCH_MAX_LIMIT", 50),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:         getEnvBool("REDIS_ENABLED", false),
		Host:            getEnv("REDIS_HOST", "localhost"),
		Port:            getEnvInt("REDIS_PORT", 6379),
		Password:        getEnv("REDIS_PASSWORD", ""),
		DB:              getEnvInt("REDIS_DB", 0),
		DialTimeout:     getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ConnectAttempts: getEnvInt("REDIS_CONNECT_ATTEMPTS", 3),
		TTL:             getEnvDuration("REDIS_TTL", 10*time.Minute),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		errs = append(errs, msg)
	}
	return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// Address returns the HTTP listen address.
func (c HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvStringSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
