package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

const (
	// DriverPostgres selects the PostgreSQL store
	DriverPostgres = "postgres"
	// DriverSQLite selects the embedded SQLite store
	DriverSQLite = "sqlite"
)

// Config holds all configuration for the feed service
type Config struct {
	Database DatabaseConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Service  ServiceConfig
	Poller   PollerConfig
	Email    EmailConfig
	Telegram TelegramConfig
}

// Options carries command line overrides applied on top of the environment
type Options struct {
	EnvFile  string
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver         string
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	Path           string
	MigrationsURL  string
	MaxOpenConns   int
	ConnectTimeout time.Duration
}

// KafkaConfig holds Kafka configuration. Empty Brokers disables publishing.
type KafkaConfig struct {
	Brokers        []string
	ItemsTopic     string
	DeliveredTopic string
	WriteTimeout   time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// PollerConfig holds feed polling configuration
type PollerConfig struct {
	Interval     time.Duration
	Timeout      time.Duration
	CycleTimeout time.Duration
	Concurrency  int
	UserAgent    string
	MaxRedirects int
}

// EmailConfig holds email digest configuration
type EmailConfig struct {
	Interval      time.Duration
	CycleTimeout  time.Duration
	DialTimeout   time.Duration
	EncryptionKey []byte
	ProductName   string
}

// TelegramConfig holds Telegram digest configuration.
// BotToken and APIBaseURL fall back to the settings table when empty.
type TelegramConfig struct {
	Interval         time.Duration
	CycleTimeout     time.Duration
	Timeout          time.Duration
	BotToken         string
	APIBaseURL       string
	RatePerSecond    float64
	MessageLimit     int
	TruncationNotice string
}

// Result is fx.Out struct for providing config dependencies
type Result struct {
	fx.Out

	Config         *Config
	DatabaseConfig *DatabaseConfig
	KafkaConfig    *KafkaConfig
	LoggingConfig  *LoggingConfig
	ServiceConfig  *ServiceConfig
	PollerConfig   *PollerConfig
	EmailConfig    *EmailConfig
	TelegramConfig *TelegramConfig
}

// Out returns fx-compatible config result
func Out(opts Options) (Result, error) {
	cfg, err := Load(opts)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:         cfg,
		DatabaseConfig: &cfg.Database,
		KafkaConfig:    &cfg.Kafka,
		LoggingConfig:  &cfg.Logging,
		ServiceConfig:  &cfg.Service,
		PollerConfig:   &cfg.Poller,
		EmailConfig:    &cfg.Email,
		TelegramConfig: &cfg.Telegram,
	}, nil
}

// Load loads configuration from environment variables
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	key, err := parseEncryptionKey(getEnv("EMAIL_ENCRYPTION_KEY", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:         strings.ToLower(getEnv("DATABASE_DRIVER", DriverPostgres)),
			Host:           getEnv("DATABASE_HOST", "localhost"),
			Port:           getEnv("DATABASE_PORT", "5432"),
			User:           getEnv("DATABASE_USER", "feed_user"),
			Password:       getEnv("DATABASE_PASSWORD", "feed_pass"),
			DBName:         getEnv("DATABASE_NAME", "feed_db"),
			SSLMode:        getEnv("DATABASE_SSLMODE", "disable"),
			Path:           getEnv("DATABASE_PATH", "feeds.db"),
			MigrationsURL:  getEnv("DATABASE_MIGRATIONS_URL", "file://migrations"),
			MaxOpenConns:   getEnvInt("DATABASE_MAX_OPEN_CONNS", 10),
			ConnectTimeout: getEnvDuration("DATABASE_CONNECT_TIMEOUT", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:        splitList(getEnv("KAFKA_BROKERS", "")),
			ItemsTopic:     getEnv("KAFKA_ITEMS_TOPIC", "feeds.items.ingested"),
			DeliveredTopic: getEnv("KAFKA_DELIVERED_TOPIC", "feeds.digest.delivered"),
			WriteTimeout:   getEnvDuration("KAFKA_WRITE_TIMEOUT", 5*time.Second),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "feed-service"),
			Port: getEnv("SERVICE_PORT", "8085"),
		},
		Poller: PollerConfig{
			Interval:     getEnvDuration("FEED_POLL_INTERVAL", 5*time.Minute),
			Timeout:      getEnvDuration("FEED_FETCH_TIMEOUT", 20*time.Second),
			CycleTimeout: getEnvDuration("FEED_POLL_CYCLE_TIMEOUT", 4*time.Minute),
			Concurrency:  getEnvInt("FEED_POLL_CONCURRENCY", 4),
			UserAgent:    getEnv("FEED_USER_AGENT", "NewsFlow feed-service (+https://github.com/Conte777/NewsFlow)"),
			MaxRedirects: getEnvInt("FEED_MAX_REDIRECTS", 5),
		},
		Email: EmailConfig{
			Interval:      getEnvDuration("EMAIL_INTERVAL", 5*time.Minute),
			CycleTimeout:  getEnvDuration("EMAIL_CYCLE_TIMEOUT", 4*time.Minute),
			DialTimeout:   getEnvDuration("EMAIL_DIAL_TIMEOUT", 15*time.Second),
			EncryptionKey: key,
			ProductName:   getEnv("EMAIL_PRODUCT_NAME", "NewsFlow"),
		},
		Telegram: TelegramConfig{
			Interval:         getEnvDuration("TELEGRAM_INTERVAL", time.Minute),
			CycleTimeout:     getEnvDuration("TELEGRAM_CYCLE_TIMEOUT", 50*time.Second),
			Timeout:          getEnvDuration("TELEGRAM_TIMEOUT", 10*time.Second),
			BotToken:         getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIBaseURL:       strings.TrimRight(getEnv("TELEGRAM_API_BASE_URL", ""), "/"),
			RatePerSecond:    getEnvFloat("TELEGRAM_RATE_PER_SECOND", 20),
			MessageLimit:     getEnvInt("TELEGRAM_MESSAGE_LIMIT", 3900),
			TruncationNotice: getEnv("TELEGRAM_TRUNCATION_NOTICE", "<i>... more items truncated ...</i>"),
		},
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DATABASE_HOST is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DATABASE_USER is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("DATABASE_NAME is required")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DATABASE_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}

	if c.Poller.Interval <= 0 {
		return fmt.Errorf("FEED_POLL_INTERVAL must be positive")
	}

	if c.Poller.Concurrency < 1 {
		return fmt.Errorf("FEED_POLL_CONCURRENCY must be at least 1")
	}

	if c.Email.Interval <= 0 {
		return fmt.Errorf("EMAIL_INTERVAL must be positive")
	}

	if c.Telegram.Interval <= 0 {
		return fmt.Errorf("TELEGRAM_INTERVAL must be positive")
	}

	if c.Telegram.MessageLimit < 256 || c.Telegram.MessageLimit > 4096 {
		return fmt.Errorf("TELEGRAM_MESSAGE_LIMIT must be between 256 and 4096")
	}

	if c.Telegram.RatePerSecond <= 0 {
		return fmt.Errorf("TELEGRAM_RATE_PER_SECOND must be positive")
	}

	return nil
}

// PollConcurrency returns the effective number of parallel feed fetches.
// SQLite serialises writers, so it always gets a single worker.
func (c *Config) PollConcurrency() int {
	if c.Database.Driver == DriverSQLite {
		return 1
	}
	return c.Poller.Concurrency
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode, int(c.ConnectTimeout.Seconds()),
	)
}

// EmailEnabled reports whether the SMTP password key is configured
func (c *EmailConfig) EmailEnabled() bool {
	return len(c.EncryptionKey) == 32
}

// parseEncryptionKey decodes a 64 character hex string into a 32 byte key.
// An empty value leaves the email channel disabled.
func parseEncryptionKey(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("EMAIL_ENCRYPTION_KEY must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("EMAIL_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets environment variable as int with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvFloat gets environment variable as float with default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// getEnvDuration gets environment variable as duration with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
