// internal/config/config.go
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
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Ledger      LedgerConfig
	Polling     PollingConfig
	Renewal     RenewalConfig
	RateLimit   RateLimitConfig
	JWT         JWTConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

// DatabaseConfig points at the Participant Query Store database. The same
// database also holds the command audit trail.
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type LedgerConfig struct {
	APIBaseURL     string
	ApplicationID  string
	RequestTimeout int // in seconds
}

// PollingConfig holds the reconciler cadence per entity kind.
type PollingConfig struct {
	AppInstallRequestInterval time.Duration
	AppInstallInterval        time.Duration
	LicenseInterval           time.Duration
	RenewalRequestInterval    time.Duration
}

// RenewalConfig is the provider-side renewal offer policy.
type RenewalConfig struct {
	FeeCC                     float64
	ExtensionDuration         string // ISO-8601 period, e.g. P30D
	PaymentAcceptanceDuration string // ISO-8601 period, e.g. P7D
}

// RateLimitConfig carries per-client request budgets. Reads are polled by
// the UI and get a generous budget; command submissions are ledger
// round-trips and stay tight.
type RateLimitConfig struct {
	GeneralRPS   float64
	GeneralBurst int
	CommandRPS   float64
	CommandBurst int
}

type JWTConfig struct {
	SecretKey string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "pqs"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Ledger: LedgerConfig{
			APIBaseURL:     getEnv("LEDGER_API_BASE_URL", "http://localhost:7575"),
			ApplicationID:  getEnv("LEDGER_APPLICATION_ID", "licensing-backend"),
			RequestTimeout: getEnvAsInt("LEDGER_REQUEST_TIMEOUT", 30),
		},
		Polling: PollingConfig{
			AppInstallRequestInterval: getEnvAsDuration("POLL_APP_INSTALL_REQUESTS", time.Second),
			AppInstallInterval:        getEnvAsDuration("POLL_APP_INSTALLS", time.Second),
			LicenseInterval:           getEnvAsDuration("POLL_LICENSES", 2*time.Second),
			RenewalRequestInterval:    getEnvAsDuration("POLL_RENEWAL_REQUESTS", 5*time.Second),
		},
		Renewal: RenewalConfig{
			FeeCC:                     getEnvAsFloat("RENEWAL_FEE_CC", 100),
			ExtensionDuration:         getEnv("RENEWAL_EXTENSION_DURATION", "P30D"),
			PaymentAcceptanceDuration: getEnv("RENEWAL_PAYMENT_ACCEPTANCE_DURATION", "P7D"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   getEnvAsFloat("RATE_LIMIT_GENERAL_RPS", 50),
			GeneralBurst: getEnvAsInt("RATE_LIMIT_GENERAL_BURST", 100),
			CommandRPS:   getEnvAsFloat("RATE_LIMIT_COMMAND_RPS", 5),
			CommandBurst: getEnvAsInt("RATE_LIMIT_COMMAND_BURST", 10),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if !strings.HasPrefix(c.Ledger.APIBaseURL, "http://") && !strings.HasPrefix(c.Ledger.APIBaseURL, "https://") {
		return fmt.Errorf("ledger API base URL must be an http(s) URL")
	}

	return nil
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
