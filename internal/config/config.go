package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Tesseract-Nexus/go-shared/secrets"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server
	Port        string
	Environment string

	// Redis (saved filters, catalog cache)
	RedisURL string

	// NATS
	NATSURL string

	// RBAC
	StaffServiceURL string

	// Ledger
	LedgerMode              string
	LedgerGatewayURL        string
	LedgerConfirmationDelay time.Duration

	// Stock evaluation
	StockEvaluationInterval time.Duration
	ScoringWeights          string

	// Reports
	ReportTimezone string

	// Seed sample distributors, requests and stock on startup
	SeedSampleData bool
	SeedTenantID   string

	// Pagination
	DefaultPageSize int
	MaxPageSize     int
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	defaultPageSize, _ := strconv.Atoi(getEnv("DEFAULT_PAGE_SIZE", "20"))
	maxPageSize, _ := strconv.Atoi(getEnv("MAX_PAGE_SIZE", "100"))
	seed, _ := strconv.ParseBool(getEnv("SEED_SAMPLE_DATA", "false"))

	return &Config{
		// Database - fetch password from GCP Secret Manager if enabled
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: secrets.GetDBPassword(),
		DBName:     getEnv("DB_NAME", "medsupply_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Server
		Port:        getEnv("PORT", "8091"),
		Environment: getEnv("ENVIRONMENT", "development"),

		RedisURL: getEnv("REDIS_URL", ""),
		NATSURL:  getEnv("NATS_URL", ""),

		StaffServiceURL: getEnv("STAFF_SERVICE_URL", "http://staff-service:8080"),

		LedgerMode:              getEnv("LEDGER_MODE", "simulated"),
		LedgerGatewayURL:        getEnv("LEDGER_GATEWAY_URL", ""),
		LedgerConfirmationDelay: getDuration("LEDGER_CONFIRMATION_DELAY", 2*time.Second),

		StockEvaluationInterval: getDuration("STOCK_EVALUATION_INTERVAL", 15*time.Minute),
		ScoringWeights:          getEnv("SCORING_WEIGHTS", ""),

		ReportTimezone: getEnv("REPORT_TIMEZONE", "Asia/Kolkata"),
		SeedSampleData: seed,
		SeedTenantID:   getEnv("SEED_TENANT_ID", "00000000-0000-0000-0000-000000000001"),

		// Pagination
		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,
	}
}

// ReportLocation resolves ReportTimezone, falling back to UTC
func (c *Config) ReportLocation() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		log.Printf("WARNING: Unknown REPORT_TIMEZONE %q, using UTC", c.ReportTimezone)
		return time.UTC
	}
	return loc
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// InitRedis connects to REDIS_URL. It returns nil when Redis is not
// configured or unreachable; callers fall back to in-memory state.
func InitRedis(cfg *Config) *redis.Client {
	if cfg.RedisURL == "" {
		log.Println("REDIS_URL not configured, caching disabled")
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		return nil
	}
	if password := secrets.GetRedisPassword(); password != "" {
		opts.Password = password
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
		_ = client.Close()
		return nil
	}

	log.Println("✓ Redis connected successfully")
	return client
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("WARNING: Invalid %s %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
