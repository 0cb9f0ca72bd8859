package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with STORE_BACKEND
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreBaaS     = "baas"
)

// Config holds all configuration for the application.
// Only this package reads environment variables.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// StoreBackend selects where rank populations live (memory, postgres, baas)
	StoreBackend string

	Database    DatabaseConfig
	Redis       RedisConfig
	BaaS        BaaSConfig
	Generation  GenerationConfig
	Leaderboard LeaderboardConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// BaaSConfig holds the backend-as-a-service REST endpoint
type BaaSConfig struct {
	URL               string
	AnonKey           string
	Timeout           time.Duration
	RequestsPerSecond int
}

// GenerationConfig holds the remote assessment/concept-map function settings
type GenerationConfig struct {
	FunctionsURL string
	APIKey       string
	Model        string
	Timeout      time.Duration
	RateLimit    int // calls per minute, enforced through redis when enabled
}

// LeaderboardConfig holds leaderboard behaviour knobs
type LeaderboardConfig struct {
	SnapshotSchedule string // cron expression with seconds
	WarmupSchedule   string
	MockUsers        int
	MockTeams        int
	MockSeed         uint64
	CacheTTL         time.Duration
}

// Load reads configuration from environment variables, after loading the first .env found
func Load() (*Config, error) {
	loadEnvFile()
	return fromEnv()
}

// LoadFile is Load with an explicit env file; variables already set in the environment win
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Load()
	}
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("load env file %s: %w", path, err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		StoreBackend: getEnv("STORE_BACKEND", StoreMemory),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		BaaS: BaaSConfig{
			URL:               getEnv("BAAS_URL", ""),
			AnonKey:           getEnv("BAAS_ANON_KEY", ""),
			Timeout:           getEnvAsDuration("BAAS_TIMEOUT", "10s"),
			RequestsPerSecond: getEnvAsInt("BAAS_RPS", 10),
		},

		Generation: GenerationConfig{
			FunctionsURL: getEnv("GENERATION_URL", ""),
			APIKey:       getEnv("GENERATION_API_KEY", ""),
			Model:        getEnv("GENERATION_MODEL", ""),
			Timeout:      getEnvAsDuration("GENERATION_TIMEOUT", "30s"),
			RateLimit:    getEnvAsInt("GENERATION_RATE_LIMIT", 30),
		},

		Leaderboard: LeaderboardConfig{
			SnapshotSchedule: getEnv("LEADERBOARD_SNAPSHOT_SCHEDULE", "0 0 * * * *"),
			WarmupSchedule:   getEnv("LEADERBOARD_WARMUP_SCHEDULE", "0 */10 * * * *"),
			MockUsers:        getEnvAsInt("LEADERBOARD_MOCK_USERS", 50),
			MockTeams:        getEnvAsInt("LEADERBOARD_MOCK_TEAMS", 8),
			MockSeed:         uint64(getEnvAsInt("LEADERBOARD_MOCK_SEED", 42)),
			CacheTTL:         getEnvAsDuration("LEADERBOARD_CACHE_TTL", "1m"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	case StoreBaaS:
		if c.BaaS.URL == "" {
			return fmt.Errorf("BAAS_URL is required when STORE_BACKEND=baas")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: memory, postgres, baas")
	}

	if c.Leaderboard.MockUsers < 0 || c.Leaderboard.MockTeams < 0 {
		return fmt.Errorf("mock population sizes must not be negative")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
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
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
