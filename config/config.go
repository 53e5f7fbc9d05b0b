package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Analysis AnalysisConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Database DatabaseConfig
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

type AnalysisConfig struct {
	SimilarityThreshold float64
	BatchSize           int
	BatchConcurrency    int
	MaxFileSizeBytes    int
	MaxMatchesPerRule   int
	FuzzyMinLength      int
	FuzzyMaxLength      int
	MaxFuzzyComparisons int
}

type CacheConfig struct {
	ResultTTL      time.Duration
	PatternTTL     time.Duration
	ResultMaxSize  int
	PatternMaxSize int
	SweepSchedule  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	DSN string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Analysis: AnalysisConfig{
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.7),
			BatchSize:           getEnvAsInt("ANALYSIS_BATCH_SIZE", 50),
			BatchConcurrency:    getEnvAsInt("ANALYSIS_BATCH_CONCURRENCY", 3),
			MaxFileSizeBytes:    getEnvAsInt("ANALYSIS_MAX_FILE_BYTES", 500*1024),
			MaxMatchesPerRule:   getEnvAsInt("ANALYSIS_MAX_MATCHES", 1000),
			FuzzyMinLength:      getEnvAsInt("ANALYSIS_FUZZY_MIN_LENGTH", 50),
			FuzzyMaxLength:      getEnvAsInt("ANALYSIS_FUZZY_MAX_LENGTH", 1000),
			MaxFuzzyComparisons: getEnvAsInt("ANALYSIS_MAX_FUZZY_COMPARISONS", 20),
		},
		Cache: CacheConfig{
			ResultTTL:      getEnvAsDuration("RESULT_CACHE_TTL", 30*time.Minute),
			PatternTTL:     getEnvAsDuration("PATTERN_CACHE_TTL", 2*time.Hour),
			ResultMaxSize:  getEnvAsInt("RESULT_CACHE_MAX_SIZE", 200),
			PatternMaxSize: getEnvAsInt("PATTERN_CACHE_MAX_SIZE", 5000),
			SweepSchedule:  getEnv("CACHE_SWEEP_SCHEDULE", "0 */10 * * * *"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Analysis.SimilarityThreshold <= 0 || c.Analysis.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be in (0, 1]")
	}

	if c.Analysis.BatchSize <= 0 {
		return fmt.Errorf("ANALYSIS_BATCH_SIZE must be positive")
	}

	if c.Analysis.BatchConcurrency <= 0 {
		return fmt.Errorf("ANALYSIS_BATCH_CONCURRENCY must be positive")
	}

	if c.Analysis.FuzzyMinLength > c.Analysis.FuzzyMaxLength {
		return fmt.Errorf("ANALYSIS_FUZZY_MIN_LENGTH exceeds ANALYSIS_FUZZY_MAX_LENGTH")
	}

	return nil
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
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
