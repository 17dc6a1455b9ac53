// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// SimulationDefaults holds the Monte Carlo defaults applied when a request
// does not override them.
type SimulationDefaults struct {
	NumSimulations int     // Number of Monte Carlo paths
	TimeHorizon    int     // Horizon in years
	Confidence     float64 // Confidence level for VaR (e.g. 0.95)
	Correlation    float64 // Basel asset correlation
	CapitalRatio   float64 // Minimum capital ratio
	Seed           int64   // RNG seed (0 = unseeded)
}

// ArchiveConfig holds the optional S3 report-archive settings.
type ArchiveConfig struct {
	Enabled   bool
	Bucket    string
	Region    string
	Prefix    string
	AccessKey string // Optional static credentials; default chain when empty
	SecretKey string
}

// Config holds application configuration
type Config struct {
	DataDir       string // Base directory for all databases (always absolute)
	LogLevel      string
	Port          int
	DevMode       bool
	ReportCron    string // Cron schedule for the portfolio report refresh job
	Simulation    SimulationDefaults
	ReportArchive ArchiveConfig
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("CLIMRISK_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir to absolute path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	port, err := strconv.Atoi(getEnv("CLIMRISK_PORT", "8090"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLIMRISK_PORT: %w", err)
	}

	cfg := &Config{
		DataDir:    absDataDir,
		LogLevel:   getEnv("CLIMRISK_LOG_LEVEL", "info"),
		Port:       port,
		DevMode:    getEnvBool("CLIMRISK_DEV_MODE", false),
		ReportCron: getEnv("CLIMRISK_REPORT_CRON", "0 0 2 * * *"), // 02:00 daily
		Simulation: SimulationDefaults{
			NumSimulations: getEnvInt("CLIMRISK_NUM_SIMULATIONS", 10000),
			TimeHorizon:    getEnvInt("CLIMRISK_TIME_HORIZON_YEARS", 10),
			Confidence:     getEnvFloat("CLIMRISK_CONFIDENCE_LEVEL", 0.95),
			Correlation:    getEnvFloat("CLIMRISK_CORRELATION", 0.3),
			CapitalRatio:   getEnvFloat("CLIMRISK_CAPITAL_RATIO", 0.08),
			Seed:           int64(getEnvInt("CLIMRISK_RANDOM_SEED", 42)),
		},
		ReportArchive: ArchiveConfig{
			Enabled:   getEnvBool("CLIMRISK_ARCHIVE_ENABLED", false),
			Bucket:    getEnv("CLIMRISK_ARCHIVE_BUCKET", ""),
			Region:    getEnv("CLIMRISK_ARCHIVE_REGION", "eu-central-1"),
			Prefix:    getEnv("CLIMRISK_ARCHIVE_PREFIX", "risk-reports"),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
	}

	if cfg.ReportArchive.Enabled && cfg.ReportArchive.Bucket == "" {
		return nil, fmt.Errorf("CLIMRISK_ARCHIVE_ENABLED is set but CLIMRISK_ARCHIVE_BUCKET is empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
