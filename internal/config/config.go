package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Predict struct {
		BaseURL     string
		Timeout     time.Duration
		Parallelism int
	}
	Analytics struct {
		BaseURL        string
		TripLogTimeout time.Duration
	}
	Ledger struct {
		Backend           string
		Path              string
		RedisAddr         string
		KeyPrefix         string
		RetentionDays     int
		FuelLitersPerHour float64
		Location          *time.Location
	}
	Server struct {
		Port        string
		DatabaseURL string
		DBPath      string
		TopRoutes   int
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v := Get(key, ""); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("config: ignoring invalid int key=%s value=%q", key, v)
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	if v := Get(key, ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("config: ignoring invalid float key=%s value=%q", key, v)
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v := Get(key, ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("config: ignoring invalid duration key=%s value=%q", key, v)
	}
	return fallback
}

// LoadDotEnv loads a .env file into the environment when one exists.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Predict.BaseURL = Get("PREDICT_BASE_URL", "http://127.0.0.1:5001")
	cfg.Predict.Timeout = GetDuration("PREDICT_TIMEOUT", 0)
	cfg.Predict.Parallelism = GetInt("PREDICT_PARALLELISM", 1)

	cfg.Analytics.BaseURL = Get("ANALYTICS_BASE_URL", "http://127.0.0.1:5001")
	cfg.Analytics.TripLogTimeout = GetDuration("TRIP_LOG_TIMEOUT", 10*time.Second)

	cfg.Ledger.Backend = strings.ToLower(Get("LEDGER_BACKEND", "sqlite"))
	cfg.Ledger.Path = Get("LEDGER_PATH", "data/ledger.db")
	cfg.Ledger.RedisAddr = Get("REDIS_ADDR", "localhost:6379")
	cfg.Ledger.KeyPrefix = Get("LEDGER_KEY_PREFIX", "movesmart_")
	cfg.Ledger.RetentionDays = GetInt("LEDGER_RETENTION_DAYS", 30)
	cfg.Ledger.FuelLitersPerHour = GetFloat("FUEL_LITERS_PER_HOUR", 2.0)

	loc, err := time.LoadLocation(Get("LEDGER_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("load config: LEDGER_TIMEZONE: %w", err)
	}
	cfg.Ledger.Location = loc

	cfg.Server.Port = Get("PORT", "8080")
	cfg.Server.DatabaseURL = Get("DATABASE_URL", "")
	cfg.Server.DBPath = Get("DB_PATH", "data/analytics.db")
	cfg.Server.TopRoutes = GetInt("TOP_ROUTES", 5)

	if cfg.Predict.Parallelism < 1 {
		return nil, fmt.Errorf("load config: PREDICT_PARALLELISM must be >= 1, got %d", cfg.Predict.Parallelism)
	}
	if cfg.Server.TopRoutes < 1 {
		return nil, fmt.Errorf("load config: TOP_ROUTES must be >= 1, got %d", cfg.Server.TopRoutes)
	}
	if cfg.Ledger.RetentionDays < 0 {
		return nil, fmt.Errorf("load config: LEDGER_RETENTION_DAYS must be >= 0, got %d", cfg.Ledger.RetentionDays)
	}
	if cfg.Ledger.FuelLitersPerHour < 0 {
		return nil, fmt.Errorf("load config: FUEL_LITERS_PER_HOUR must be >= 0, got %v", cfg.Ledger.FuelLitersPerHour)
	}
	switch cfg.Ledger.Backend {
	case "sqlite", "redis":
	default:
		return nil, fmt.Errorf("load config: LEDGER_BACKEND must be sqlite or redis, got %q", cfg.Ledger.Backend)
	}

	return cfg, nil
}
