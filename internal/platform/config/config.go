package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	// Storage
	StoreDriver   string
	DatabaseURL   string
	SQLitePath    string
	EnableDBCheck bool
	RunMigrations bool

	// Profile cache; disabled when RedisAddr is empty
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProfileCacheTTL time.Duration

	// Ledger events; logged only when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string

	CategorizerModelPath string

	AuthRequired bool
	JWTSecret    string

	RateLimit          string
	CORSAllowedOrigins []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORE_DRIVER", StoreMemory)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_PATH", "data/expenses.db")
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("PROFILE_CACHE_TTL", "1h")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "ledger.events")
	viper.SetDefault("CATEGORIZER_MODEL_PATH", "")
	viper.SetDefault("AUTH_REQUIRED", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("RATE_LIMIT", "120-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("READ_TIMEOUT", "10s")
	viper.SetDefault("WRITE_TIMEOUT", "10s")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "15s")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{
		Port:                 viper.GetString("PORT"),
		IsProduction:         viper.GetBool("IS_PRODUCTION"),
		StoreDriver:          strings.ToLower(strings.TrimSpace(viper.GetString("STORE_DRIVER"))),
		DatabaseURL:          viper.GetString("PGSQL_URL"),
		SQLitePath:           viper.GetString("SQLITE_PATH"),
		EnableDBCheck:        viper.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:        viper.GetBool("RUN_MIGRATIONS"),
		RedisAddr:            viper.GetString("REDIS_ADDR"),
		RedisPassword:        viper.GetString("REDIS_PASSWORD"),
		RedisDB:              viper.GetInt("REDIS_DB"),
		AMQPURL:              viper.GetString("AMQP_URL"),
		AMQPExchange:         viper.GetString("AMQP_EXCHANGE"),
		CategorizerModelPath: viper.GetString("CATEGORIZER_MODEL_PATH"),
		AuthRequired:         viper.GetBool("AUTH_REQUIRED"),
		JWTSecret:            viper.GetString("JWT_SECRET"),
		RateLimit:            viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:   splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(viper.GetString("LOG_LEVEL"))); err != nil {
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", viper.GetString("LOG_LEVEL"))
		cfg.LogLevel = slog.LevelInfo
	}

	switch cfg.StoreDriver {
	case StoreMemory:
		log.Println("Warning: STORE_DRIVER is memory. Data is lost on restart.")
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when STORE_DRIVER is %s", StorePostgres)
		}
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH must be set when STORE_DRIVER is %s", StoreSQLite)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want %s, %s or %s)", cfg.StoreDriver, StoreMemory, StorePostgres, StoreSQLite)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.AuthRequired && cfg.JWTSecret == defaultJWTSecret {
		log.Println("Warning: AUTH_REQUIRED is set but JWT_SECRET is the default insecure key.")
	}

	cfg.ProfileCacheTTL = durationOrDefault("PROFILE_CACHE_TTL", time.Hour)
	cfg.ReadTimeout = durationOrDefault("READ_TIMEOUT", 10*time.Second)
	cfg.WriteTimeout = durationOrDefault("WRITE_TIMEOUT", 10*time.Second)
	cfg.ShutdownTimeout = durationOrDefault("SHUTDOWN_TIMEOUT", 15*time.Second)

	return cfg, nil
}

// durationOrDefault parses key (e.g. "60m", "1h"), logging and falling back on bad input.
func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
