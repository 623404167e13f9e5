package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	OTLP     OTLPConfig
	Database DatabaseConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type OTLPConfig struct {
	Endpoint    string
	ServiceName string
	Environment string
	// Enabled turns OTLP export on; when false the Prometheus reader still works.
	Enabled bool
	// LogLevel is one of debug, info, warn or error.
	LogLevel string
}

// DatabaseConfig selects the record store. Driver is one of memory, sqlite or postgres.
type DatabaseConfig struct {
	Driver                 string
	DSN                    string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables, reading a
// .env file first when one exists.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OTLP: OTLPConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "inventory-api"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
			Enabled:     getEnvBool("OTEL_ENABLED", true),
			LogLevel:    getEnv("LOG_LEVEL", "debug"),
		},
		Database: DatabaseConfig{
			Driver:                 strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
			DSN:                    getEnv("DATABASE_URL", "inventory.db"),
			MaxOpenConns:           getEnvInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:           getEnvInt("DATABASE_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeSeconds: getEnvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
