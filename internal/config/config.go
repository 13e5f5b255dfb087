package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName       string
	AppVersion    string
	Environment   string
	HTTPAddr      string
	SnowflakeNode int64

	AuthJWTSecret       string
	AuthTokenTTL        time.Duration
	AuthLegacyPlaintext bool

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	DBIsolation       string
	DBMetricsEnabled  bool

	Store     StoreConfig
	RateLimit RateLimitConfig
	Bootstrap BootstrapConfig
}

// StoreConfig tunes the unit-of-work runner.
type StoreConfig struct {
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	LockTimeout     time.Duration
}

type RateLimitConfig struct {
	Enabled            bool
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	LoginRatePerMinute float64
	LoginBurst         int
}

type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
	AdminFullName string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:             getenv("APP_SERVICE", "utilitydesk"),
		AppVersion:          getenv("APP_VERSION", "0.1.0"),
		Environment:         getenv("ENVIRONMENT", "development"),
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		SnowflakeNode:       getenvInt64("SNOWFLAKE_NODE", 1),
		AuthJWTSecret:       strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		AuthTokenTTL:        time.Duration(getenvInt("AUTH_TOKEN_TTL_MINUTES", 480)) * time.Minute,
		AuthLegacyPlaintext: getenvBool("AUTH_LEGACY_PLAINTEXT", false),
		OTLPEndpoint:        getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:              strings.ToLower(getenv("DATABASE_TYPE", "postgres")),
		DBHost:              getenv("DATABASE_HOST", "localhost"),
		DBPort:              getenv("DATABASE_PORT", "5432"),
		DBName:              getenv("DATABASE_NAME", "utilitydesk"),
		DBUser:              getenv("DATABASE_USER", "postgres"),
		DBPassword:          getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:           getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:       getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:       getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime:   getenvInt("DATABASE_CONN_MAX_LIFETIME", 1800),
		DBConnMaxIdleTime:   getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 300),
		DBIsolation:         strings.ToLower(getenv("DATABASE_ISOLATION", "read_committed")),
		DBMetricsEnabled:    getenvBool("DATABASE_METRICS_ENABLED", true),
		Store: StoreConfig{
			BreakerFailures: uint32(getenvInt("STORE_BREAKER_FAILURES", 5)),
			BreakerTimeout:  time.Duration(getenvInt("STORE_BREAKER_TIMEOUT_SECONDS", 10)) * time.Second,
			LockTimeout:     time.Duration(getenvInt("STORE_LOCK_TIMEOUT_MS", 5000)) * time.Millisecond,
		},
		RateLimit: RateLimitConfig{
			Enabled:            getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:          strings.TrimSpace(getenv("REDIS_ADDR", "")),
			RedisPassword:      getenv("REDIS_PASSWORD", ""),
			RedisDB:            getenvInt("REDIS_DB", 0),
			LoginRatePerMinute: getenvFloat("LOGIN_RATE_PER_MINUTE", 10),
			LoginBurst:         getenvInt("LOGIN_BURST", 5),
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: strings.TrimSpace(getenv("BOOTSTRAP_ADMIN_USERNAME", "")),
			AdminPassword: getenv("BOOTSTRAP_ADMIN_PASSWORD", ""),
			AdminFullName: getenv("BOOTSTRAP_ADMIN_FULL_NAME", "Administrator"),
		},
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
