package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Realtime   RealtimeConfig
	Investment InvestmentConfig
	Jobs       JobsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	BcryptCost     int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// StorageConfig holds S3-compatible object storage configuration
type StorageConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
	UsePathStyle    bool
	KYCBucket       string
	ProjectBucket   string
	MaxUploadBytes  int64
}

// CacheConfig holds the live query response cache configuration
type CacheConfig struct {
	Backend    string // "memory" or "redis"
	TTL        time.Duration
	MaxEntries int
}

// RealtimeConfig holds change feed configuration
type RealtimeConfig struct {
	RedisChannel string
	BufferSize   int
	RetryDelay   time.Duration
}

// InvestmentConfig holds global investment bounds
type InvestmentConfig struct {
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
	Currency  string
}

// JobsConfig holds background job schedules
type JobsConfig struct {
	ReconcileSchedule string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			BcryptCost:     getEnvAsInt("BCRYPT_COST", 12),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "agro"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			Issuer:        getEnv("JWT_ISSUER", "agro-crowdfunding"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Storage: StorageConfig{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			PublicURL:       getEnv("S3_PUBLIC_URL", ""),
			UsePathStyle:    getEnvAsBool("S3_USE_PATH_STYLE", true),
			KYCBucket:       getEnv("S3_KYC_BUCKET", "kyc-documents"),
			ProjectBucket:   getEnv("S3_PROJECT_BUCKET", "project-images"),
			MaxUploadBytes:  int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
		},
		Cache: CacheConfig{
			Backend:    getEnv("CACHE_BACKEND", "memory"),
			TTL:        getEnvAsDuration("CACHE_TTL", 5*time.Minute),
			MaxEntries: getEnvAsInt("CACHE_MAX_ENTRIES", 100),
		},
		Realtime: RealtimeConfig{
			RedisChannel: getEnv("REALTIME_REDIS_CHANNEL", "agro:changes"),
			BufferSize:   getEnvAsInt("REALTIME_BUFFER_SIZE", 64),
			RetryDelay:   getEnvAsDuration("REALTIME_RETRY_DELAY", time.Second),
		},
		Investment: InvestmentConfig{
			MinAmount: getEnvAsDecimal("INVESTMENT_MIN_AMOUNT", decimal.NewFromInt(100)),
			MaxAmount: getEnvAsDecimal("INVESTMENT_MAX_AMOUNT", decimal.NewFromInt(10_000_000)),
			Currency:  getEnv("INVESTMENT_CURRENCY", "USD"),
		},
		Jobs: JobsConfig{
			ReconcileSchedule: getEnv("JOBS_RECONCILE_SCHEDULE", "@every 15m"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
