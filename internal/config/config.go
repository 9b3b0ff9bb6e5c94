package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Cache backends.
const (
	CacheBackendRedis  = "redis"
	CacheBackendSQLite = "sqlite"
)

type Config struct {
	Server   ServerConfig
	TMDB     TMDBConfig
	Catalog  CatalogConfig
	Cache    CacheConfig
	Redis    RedisConfig
	SQLite   SQLiteConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	RabbitMQ RabbitMQConfig
	Worker   WorkerConfig
	Site     SiteConfig
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type ServerConfig struct {
	Port            int           `envconfig:"WEB_PORT" default:"3000"`
	ReadTimeout     time.Duration `envconfig:"WEB_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WEB_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"WEB_SHUTDOWN_TIMEOUT" default:"10s"`
}

type TMDBConfig struct {
	APIKey             string        `envconfig:"TMDB_API_KEY" required:"true"`
	BaseURL            string        `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
	Timeout            time.Duration `envconfig:"TMDB_TIMEOUT" default:"10s"`
	MinRequestInterval time.Duration `envconfig:"TMDB_MIN_REQUEST_INTERVAL" default:"25ms"`
}

type CatalogConfig struct {
	CacheTTL      time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"24h"`
	LookupTimeout time.Duration `envconfig:"CATALOG_LOOKUP_TIMEOUT" default:"15s"`
}

type CacheConfig struct {
	Backend string `envconfig:"CACHE_BACKEND" default:"redis"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type SQLiteConfig struct {
	Dir string `envconfig:"SQLITE_DIR" default:"./data"`
}

type DatabaseConfig struct {
	Host        string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port        int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User        string `envconfig:"POSTGRES_USER" default:"nextup"`
	Password    string `envconfig:"POSTGRES_PASSWORD" default:"nextup"`
	DBName      string `envconfig:"POSTGRES_DB" default:"nextup"`
	SSLMode     string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	AutoMigrate bool   `envconfig:"POSTGRES_AUTO_MIGRATE" default:"false"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// MinIOConfig configures the avatar bucket. Avatars are disabled when Endpoint is empty.
type MinIOConfig struct {
	Endpoint        string        `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	PublicEndpoint  string        `envconfig:"MINIO_PUBLIC_ENDPOINT" default:""`
	AccessKey       string        `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey       string        `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket          string        `envconfig:"MINIO_BUCKET" default:"avatars"`
	UseSSL          bool          `envconfig:"MINIO_USE_SSL" default:"false"`
	AvatarURLExpiry time.Duration `envconfig:"AVATAR_URL_EXPIRY" default:"1h"`
}

func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

type RabbitMQConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"nextup"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"nextup"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

// WorkerConfig covers both sides of cache warming.
// WarmDedupeWindow suppresses repeat warm requests for a season from one web process.
type WorkerConfig struct {
	MaxRetries       int           `envconfig:"WORKER_MAX_RETRIES" default:"3"`
	ShutdownTimeout  time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
	WarmEnabled      bool          `envconfig:"WARM_ENABLED" default:"true"`
	WarmDedupeWindow time.Duration `envconfig:"WARM_DEDUPE_WINDOW" default:"1h"`
}

type SiteConfig struct {
	BaseURL     string `envconfig:"SITE_BASE_URL" default:"https://nextup.watch"`
	AppStoreURL string `envconfig:"APP_STORE_URL" default:"https://apps.apple.com/app/next-up-tv-tracker/id6740468291"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TMDB.APIKey) == "" {
		return errors.New("TMDB_API_KEY must not be empty")
	}
	switch c.Cache.Backend {
	case CacheBackendRedis, CacheBackendSQLite:
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: must be %q or %q", c.Cache.Backend, CacheBackendRedis, CacheBackendSQLite)
	}
	if c.TMDB.MinRequestInterval < 0 {
		return fmt.Errorf("invalid TMDB_MIN_REQUEST_INTERVAL %s: must not be negative", c.TMDB.MinRequestInterval)
	}
	if c.Catalog.CacheTTL <= 0 {
		return fmt.Errorf("invalid CATALOG_CACHE_TTL %s: must be positive", c.Catalog.CacheTTL)
	}
	return nil
}
