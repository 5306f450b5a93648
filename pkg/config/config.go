package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig
	KV    KVConfig
	Redis RedisConfig
	JWT   JWTConfig
	Seed  SeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.KV.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// KVBackend selects the durable document store implementation.
const (
	KVBackendMemory   = "memory"
	KVBackendSQLite   = "sqlite"
	KVBackendPostgres = "postgres"
	KVBackendRedis    = "redis"
)

type KVConfig struct {
	Backend     string `envconfig:"STOREFRONT_KV_BACKEND" default:"sqlite"`
	SQLitePath  string `envconfig:"STOREFRONT_KV_SQLITE_PATH" default:"storefront.db"`
	PostgresDSN string `envconfig:"STOREFRONT_KV_POSTGRES_DSN"`
}

func (kv KVConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(kv.Backend)) {
	case KVBackendMemory, KVBackendSQLite, KVBackendRedis:
		return nil
	case KVBackendPostgres:
		if kv.PostgresDSN == "" {
			return fmt.Errorf("%s is required when the kv backend is postgres", EnvKVDSN)
		}
		return nil
	default:
		return fmt.Errorf("unknown kv backend %q", kv.Backend)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOREFRONT_JWT_ISSUER" default:"storefront"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Expiration returns the access token TTL.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type SeedConfig struct {
	DemoCatalog  bool `envconfig:"STOREFRONT_SEED_DEMO_CATALOG" default:"true"`
	DemoAccounts bool `envconfig:"STOREFRONT_SEED_DEMO_ACCOUNTS" default:"true"`
}
