package config

// EnvPrefix is the envconfig prefix shared by every variable below.
const EnvPrefix = "storefront"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names, spelled out so tests can set and unset them.
const (
	EnvAppEnv     = "STOREFRONT_APP_ENV"
	EnvPort       = "STOREFRONT_APP_PORT"
	EnvLogLevel   = "STOREFRONT_LOG_LEVEL"
	EnvKVBackend  = "STOREFRONT_KV_BACKEND"
	EnvKVPath     = "STOREFRONT_KV_SQLITE_PATH"
	EnvKVDSN      = "STOREFRONT_KV_POSTGRES_DSN"
	EnvRedisURL   = "STOREFRONT_REDIS_URL"
	EnvJWTSecret  = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer  = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins = "STOREFRONT_JWT_EXPIRATION_MINUTES"
)
