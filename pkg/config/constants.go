package config

// EnvPrefix is intentionally empty; every variable carries the full
// ORDERMESA_ prefix in its envconfig tag so greps match deploy manifests.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv     = "ORDERMESA_APP_ENV"
	EnvPort       = "ORDERMESA_APP_PORT"
	EnvDBDSN      = "ORDERMESA_DB_DSN"
	EnvDBHost     = "ORDERMESA_DB_HOST"
	EnvDBUser     = "ORDERMESA_DB_USER"
	EnvDBName     = "ORDERMESA_DB_NAME"
	EnvRedisURL   = "ORDERMESA_REDIS_URL"
	EnvJWTSecret  = "ORDERMESA_JWT_SECRET"
	EnvJWTIssuer  = "ORDERMESA_JWT_ISSUER"
	EnvJWTExpMins = "ORDERMESA_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
