package config

const (
	// EnvPrefix is empty because every variable already carries the RESTAURANT_ prefix
	// in its envconfig tag.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv = "RESTAURANT_APP_ENV"
	EnvPort   = "RESTAURANT_APP_PORT"
	EnvDBDSN  = "RESTAURANT_DB_DSN"
	EnvDBHost = "RESTAURANT_DB_HOST"
	EnvDBUser = "RESTAURANT_DB_USER"
	EnvDBName = "RESTAURANT_DB_NAME"

	EnvRedisURL = "RESTAURANT_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
