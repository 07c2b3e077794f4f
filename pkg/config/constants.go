package config

// EnvPrefix is handed to envconfig; individual fields carry explicit names.
const EnvPrefix = "mesafina"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "MESAFINA_APP_ENV"
	EnvPort     = "MESAFINA_APP_PORT"
	EnvDBDSN    = "MESAFINA_DB_DSN"
	EnvDBHost   = "MESAFINA_DB_HOST"
	EnvDBUser   = "MESAFINA_DB_USER"
	EnvDBName   = "MESAFINA_DB_NAME"
	EnvRedisURL = "MESAFINA_REDIS_URL"

	EnvJWTSecret  = "MESAFINA_JWT_SECRET"
	EnvJWTIssuer  = "MESAFINA_JWT_ISSUER"
	EnvJWTExpMins = "MESAFINA_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
