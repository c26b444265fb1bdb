package config

const EnvPrefix = "ECOLETA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	DefaultSQLiteDSN = "ecoleta.db"
)

const (
	EnvAppEnv   = "ECOLETA_APP_ENV"
	EnvPort     = "ECOLETA_APP_PORT"
	EnvLogLevel = "ECOLETA_LOG_LEVEL"

	EnvDBDSN    = "ECOLETA_DB_DSN"
	EnvDBDriver = "ECOLETA_DB_DRIVER"
	EnvDBHost   = "ECOLETA_DB_HOST"
	EnvDBUser   = "ECOLETA_DB_USER"
	EnvDBName   = "ECOLETA_DB_NAME"

	EnvRedisURL = "ECOLETA_REDIS_URL"

	EnvUseSQLite      = "ECOLETA_USE_SQLITE"
	EnvStrictDocument = "ECOLETA_STRICT_DOCUMENT_VALIDATION"

	EnvViaCEPBaseURL   = "ECOLETA_VIACEP_BASE_URL"
	EnvViaCEPBaseDelay = "ECOLETA_VIACEP_BASE_DELAY"

	EnvUploadsDir = "ECOLETA_UPLOADS_DIR"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
