package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv  = "KIOSKO_APP_ENV"
	EnvAppPort = "KIOSKO_APP_PORT"
	EnvDBDSN   = "KIOSKO_DB_DSN"
	EnvDBHost  = "KIOSKO_DB_HOST"
	EnvDBUser  = "KIOSKO_DB_USER"
	EnvDBName  = "KIOSKO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
