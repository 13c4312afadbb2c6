package config

// EnvPrefix is handed to envconfig; every field carries an explicit key so it is informational.
const EnvPrefix = "PRODUCTMGMT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "PRODUCTMGMT_APP_ENV"
	EnvPort     = "PRODUCTMGMT_APP_PORT"
	EnvLogLevel = "PRODUCTMGMT_LOG_LEVEL"

	EnvDBDSN    = "PRODUCTMGMT_DB_DSN"
	EnvDBDriver = "PRODUCTMGMT_DB_DRIVER"
	EnvDBHost   = "PRODUCTMGMT_DB_HOST"
	EnvDBUser   = "PRODUCTMGMT_DB_USER"
	EnvDBName   = "PRODUCTMGMT_DB_NAME"

	EnvRedisURL = "PRODUCTMGMT_REDIS_URL"

	EnvPriceModeNet   = "PRODUCTMGMT_PRICE_MODE_NET"
	EnvPriceModeGross = "PRODUCTMGMT_PRICE_MODE_GROSS"
	EnvPriceModeBoth  = "PRODUCTMGMT_PRICE_MODE_BOTH"

	EnvCurrencyCacheTTL = "PRODUCTMGMT_DIRECTORY_CURRENCY_CACHE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
