package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	Directory    DirectoryConfig
	FeatureFlags FeatureFlagsConfig
	Metrics      MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRODUCTMGMT_APP_ENV" required:"true"`
	Port         string `envconfig:"PRODUCTMGMT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRODUCTMGMT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRODUCTMGMT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRODUCTMGMT_DB_DSN"`
	Driver string `envconfig:"PRODUCTMGMT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRODUCTMGMT_DB_HOST"`
	LegacyPort     int    `envconfig:"PRODUCTMGMT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRODUCTMGMT_DB_USER"`
	LegacyPassword string `envconfig:"PRODUCTMGMT_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRODUCTMGMT_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRODUCTMGMT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRODUCTMGMT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRODUCTMGMT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRODUCTMGMT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRODUCTMGMT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the embedded sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"PRODUCTMGMT_REDIS_URL"`
	Address      string        `envconfig:"PRODUCTMGMT_REDIS_ADDR"`
	Password     string        `envconfig:"PRODUCTMGMT_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRODUCTMGMT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRODUCTMGMT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRODUCTMGMT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRODUCTMGMT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRODUCTMGMT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRODUCTMGMT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// PricingConfig carries the mode tokens used by the price-mode configuration source
// and the volume price GUI endpoints.
type PricingConfig struct {
	NetModeToken    string `envconfig:"PRODUCTMGMT_PRICE_MODE_NET" default:"NET_MODE"`
	GrossModeToken  string `envconfig:"PRODUCTMGMT_PRICE_MODE_GROSS" default:"GROSS_MODE"`
	BothModeToken   string `envconfig:"PRODUCTMGMT_PRICE_MODE_BOTH" default:"BOTH"`
	VolumeEditURL   string `envconfig:"PRODUCTMGMT_VOLUME_PRICE_EDIT_URL" default:"/price-product-volume-gui/price-volume/edit"`
	VolumeAddURL    string `envconfig:"PRODUCTMGMT_VOLUME_PRICE_ADD_URL" default:"/price-product-volume-gui/price-volume/add"`
	PriceDimensions bool   `envconfig:"PRODUCTMGMT_PRICE_DIMENSIONS_ENABLED" default:"false"`
}

func (p PricingConfig) validate() error {
	tokens := map[string]string{
		EnvPriceModeNet:   strings.TrimSpace(p.NetModeToken),
		EnvPriceModeGross: strings.TrimSpace(p.GrossModeToken),
		EnvPriceModeBoth:  strings.TrimSpace(p.BothModeToken),
	}
	seen := map[string]string{}
	for _, name := range []string{EnvPriceModeNet, EnvPriceModeGross, EnvPriceModeBoth} {
		token := tokens[name]
		if token == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
		if other, ok := seen[token]; ok {
			return fmt.Errorf("%s and %s share the token %q", other, name, token)
		}
		seen[token] = name
	}
	return nil
}

type DirectoryConfig struct {
	CurrencyCacheTTL time.Duration `envconfig:"PRODUCTMGMT_DIRECTORY_CURRENCY_CACHE_TTL" default:"10m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PRODUCTMGMT_AUTO_MIGRATE" default:"false"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"PRODUCTMGMT_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"PRODUCTMGMT_METRICS_PATH" default:"/metrics"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
