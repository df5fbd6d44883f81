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
	CartLock     CartLockConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RESTAURANT_APP_ENV" required:"true"`
	Port         string `envconfig:"RESTAURANT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RESTAURANT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RESTAURANT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RESTAURANT_DB_DSN"`
	Driver string `envconfig:"RESTAURANT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RESTAURANT_DB_HOST"`
	LegacyPort     int    `envconfig:"RESTAURANT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RESTAURANT_DB_USER"`
	LegacyPassword string `envconfig:"RESTAURANT_DB_PASSWORD"`
	LegacyName     string `envconfig:"RESTAURANT_DB_NAME"`
	LegacySSLMode  string `envconfig:"RESTAURANT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RESTAURANT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RESTAURANT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RESTAURANT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RESTAURANT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RESTAURANT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RESTAURANT_REDIS_ADDR"`
	Password     string        `envconfig:"RESTAURANT_REDIS_PASSWORD"`
	DB           int           `envconfig:"RESTAURANT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RESTAURANT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RESTAURANT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RESTAURANT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RESTAURANT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RESTAURANT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartLockConfig bounds the per-cart reconciliation lock: how long an acquirer
// waits, how long a held lock survives a crashed holder, and how often waiters poll.
type CartLockConfig struct {
	AcquireTimeout time.Duration `envconfig:"RESTAURANT_CART_LOCK_ACQUIRE_TIMEOUT" default:"2s"`
	TTL            time.Duration `envconfig:"RESTAURANT_CART_LOCK_TTL" default:"10s"`
	RetryInterval  time.Duration `envconfig:"RESTAURANT_CART_LOCK_RETRY_INTERVAL" default:"50ms"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"RESTAURANT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"RESTAURANT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"RESTAURANT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	CartTopic string `envconfig:"RESTAURANT_PUBSUB_CART_TOPIC" default:"restaurant-cart-events"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RESTAURANT_AUTO_MIGRATE" default:"false"`
	EmitEvents  bool `envconfig:"RESTAURANT_EMIT_EVENTS" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
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
