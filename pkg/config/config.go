package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every section below.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Billing      BillingConfig
	Uploads      UploadsConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"RETAIL_APP_ENV" required:"true"`
	Port         string `envconfig:"RETAIL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RETAIL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RETAIL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"RETAIL_DB_DSN"`

	Host     string `envconfig:"RETAIL_DB_HOST"`
	Port     int    `envconfig:"RETAIL_DB_PORT" default:"5432"`
	User     string `envconfig:"RETAIL_DB_USER"`
	Password string `envconfig:"RETAIL_DB_PASSWORD"`
	Name     string `envconfig:"RETAIL_DB_NAME"`
	SSLMode  string `envconfig:"RETAIL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RETAIL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RETAIL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RETAIL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RETAIL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RETAIL_REDIS_URL"`
	Address      string        `envconfig:"RETAIL_REDIS_ADDR"`
	Password     string        `envconfig:"RETAIL_REDIS_PASSWORD"`
	DB           int           `envconfig:"RETAIL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RETAIL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RETAIL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RETAIL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RETAIL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RETAIL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type AuthConfig struct {
	BcryptCost          int    `envconfig:"RETAIL_AUTH_BCRYPT_COST" default:"10"`
	DefaultTempPassword string `envconfig:"RETAIL_AUTH_DEFAULT_TEMP_PASSWORD" default:"12345678"`
}

type BillingConfig struct {
	// DefaultGSTRatePercent is applied when a bill request omits the rate.
	DefaultGSTRatePercent string `envconfig:"RETAIL_BILLING_DEFAULT_GST_RATE" default:"18"`
}

type UploadsConfig struct {
	Dir          string `envconfig:"RETAIL_UPLOADS_DIR" default:"uploads"`
	MaxSizeBytes int64  `envconfig:"RETAIL_UPLOADS_MAX_SIZE_BYTES" default:"5242880"`
}

type RateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"RETAIL_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"RETAIL_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"RETAIL_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RETAIL_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	pieces := map[string]string{
		"RETAIL_DB_HOST": db.Host,
		"RETAIL_DB_USER": db.User,
		"RETAIL_DB_NAME": db.Name,
	}
	for _, key := range []string{"RETAIL_DB_HOST", "RETAIL_DB_USER", "RETAIL_DB_NAME"} {
		if pieces[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either RETAIL_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
