package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "PHARMACOS_DB_DSN"
	EnvDBHost = "PHARMACOS_DB_HOST"
	EnvDBUser = "PHARMACOS_DB_USER"
	EnvDBName = "PHARMACOS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Checkout      CheckoutConfig
	Stock         StockConfig
	PayOS         PayOSConfig
	Vision        VisionConfig
	Cron          CronConfig
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
	Env          string `envconfig:"PHARMACOS_APP_ENV" required:"true"`
	Port         string `envconfig:"PHARMACOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PHARMACOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PHARMACOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PHARMACOS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PHARMACOS_DB_DSN"`
	Driver string `envconfig:"PHARMACOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PHARMACOS_DB_HOST"`
	LegacyPort     int    `envconfig:"PHARMACOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PHARMACOS_DB_USER"`
	LegacyPassword string `envconfig:"PHARMACOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"PHARMACOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"PHARMACOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PHARMACOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PHARMACOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PHARMACOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PHARMACOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PHARMACOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PHARMACOS_REDIS_ADDR"`
	Password     string        `envconfig:"PHARMACOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"PHARMACOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PHARMACOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PHARMACOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PHARMACOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PHARMACOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PHARMACOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PHARMACOS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PHARMACOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PHARMACOS_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PHARMACOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PHARMACOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PHARMACOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PHARMACOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PHARMACOS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"PHARMACOS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"PHARMACOS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"PHARMACOS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PHARMACOS_AUTO_MIGRATE" default:"false"`
}

type CheckoutConfig struct {
	// ShippingFeeVND is the flat per-order shipping fee in Vietnamese dong.
	ShippingFeeVND int64 `envconfig:"PHARMACOS_SHIPPING_FEE_VND" default:"30000"`
}

type StockConfig struct {
	LowStockThreshold int `envconfig:"PHARMACOS_LOW_STOCK_THRESHOLD" default:"10"`
	ExpiringSoonDays  int `envconfig:"PHARMACOS_EXPIRING_SOON_DAYS" default:"30"`
	AutoSaleDays      int `envconfig:"PHARMACOS_AUTO_SALE_DAYS" default:"30"`
}

type PayOSConfig struct {
	ClientID    string        `envconfig:"PHARMACOS_PAYOS_CLIENT_ID"`
	APIKey      string        `envconfig:"PHARMACOS_PAYOS_API_KEY"`
	ChecksumKey string        `envconfig:"PHARMACOS_PAYOS_CHECKSUM_KEY"`
	BaseURL     string        `envconfig:"PHARMACOS_PAYOS_BASE_URL" default:"https://api-merchant.payos.vn"`
	ReturnURL   string        `envconfig:"PHARMACOS_PAYOS_RETURN_URL"`
	CancelURL   string        `envconfig:"PHARMACOS_PAYOS_CANCEL_URL"`
	Timeout     time.Duration `envconfig:"PHARMACOS_PAYOS_TIMEOUT" default:"30s"`

	PendingReuseWindow time.Duration `envconfig:"PHARMACOS_PAYOS_PENDING_REUSE_WINDOW" default:"30m"`
	PaymentTTL         time.Duration `envconfig:"PHARMACOS_PAYOS_PAYMENT_TTL" default:"120s"`
}

type VisionConfig struct {
	APIKey  string        `envconfig:"PHARMACOS_VISION_API_KEY"`
	BaseURL string        `envconfig:"PHARMACOS_VISION_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	Model   string        `envconfig:"PHARMACOS_VISION_MODEL" default:"gemini-1.5-flash"`
	Timeout time.Duration `envconfig:"PHARMACOS_VISION_TIMEOUT" default:"20s"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"PHARMACOS_CRON_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"PHARMACOS_CRON_LOCK_TTL" default:"5m"`
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
