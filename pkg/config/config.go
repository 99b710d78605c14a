package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Payments PaymentsConfig
	Checkout CheckoutConfig
	CORS     CORSConfig
	Flags    FeatureFlagsConfig
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
	Env          string `envconfig:"ORDERMESA_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERMESA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ORDERMESA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERMESA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ORDERMESA_DB_DSN"`
	Driver string `envconfig:"ORDERMESA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ORDERMESA_DB_HOST"`
	LegacyPort     int    `envconfig:"ORDERMESA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ORDERMESA_DB_USER"`
	LegacyPassword string `envconfig:"ORDERMESA_DB_PASSWORD"`
	LegacyName     string `envconfig:"ORDERMESA_DB_NAME"`
	LegacySSLMode  string `envconfig:"ORDERMESA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ORDERMESA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORDERMESA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERMESA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERMESA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERMESA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ORDERMESA_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERMESA_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERMESA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERMESA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERMESA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERMESA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERMESA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERMESA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ORDERMESA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ORDERMESA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ORDERMESA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ORDERMESA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ORDERMESA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ORDERMESA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ORDERMESA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ORDERMESA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ORDERMESA_ARGON_KEY_LEN" default:"32"`
}

// PaymentsConfig tunes the simulated payment gateway. SuccessRate is the
// probability in [0,1] that an authorization succeeds; Delay models
// processor latency before a verdict is returned.
type PaymentsConfig struct {
	SuccessRate float64       `envconfig:"ORDERMESA_PAYMENTS_SUCCESS_RATE" default:"0.95"`
	Delay       time.Duration `envconfig:"ORDERMESA_PAYMENTS_DELAY" default:"1s"`
}

type CheckoutConfig struct {
	SubmitTimeout  time.Duration `envconfig:"ORDERMESA_CHECKOUT_SUBMIT_TIMEOUT" default:"10s"`
	IdempotencyTTL time.Duration `envconfig:"ORDERMESA_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ORDERMESA_CORS_ALLOWED_ORIGINS" default:"http://localhost:8081,http://localhost:19006"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ORDERMESA_AUTO_MIGRATE" default:"false"`
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
