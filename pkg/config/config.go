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
	OrderAPI OrderAPIConfig
	Recovery RecoveryConfig
	Checkout CheckoutConfig
	Cart     CartConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MULTIFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"MULTIFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MULTIFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MULTIFRONT_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"MULTIFRONT_AUTO_MIGRATE" default:"false"`

	CORSOrigins []string `envconfig:"MULTIFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"MULTIFRONT_DB_DSN"`

	Host     string `envconfig:"MULTIFRONT_DB_HOST"`
	Port     int    `envconfig:"MULTIFRONT_DB_PORT" default:"5432"`
	User     string `envconfig:"MULTIFRONT_DB_USER"`
	Password string `envconfig:"MULTIFRONT_DB_PASSWORD"`
	Name     string `envconfig:"MULTIFRONT_DB_NAME"`
	SSLMode  string `envconfig:"MULTIFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MULTIFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MULTIFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"MULTIFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MULTIFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"MULTIFRONT_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MULTIFRONT_REDIS_URL"`
	Address      string        `envconfig:"MULTIFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"MULTIFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"MULTIFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MULTIFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MULTIFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MULTIFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MULTIFRONT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"MULTIFRONT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// JWTConfig verifies tokens minted by the account service; this service never mints them.
type JWTConfig struct {
	Secret string `envconfig:"MULTIFRONT_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"MULTIFRONT_JWT_ISSUER" required:"true"`
}

type OrderAPIConfig struct {
	BaseURL        string        `envconfig:"MULTIFRONT_ORDER_API_BASE_URL" required:"true"`
	Token          string        `envconfig:"MULTIFRONT_ORDER_API_TOKEN"`
	Timeout        time.Duration `envconfig:"MULTIFRONT_ORDER_API_TIMEOUT" default:"15s"`
	BreakerTimeout time.Duration `envconfig:"MULTIFRONT_ORDER_API_BREAKER_TIMEOUT" default:"30s"`
	BreakerTrips   uint32        `envconfig:"MULTIFRONT_ORDER_API_BREAKER_TRIPS" default:"5"`
}

type RecoveryConfig struct {
	BaseURL string        `envconfig:"MULTIFRONT_RECOVERY_API_BASE_URL"`
	Timeout time.Duration `envconfig:"MULTIFRONT_RECOVERY_API_TIMEOUT" default:"5s"`
}

// Enabled reports whether abandoned-cart notifications should be sent.
func (r RecoveryConfig) Enabled() bool {
	return strings.TrimSpace(r.BaseURL) != ""
}

type CheckoutConfig struct {
	NearbyRadiusKm   float64       `envconfig:"MULTIFRONT_CHECKOUT_NEARBY_RADIUS_KM" default:"10"`
	SubmitTimeout    time.Duration `envconfig:"MULTIFRONT_CHECKOUT_SUBMIT_TIMEOUT" default:"20s"`
	IdempotencyTTL   time.Duration `envconfig:"MULTIFRONT_CHECKOUT_IDEMPOTENCY_TTL" default:"10m"`
	StoreCacheTTL    time.Duration `envconfig:"MULTIFRONT_CHECKOUT_STORE_CACHE_TTL" default:"15m"`
	EnrichStoreLimit int           `envconfig:"MULTIFRONT_CHECKOUT_ENRICH_STORE_LIMIT" default:"20"`
	SubmitLimit      int64         `envconfig:"MULTIFRONT_CHECKOUT_SUBMIT_LIMIT" default:"10"`
	SubmitWindow     time.Duration `envconfig:"MULTIFRONT_CHECKOUT_SUBMIT_WINDOW" default:"1m"`
}

func (c CheckoutConfig) validate() error {
	if c.NearbyRadiusKm <= 0 {
		return fmt.Errorf("%s must be positive", EnvNearbyRadiusKm)
	}
	return nil
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"MULTIFRONT_CART_SESSION_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"MULTIFRONT_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"MULTIFRONT_PUBSUB_ORDERS_TOPIC"`
	// Endpoint overrides the Pub/Sub API host, e.g. a local emulator.
	Endpoint string `envconfig:"MULTIFRONT_PUBSUB_ENDPOINT"`
}

// Enabled reports whether domain events should be published to Pub/Sub.
func (p PubSubConfig) Enabled(gcp GCPConfig) bool {
	return strings.TrimSpace(p.OrdersTopic) != "" && strings.TrimSpace(gcp.ProjectID) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
