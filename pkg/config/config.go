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
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	Mail         MailConfig
	Storage      StorageConfig
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
	Env          string   `envconfig:"CONTACTBOOK_APP_ENV" required:"true"`
	Port         string   `envconfig:"CONTACTBOOK_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"CONTACTBOOK_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"CONTACTBOOK_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"CONTACTBOOK_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"CONTACTBOOK_DB_DSN"`

	LegacyHost     string `envconfig:"CONTACTBOOK_DB_HOST"`
	LegacyPort     int    `envconfig:"CONTACTBOOK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CONTACTBOOK_DB_USER"`
	LegacyPassword string `envconfig:"CONTACTBOOK_DB_PASSWORD"`
	LegacyName     string `envconfig:"CONTACTBOOK_DB_NAME"`
	LegacySSLMode  string `envconfig:"CONTACTBOOK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CONTACTBOOK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CONTACTBOOK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CONTACTBOOK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CONTACTBOOK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CONTACTBOOK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CONTACTBOOK_REDIS_ADDR"`
	Password     string        `envconfig:"CONTACTBOOK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CONTACTBOOK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CONTACTBOOK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CONTACTBOOK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CONTACTBOOK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CONTACTBOOK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CONTACTBOOK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret             string `envconfig:"CONTACTBOOK_JWT_SECRET" required:"true"`
	Issuer             string `envconfig:"CONTACTBOOK_JWT_ISSUER" required:"true"`
	AccessTTLMinutes   int    `envconfig:"CONTACTBOOK_JWT_ACCESS_TTL_MINUTES" default:"15"`
	RefreshTTLHours    int    `envconfig:"CONTACTBOOK_JWT_REFRESH_TTL_HOURS" default:"168"`
	EmailTokenTTLHours int    `envconfig:"CONTACTBOOK_JWT_EMAIL_TOKEN_TTL_HOURS" default:"168"`
}

// AccessTTL returns the access token lifetime.
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (j JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshTTLHours) * time.Hour
}

// EmailTokenTTL returns the email-confirmation token lifetime.
func (j JWTConfig) EmailTokenTTL() time.Duration {
	return time.Duration(j.EmailTokenTTLHours) * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CONTACTBOOK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CONTACTBOOK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CONTACTBOOK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CONTACTBOOK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CONTACTBOOK_ARGON_KEY_LEN" default:"32"`
}

// RateLimitConfig throttles the protected CRUD routes per caller.
// Documented policy: no more than 2 requests per 5 seconds.
type RateLimitConfig struct {
	Window   time.Duration `envconfig:"CONTACTBOOK_RATE_LIMIT_WINDOW" default:"5s"`
	Requests int           `envconfig:"CONTACTBOOK_RATE_LIMIT_REQUESTS" default:"2"`
}

type MailConfig struct {
	SendgridAPIKey string `envconfig:"CONTACTBOOK_SENDGRID_API_KEY"`
	From           string `envconfig:"CONTACTBOOK_MAIL_FROM"`
	FromName       string `envconfig:"CONTACTBOOK_MAIL_FROM_NAME" default:"Contactbook"`
}

type StorageConfig struct {
	Bucket          string `envconfig:"CONTACTBOOK_S3_BUCKET" required:"true"`
	Region          string `envconfig:"CONTACTBOOK_S3_REGION" default:"us-east-1"`
	AccessKeyID     string `envconfig:"CONTACTBOOK_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"CONTACTBOOK_S3_SECRET_ACCESS_KEY"`
	PublicBaseURL   string `envconfig:"CONTACTBOOK_S3_PUBLIC_BASE_URL"`
}

// PublicURLBase returns the base URL objects are served from. When no
// explicit base is configured the standard virtual-hosted S3 form is used.
func (s StorageConfig) PublicURLBase() string {
	if s.PublicBaseURL != "" {
		return strings.TrimRight(s.PublicBaseURL, "/")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.Bucket, s.Region)
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CONTACTBOOK_AUTO_MIGRATE" default:"false"`
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
		Path:   "/" + db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
