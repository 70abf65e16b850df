package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	HTTP          HTTPConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	OTP           OTPConfig
	Mail          MailConfig
	Admin         AdminConfig
	Stock         StockConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.OTP.MailRegexp(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvOTPMailPattern, err)
	}
	if err := cfg.Mail.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LABSTOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"LABSTOCK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LABSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LABSTOCK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LABSTOCK_SERVICE_KIND" default:"api"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"LABSTOCK_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"LABSTOCK_HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"LABSTOCK_HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"LABSTOCK_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	AllowedOrigins  []string      `envconfig:"LABSTOCK_HTTP_ALLOWED_ORIGINS" default:"*"`
}

type DBConfig struct {
	DSN    string `envconfig:"LABSTOCK_DB_DSN"`
	Driver string `envconfig:"LABSTOCK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LABSTOCK_DB_HOST"`
	LegacyPort     int    `envconfig:"LABSTOCK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LABSTOCK_DB_USER"`
	LegacyPassword string `envconfig:"LABSTOCK_DB_PASSWORD"`
	LegacyName     string `envconfig:"LABSTOCK_DB_NAME"`
	LegacySSLMode  string `envconfig:"LABSTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LABSTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LABSTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LABSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LABSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LABSTOCK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LABSTOCK_REDIS_ADDR"`
	Password     string        `envconfig:"LABSTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"LABSTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LABSTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LABSTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LABSTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LABSTOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LABSTOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LABSTOCK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LABSTOCK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LABSTOCK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"LABSTOCK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LABSTOCK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LABSTOCK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LABSTOCK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LABSTOCK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LABSTOCK_ARGON_KEY_LEN" default:"32"`
	MinLength        int `envconfig:"LABSTOCK_PASSWORD_MIN_LENGTH" default:"6"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	OTPWindow        time.Duration `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_OTP_WINDOW" default:"10m"`
	OTPEmailLimit    int           `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_OTP_EMAIL_LIMIT" default:"3"`
	OTPIPLimit       int           `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
	ResetWindow      time.Duration `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_RESET_WINDOW" default:"15m"`
	ResetEmailLimit  int           `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_RESET_EMAIL_LIMIT" default:"3"`
	ResetIPLimit     int           `envconfig:"LABSTOCK_AUTH_RATE_LIMIT_RESET_IP_LIMIT" default:"20"`
}

type OTPConfig struct {
	TTL         time.Duration `envconfig:"LABSTOCK_OTP_TTL" default:"5m"`
	VerifiedTTL time.Duration `envconfig:"LABSTOCK_OTP_VERIFIED_TTL" default:"15m"`
	Digits      int           `envconfig:"LABSTOCK_OTP_DIGITS" default:"6"`
	MailPattern string        `envconfig:"LABSTOCK_OTP_MAIL_PATTERN" default:"^[a-zA-Z0-9._-]+@rathinam\\.in$"`
}

// MailRegexp compiles the institution mail pattern signup codes are restricted to.
func (o OTPConfig) MailRegexp() (*regexp.Regexp, error) {
	return regexp.Compile(o.MailPattern)
}

type MailConfig struct {
	Driver   string `envconfig:"LABSTOCK_MAIL_DRIVER" default:"log"`
	Host     string `envconfig:"LABSTOCK_SMTP_HOST"`
	Port     int    `envconfig:"LABSTOCK_SMTP_PORT" default:"587"`
	Username string `envconfig:"LABSTOCK_SMTP_USERNAME"`
	Password string `envconfig:"LABSTOCK_SMTP_PASSWORD"`
	From     string `envconfig:"LABSTOCK_MAIL_FROM" default:"no-reply@labstock.local"`
}

func (m MailConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(m.Driver)) {
	case MailDriverLog:
		return nil
	case MailDriverSMTP:
		if m.Host == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvSMTPHost, EnvMailDriver, MailDriverSMTP)
		}
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvMailDriver, m.Driver)
	}
}

type AdminConfig struct {
	SeedUsername string `envconfig:"LABSTOCK_ADMIN_SEED_USERNAME" default:"admin"`
	SeedPassword string `envconfig:"LABSTOCK_ADMIN_SEED_PASSWORD"`
	SeedMail     string `envconfig:"LABSTOCK_ADMIN_SEED_MAIL" default:"admin@labstock.local"`
}

// SeedEnabled reports whether a default admin should be ensured at startup.
func (a AdminConfig) SeedEnabled() bool {
	return strings.TrimSpace(a.SeedUsername) != "" && a.SeedPassword != ""
}

type StockConfig struct {
	TransactionsListLimit int           `envconfig:"LABSTOCK_TRANSACTIONS_LIST_LIMIT" default:"1000"`
	SearchLimit           int           `envconfig:"LABSTOCK_MATERIAL_SEARCH_LIMIT" default:"10"`
	BackupWindow          time.Duration `envconfig:"LABSTOCK_EXPORT_BACKUP_WINDOW" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LABSTOCK_AUTO_MIGRATE" default:"false"`
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
