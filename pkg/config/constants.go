package config

const (
	EnvPrefix = "LABSTOCK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	MailDriverLog  = "log"
	MailDriverSMTP = "smtp"
)

const (
	EnvAppEnv                 = "LABSTOCK_APP_ENV"
	EnvPort                   = "LABSTOCK_APP_PORT"
	EnvLogLevel               = "LABSTOCK_LOG_LEVEL"
	EnvDBDSN                  = "LABSTOCK_DB_DSN"
	EnvDBHost                 = "LABSTOCK_DB_HOST"
	EnvDBUser                 = "LABSTOCK_DB_USER"
	EnvDBPassword             = "LABSTOCK_DB_PASSWORD"
	EnvDBName                 = "LABSTOCK_DB_NAME"
	EnvRedisURL               = "LABSTOCK_REDIS_URL"
	EnvJWTSecret              = "LABSTOCK_JWT_SECRET"
	EnvJWTIssuer              = "LABSTOCK_JWT_ISSUER"
	EnvJWTExpMins             = "LABSTOCK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "LABSTOCK_REFRESH_TOKEN_TTL_MINUTES"
	EnvOTPTTL                 = "LABSTOCK_OTP_TTL"
	EnvOTPMailPattern         = "LABSTOCK_OTP_MAIL_PATTERN"
	EnvMailDriver             = "LABSTOCK_MAIL_DRIVER"
	EnvSMTPHost               = "LABSTOCK_SMTP_HOST"
	EnvAdminSeedPassword      = "LABSTOCK_ADMIN_SEED_PASSWORD"
	EnvTransactionsListLimit  = "LABSTOCK_TRANSACTIONS_LIST_LIMIT"
	EnvHTTPAllowedOrigins     = "LABSTOCK_HTTP_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
