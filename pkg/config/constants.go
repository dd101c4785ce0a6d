package config

// EnvPrefix is passed to envconfig; explicit envconfig tags on every field
// keep variable names stable regardless of struct layout.
const EnvPrefix = "contactbook"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "CONTACTBOOK_APP_ENV"
	EnvPort      = "CONTACTBOOK_APP_PORT"
	EnvDBDSN     = "CONTACTBOOK_DB_DSN"
	EnvDBHost    = "CONTACTBOOK_DB_HOST"
	EnvDBUser    = "CONTACTBOOK_DB_USER"
	EnvDBName    = "CONTACTBOOK_DB_NAME"
	EnvRedisURL  = "CONTACTBOOK_REDIS_URL"
	EnvJWTSecret = "CONTACTBOOK_JWT_SECRET"
	EnvJWTIssuer = "CONTACTBOOK_JWT_ISSUER"
	EnvS3Bucket  = "CONTACTBOOK_S3_BUCKET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
