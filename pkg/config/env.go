package config

const (
	EnvPrefix = "MULTIFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "MULTIFRONT_APP_ENV"
	EnvPort           = "MULTIFRONT_APP_PORT"
	EnvDBDSN          = "MULTIFRONT_DB_DSN"
	EnvDBHost         = "MULTIFRONT_DB_HOST"
	EnvDBUser         = "MULTIFRONT_DB_USER"
	EnvDBName         = "MULTIFRONT_DB_NAME"
	EnvRedisURL       = "MULTIFRONT_REDIS_URL"
	EnvJWTSecret      = "MULTIFRONT_JWT_SECRET"
	EnvJWTIssuer      = "MULTIFRONT_JWT_ISSUER"
	EnvOrderAPIURL    = "MULTIFRONT_ORDER_API_BASE_URL"
	EnvRecoveryAPIURL = "MULTIFRONT_RECOVERY_API_BASE_URL"
	EnvNearbyRadiusKm = "MULTIFRONT_CHECKOUT_NEARBY_RADIUS_KM"
	EnvGCPProjectID   = "MULTIFRONT_GCP_PROJECT_ID"
	EnvOrdersTopic    = "MULTIFRONT_PUBSUB_ORDERS_TOPIC"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
