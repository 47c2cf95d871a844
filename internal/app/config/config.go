package config

import (
	"deathcert-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Enabled:  utils.GetEnvBool("RABBITMQ_ENABLED", false),
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	fhirBaseUrl := utils.GetEnvString("FHIR_BASE_URL", "http://localhost:8080/fhir")

	return &InternalConfig{
		App: App{
			Env:                       utils.GetEnvString("APP_ENV", "development"),
			Port:                      utils.GetEnvString("APP_PORT", "8080"),
			Version:                   utils.GetEnvString("APP_VERSION", "v1"),
			Address:                   utils.GetEnvString("APP_ADDRESS", "localhost"),
			EndpointPrefix:            utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			FrontendUrl:               utils.GetEnvString("APP_FRONTEND_URL", "http://localhost:3000"),
			CorsAllowedOrigins:        utils.GetEnvCSV("APP_CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			MaxRequests:               utils.GetEnvInt("APP_MAX_REQUEST", 60),
			MaxTimeRequestsPerSeconds: utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			ShutdownTimeoutInSeconds:  utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			SessionExpiredTimeInHours: utils.GetEnvInt("APP_SESSION_EXPIRED_TIME_IN_HOURS", 8),
		},
		FHIR: AppFHIR{
			BaseUrl:              fhirBaseUrl,
			AllowedServers:       utils.GetEnvCSV("FHIR_ALLOWED_SERVERS", []string{fhirBaseUrl}),
			RequestsPerSecond:    utils.GetEnvFloat("FHIR_REQUESTS_PER_SECOND", 0),
			SearchMaxPages:       utils.GetEnvInt("FHIR_SEARCH_MAX_PAGES", 20),
			SearchPageSize:       utils.GetEnvInt("FHIR_SEARCH_PAGE_SIZE", 100),
			RetryMax:             utils.GetEnvInt("FHIR_RETRY_MAX", 2),
			HTTPTimeoutInSeconds: utils.GetEnvInt("FHIR_HTTP_TIMEOUT_IN_SECONDS", 0),
		},
		Smart: AppSmart{
			ClientID:                   utils.GetEnvString("SMART_CLIENT_ID", ""),
			ClientSecret:               utils.GetEnvString("SMART_CLIENT_SECRET", ""),
			RedirectUri:                utils.GetEnvString("SMART_REDIRECT_URI", "http://localhost:8080/api/v1/smart/callback"),
			Scope:                      utils.GetEnvString("SMART_SCOPE", "launch openid fhirUser patient/*.read user/*.read"),
			SessionSecret:              utils.GetEnvString("SMART_SESSION_SECRET", "change-me"),
			AllowedIssuers:             utils.GetEnvCSV("SMART_ALLOWED_ISSUERS", []string{fhirBaseUrl}),
			LaunchStateExpiredInMinute: utils.GetEnvInt("SMART_LAUNCH_STATE_EXPIRED_IN_MINUTE", 10),
		},
		Reporter: AppReporter{
			QueueName: utils.GetEnvString("REPORTER_QUEUE_NAME", "clinical.fetch.degraded"),
		},
	}
}
