package config

import "deathcert-service/internal/pkg/utils"

type InternalConfig struct {
	App      App         `mapstructure:"app"`
	FHIR     AppFHIR     `mapstructure:"fhir"`
	Smart    AppSmart    `mapstructure:"smart"`
	Reporter AppReporter `mapstructure:"reporter"`
}

type App struct {
	Env                       string   `mapstructure:"env"`
	Port                      string   `mapstructure:"port"`
	Version                   string   `mapstructure:"version"`
	Address                   string   `mapstructure:"address"`
	EndpointPrefix            string   `mapstructure:"endpoint_prefix"`
	FrontendUrl               string   `mapstructure:"frontend_url"`
	CorsAllowedOrigins        []string `mapstructure:"cors_allowed_origins"`
	MaxRequests               int      `mapstructure:"max_requests"`
	MaxTimeRequestsPerSeconds int      `mapstructure:"max_time_requests_per_seconds"`
	ShutdownTimeoutInSeconds  int      `mapstructure:"shutdown_timeout_in_seconds"`
	SessionExpiredTimeInHours int      `mapstructure:"session_expired_time_in_hours"`
}

type AppFHIR struct {
	BaseUrl              string   `mapstructure:"base_url" validate:"required,fhir_base_url"`
	AllowedServers       []string `mapstructure:"allowed_servers" validate:"dive,fhir_base_url"`
	RequestsPerSecond    float64  `mapstructure:"requests_per_second"`
	SearchMaxPages       int      `mapstructure:"search_max_pages" validate:"min=1"`
	SearchPageSize       int      `mapstructure:"search_page_size"`
	RetryMax             int      `mapstructure:"retry_max"`
	HTTPTimeoutInSeconds int      `mapstructure:"http_timeout_in_seconds"`
}

type AppSmart struct {
	ClientID                   string   `mapstructure:"client_id"`
	ClientSecret               string   `mapstructure:"client_secret"`
	RedirectUri                string   `mapstructure:"redirect_uri" validate:"omitempty,url"`
	Scope                      string   `mapstructure:"scope"`
	SessionSecret              string   `mapstructure:"session_secret" validate:"required"`
	AllowedIssuers             []string `mapstructure:"allowed_issuers" validate:"dive,fhir_base_url"`
	LaunchStateExpiredInMinute int      `mapstructure:"launch_state_expired_in_minute"`
}

type AppReporter struct {
	QueueName string `mapstructure:"queue_name"`
}

// Validate reports the first invalid setting.
func (c *InternalConfig) Validate() error {
	return utils.ValidateStruct(c)
}
