package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"
)

const (
	SessionCookieName    = "deathcert_session"
	SessionTokenClaimKey = "session_id"
)

const (
	RedisKeyLaunchStateFormat   = "smart:launch-state:%s"
	RedisKeyLaunchContextFormat = "smart:launch-context:%s"
)

const (
	FetchEventCategoryDegraded     = "category_fetch_degraded"
	FetchEventMedicationUnresolved = "medication_unresolved"
)
