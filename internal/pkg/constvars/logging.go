package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingPatientIDKey      = "patient_id"
	LoggingPatientCountKey   = "patient_count"
	LoggingResourceTypeKey   = "resource_type"
	LoggingResourceIDKey     = "resource_id"
	LoggingResourceCountKey  = "resource_count"
	LoggingCategoryKey       = "category"
	LoggingReferenceKey      = "reference"
	LoggingServiceURLKey     = "service_url"
	LoggingPageKey           = "page"
	LoggingEventKindKey      = "event_kind"
	LoggingQueueKey          = "queue"
	LoggingSessionIDKey      = "session_id"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingNextLinkKey       = "next_link"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingResponseLengthKey = "response_length"
	LoggingOperationKey      = "operation"
)
