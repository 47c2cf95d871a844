package constvars

// Validation messages for users, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required":      "is required",
	"url":           "must be a valid URL",
	"max":           "maximum at %s characters long",
	"fhir_base_url": "must be an absolute http or https URL",
}

var TagsWithParams = map[string]bool{
	"max": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientPatientSearchFailed           = "patients could not be loaded, please try again"
	ErrClientRecordNotSupported            = "the clinical record could not be displayed"
	ErrClientNotLoggedIn                   = "your session ended, please launch the application again"
	ErrClientInvalidServer                 = "the clinical data server address is not valid"
	ErrClientServerNotAllowed              = "the clinical data server is not permitted"
	ErrClientClinicalServerUnavailable     = "the clinical data server could not be reached"
)

// Error messages for developers
const (
	ErrDevInvalidInput       = "invalid input"
	ErrDevValidationFailed   = "validation failed"
	ErrDevCannotMarshalJSON  = "cannot marshal JSON"
	ErrDevCreateHTTPRequest  = "failed to create HTTP request"
	ErrDevSendHTTPRequest    = "failed to send HTTP request"
	ErrDevServerProcess      = "server failed to process the request"
	ErrDevRedisGetData       = "failed to get data from redis"
	ErrDevRedisSetData       = "failed to set data into redis"
	ErrDevInvalidEndpoint    = "invalid FHIR endpoint %q"
	ErrDevEndpointNotAllowed = "FHIR endpoint %q is not on the allowlist"
	ErrDevRabbitMQPublish    = "failed to publish message to queue %s"
	ErrDevSessionTokenSign   = "failed to sign session token"
	ErrDevSessionTokenParse  = "failed to parse session token"
	ErrDevSmartDiscovery     = "failed to discover SMART configuration at %s"
	ErrDevSmartTokenExchange = "failed to exchange authorization code at %s"

	// FHIR server messages
	ErrDevFHIRGetResource            = "failed to get FHIR resource %s"
	ErrDevFHIRSearchResource         = "failed to search FHIR resource %s"
	ErrDevFHIRDecodeResourceResponse = "failed to decode FHIR response for resource %s"
	ErrDevFHIRUnsupportedResource    = "unsupported FHIR resource type %q"
	ErrDevFHIRInvalidReference       = "invalid FHIR reference %q"

	// Authentication messages
	ErrDevAuthenticationIncomplete = "delegated authentication did not complete: %s"
)

const (
	ErrFileLocationUnknown = "file location unknown"
	ErrFunctionNameUnknown = "function name unknown"
)
