package utils

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("fhir_base_url", validateFhirBaseURL)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// IsAllowedEndpoint reports whether endpoint names one of the allowed FHIR
// base URLs. Scheme and host compare case-insensitively and a trailing slash
// is ignored.
func IsAllowedEndpoint(endpoint string, allowed []string) bool {
	target, ok := normalizeEndpoint(endpoint)
	if !ok {
		return false
	}
	for _, candidate := range allowed {
		if normalized, ok := normalizeEndpoint(candidate); ok && normalized == target {
			return true
		}
	}
	return false
}

func normalizeEndpoint(endpoint string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host) + strings.TrimRight(parsed.Path, "/"), true
}

func validateFhirBaseURL(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
