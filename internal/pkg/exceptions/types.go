package exceptions

import (
	"deathcert-service/internal/pkg/constvars"
	"fmt"
)

var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}

	// Redis
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}

	// RabbitMQ
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublish, queueName))
	}

	// HTTP
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCreateHTTPRequest)
	}
	ErrSendHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientClinicalServerUnavailable, constvars.ErrDevSendHTTPRequest)
	}

	// FHIR
	ErrGetFHIRResource = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientClinicalServerUnavailable, fmt.Sprintf(constvars.ErrDevFHIRGetResource, resource))
	}
	ErrDecodeResponse = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientClinicalServerUnavailable, fmt.Sprintf(constvars.ErrDevFHIRDecodeResourceResponse, resource))
	}
	ErrSearchFailed = func(err error, resource string) *CustomError {
		return BuildNewCustomError(fmt.Errorf("%w: %w", KindSearchFailed, err), constvars.StatusBadGateway, constvars.ErrClientPatientSearchFailed, fmt.Sprintf(constvars.ErrDevFHIRSearchResource, resource))
	}
	ErrUnsupportedResourceType = func(resourceType string) *CustomError {
		return BuildNewCustomError(KindUnsupportedResourceType, constvars.StatusInternalServerError, constvars.ErrClientRecordNotSupported, fmt.Sprintf(constvars.ErrDevFHIRUnsupportedResource, resourceType))
	}
	ErrInvalidReference = func(reference string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadGateway, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevFHIRInvalidReference, reference))
	}
	ErrInvalidEndpoint = func(err error, endpoint string) *CustomError {
		if err == nil {
			err = KindInvalidEndpoint
		} else {
			err = fmt.Errorf("%w: %w", KindInvalidEndpoint, err)
		}
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidServer, fmt.Sprintf(constvars.ErrDevInvalidEndpoint, endpoint))
	}
	ErrEndpointNotAllowed = func(endpoint string) *CustomError {
		return BuildNewCustomError(KindInvalidEndpoint, constvars.StatusForbidden, constvars.ErrClientServerNotAllowed, fmt.Sprintf(constvars.ErrDevEndpointNotAllowed, endpoint))
	}

	// Auth
	ErrAuthenticationIncomplete = func(err error, reason string) *CustomError {
		if err == nil {
			err = KindAuthenticationIncomplete
		} else {
			err = fmt.Errorf("%w: %w", KindAuthenticationIncomplete, err)
		}
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, fmt.Sprintf(constvars.ErrDevAuthenticationIncomplete, reason))
	}
	ErrSessionTokenSign = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevSessionTokenSign)
	}
	ErrSmartDiscovery = func(err error, issuer string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientClinicalServerUnavailable, fmt.Sprintf(constvars.ErrDevSmartDiscovery, issuer))
	}
	ErrSmartTokenExchange = func(err error, tokenEndpoint string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientNotLoggedIn, fmt.Sprintf(constvars.ErrDevSmartTokenExchange, tokenEndpoint))
	}

	// Default Server
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevServerProcess)
	}
)
