package contracts

import (
	"context"
	"deathcert-service/internal/pkg/fhir_dto"
	"net/url"
)

// FhirSession is an open connection to one FHIR REST endpoint, anonymous or
// authenticated. Implementations are safe for concurrent use.
type FhirSession interface {
	ServiceURL() string
	Authenticated() bool
	Search(ctx context.Context, resourceType string, filter url.Values) ([]fhir_dto.RawResource, error)
	Read(ctx context.Context, resourceType, id string) (fhir_dto.RawResource, error)
}

type FhirSessionFactory interface {
	NewSession(serviceURL, accessToken string) (FhirSession, error)
}
