package models

import (
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
)

type Practitioner struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Raw  json.RawMessage `json:"-"`
}

func NewPractitioner(raw fhir_dto.RawResource) (*Practitioner, error) {
	if raw.ResourceType != constvars.ResourcePractitioner {
		return nil, exceptions.ErrUnsupportedResourceType(raw.ResourceType)
	}

	var practitioner fhir_dto.Practitioner
	if err := raw.Decode(&practitioner); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePractitioner)
	}

	return &Practitioner{
		ID:   raw.ID,
		Name: fhir_dto.GetFullName(practitioner.Name),
		Raw:  raw.Raw,
	}, nil
}
