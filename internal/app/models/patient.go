package models

import (
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
)

type Patient struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	BirthDate string          `json:"birth_date,omitempty"`
	Gender    string          `json:"gender,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

func NewPatient(raw fhir_dto.RawResource) (*Patient, error) {
	if raw.ResourceType != constvars.ResourcePatient {
		return nil, exceptions.ErrUnsupportedResourceType(raw.ResourceType)
	}

	var patient fhir_dto.Patient
	if err := raw.Decode(&patient); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}

	return &Patient{
		ID:        raw.ID,
		Name:      fhir_dto.GetFullName(patient.Name),
		BirthDate: patient.BirthDate,
		Gender:    patient.Gender,
		Raw:       raw.Raw,
	}, nil
}
