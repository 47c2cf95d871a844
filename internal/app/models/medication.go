package models

import (
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
)

type Medication struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Raw         json.RawMessage `json:"-"`
}

func NewMedication(raw fhir_dto.RawResource) (*Medication, error) {
	if raw.ResourceType != constvars.ResourceMedication {
		return nil, exceptions.ErrUnsupportedResourceType(raw.ResourceType)
	}

	var medication fhir_dto.Medication
	if err := raw.Decode(&medication); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceMedication)
	}

	return &Medication{
		ID:          raw.ID,
		Description: medication.Code.Describe(),
		Raw:         raw.Raw,
	}, nil
}

// MedicationRequest may name its medication inline or only reference a
// separate Medication record. In the latter case it stays pending until
// AttachMedication is called.
type MedicationRequest struct {
	Resource
	MedicationReference string      `json:"medication_reference,omitempty"`
	Medication          *Medication `json:"medication"`

	contained []fhir_dto.RawResource
}

func (*MedicationRequest) ResourceType() string { return constvars.ResourceMedicationRequest }

func (r *MedicationRequest) IsPending() bool {
	return r.MedicationReference != "" && r.Medication == nil
}

// AttachMedication sets the resolved medication. It only succeeds once; later
// calls leave the request untouched and return false.
func (r *MedicationRequest) AttachMedication(medication *Medication) bool {
	if medication == nil || r.Medication != nil {
		return false
	}
	r.Medication = medication
	if r.Description == "" {
		r.Description = medication.Description
	}
	return true
}

// ContainedMedication resolves a "#id" reference against the request's own
// contained resources.
func (r *MedicationRequest) ContainedMedication() (*Medication, bool) {
	localID, ok := fhir_dto.ContainedID(r.MedicationReference)
	if !ok {
		return nil, false
	}
	for _, raw := range r.contained {
		if raw.ResourceType != constvars.ResourceMedication || raw.ID != localID {
			continue
		}
		medication, err := NewMedication(raw)
		if err != nil {
			return nil, false
		}
		return medication, true
	}
	return nil, false
}
