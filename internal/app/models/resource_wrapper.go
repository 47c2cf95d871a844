package models

import (
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/fhir_dto"
	"strconv"
	"strings"
)

type resourceConstructor func(raw fhir_dto.RawResource) (ClinicalResource, error)

var resourceConstructors = map[string]resourceConstructor{
	constvars.ResourceCondition: func(raw fhir_dto.RawResource) (ClinicalResource, error) {
		return wrapTyped(NewCondition(raw))
	},
	constvars.ResourceProcedure: func(raw fhir_dto.RawResource) (ClinicalResource, error) {
		return wrapTyped(NewProcedure(raw))
	},
	constvars.ResourceObservation: func(raw fhir_dto.RawResource) (ClinicalResource, error) {
		return wrapTyped(NewObservation(raw))
	},
	constvars.ResourceMedicationRequest: func(raw fhir_dto.RawResource) (ClinicalResource, error) {
		return wrapTyped(NewMedicationRequest(raw))
	},
}

// wrapTyped keeps a nil *T from turning into a non-nil interface.
func wrapTyped[T ClinicalResource](resource T, err error) (ClinicalResource, error) {
	if err != nil {
		return nil, err
	}
	return resource, nil
}

// Wrap turns a raw clinical record into its domain variant, chosen by the
// record's declared resourceType.
func Wrap(raw fhir_dto.RawResource) (ClinicalResource, error) {
	constructor, ok := resourceConstructors[raw.ResourceType]
	if !ok {
		return nil, exceptions.ErrUnsupportedResourceType(raw.ResourceType)
	}
	return constructor(raw)
}

// SupportsResourceType reports whether Wrap has a variant for resourceType.
func SupportsResourceType(resourceType string) bool {
	_, ok := resourceConstructors[resourceType]
	return ok
}

func decodeAs(raw fhir_dto.RawResource, resourceType string, target interface{}) error {
	if raw.ResourceType != resourceType {
		return exceptions.ErrUnsupportedResourceType(raw.ResourceType)
	}
	if err := raw.Decode(target); err != nil {
		return exceptions.ErrDecodeResponse(err, resourceType)
	}
	return nil
}

func NewCondition(raw fhir_dto.RawResource) (*Condition, error) {
	var condition fhir_dto.Condition
	if err := decodeAs(raw, constvars.ResourceCondition, &condition); err != nil {
		return nil, err
	}

	return &Condition{Resource: Resource{
		ID:          raw.ID,
		Description: condition.Code.Describe(),
		StartDate: fhir_dto.FirstDateTime(
			condition.OnsetDateTime,
			condition.OnsetPeriod.StartValue(),
			condition.RecordedDate,
		),
		Raw: raw.Raw,
	}}, nil
}

func NewProcedure(raw fhir_dto.RawResource) (*Procedure, error) {
	var procedure fhir_dto.Procedure
	if err := decodeAs(raw, constvars.ResourceProcedure, &procedure); err != nil {
		return nil, err
	}

	return &Procedure{Resource: Resource{
		ID:          raw.ID,
		Description: procedure.Code.Describe(),
		StartDate: fhir_dto.FirstDateTime(
			procedure.PerformedDateTime,
			procedure.PerformedPeriod.StartValue(),
		),
		Raw: raw.Raw,
	}}, nil
}

func NewObservation(raw fhir_dto.RawResource) (*Observation, error) {
	var observation fhir_dto.Observation
	if err := decodeAs(raw, constvars.ResourceObservation, &observation); err != nil {
		return nil, err
	}

	description := observation.Code.Describe()
	if value := observationValue(&observation); value != "" {
		if description == "" {
			description = value
		} else {
			description = description + ": " + value
		}
	}

	return &Observation{Resource: Resource{
		ID:          raw.ID,
		Description: description,
		StartDate: fhir_dto.FirstDateTime(
			observation.EffectiveDateTime,
			observation.EffectivePeriod.StartValue(),
			observation.Issued,
		),
		Raw: raw.Raw,
	}}, nil
}

func observationValue(observation *fhir_dto.Observation) string {
	switch {
	case observation.ValueQuantity != nil && observation.ValueQuantity.Value != nil:
		quantity := observation.ValueQuantity
		value := quantity.Comparator + strconv.FormatFloat(*quantity.Value, 'f', -1, 64)
		unit := quantity.Unit
		if unit == "" {
			unit = quantity.Code
		}
		return strings.TrimSpace(value + " " + unit)
	case observation.ValueCodeableConcept != nil:
		return observation.ValueCodeableConcept.Describe()
	case observation.ValueString != nil:
		return *observation.ValueString
	case observation.ValueBoolean != nil:
		return strconv.FormatBool(*observation.ValueBoolean)
	case observation.ValueInteger != nil:
		return strconv.FormatInt(*observation.ValueInteger, 10)
	}
	return ""
}

func NewMedicationRequest(raw fhir_dto.RawResource) (*MedicationRequest, error) {
	var request fhir_dto.MedicationRequest
	if err := decodeAs(raw, constvars.ResourceMedicationRequest, &request); err != nil {
		return nil, err
	}

	medicationRequest := &MedicationRequest{
		Resource: Resource{
			ID:          raw.ID,
			Description: request.MedicationCodeableConcept.Describe(),
			StartDate:   fhir_dto.FirstDateTime(request.AuthoredOn),
			Raw:         raw.Raw,
		},
		contained: request.Contained,
	}

	if request.MedicationCodeableConcept == nil && request.MedicationReference != nil {
		medicationRequest.MedicationReference = request.MedicationReference.Reference
		medicationRequest.Description = request.MedicationReference.Display
	}

	return medicationRequest, nil
}
