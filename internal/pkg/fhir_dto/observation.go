package fhir_dto

type Observation struct {
	ResourceType         string           `json:"resourceType"`
	ID                   string           `json:"id,omitempty"`
	Status               string           `json:"status,omitempty"`
	Code                 *CodeableConcept `json:"code,omitempty"`
	Subject              Reference        `json:"subject"`
	EffectiveDateTime    string           `json:"effectiveDateTime,omitempty"`
	EffectivePeriod      *Period          `json:"effectivePeriod,omitempty"`
	Issued               string           `json:"issued,omitempty"`
	ValueQuantity        *Quantity        `json:"valueQuantity,omitempty"`
	ValueCodeableConcept *CodeableConcept `json:"valueCodeableConcept,omitempty"`
	ValueString          *string          `json:"valueString,omitempty"`
	ValueBoolean         *bool            `json:"valueBoolean,omitempty"`
	ValueInteger         *int64           `json:"valueInteger,omitempty"`
}
