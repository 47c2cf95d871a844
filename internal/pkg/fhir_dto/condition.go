package fhir_dto

type Condition struct {
	ResourceType       string           `json:"resourceType"`
	ID                 string           `json:"id,omitempty"`
	ClinicalStatus     *CodeableConcept `json:"clinicalStatus,omitempty"`
	VerificationStatus *CodeableConcept `json:"verificationStatus,omitempty"`
	Code               *CodeableConcept `json:"code,omitempty"`
	Subject            Reference        `json:"subject"`
	OnsetDateTime      string           `json:"onsetDateTime,omitempty"`
	OnsetPeriod        *Period          `json:"onsetPeriod,omitempty"`
	AbatementDateTime  string           `json:"abatementDateTime,omitempty"`
	RecordedDate       string           `json:"recordedDate,omitempty"`
	Note               []Annotation     `json:"note,omitempty"`
}
