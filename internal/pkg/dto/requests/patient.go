package requests

type GetPatients struct {
	Server string `validate:"fhir_base_url"`
	Name   string `validate:"max=200"`
}

type GetClinicalHistory struct {
	Server    string `validate:"fhir_base_url"`
	PatientID string `validate:"required,max=64"`
}
