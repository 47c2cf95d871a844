package requests

type SmartLaunch struct {
	Issuer string `validate:"required,fhir_base_url"`
	Launch string `validate:"required,max=512"`
}

type SmartCallback struct {
	Code  string `validate:"required"`
	State string `validate:"required,max=64"`
}
