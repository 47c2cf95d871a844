package constvars

const (
	GetPatientsSuccessMessage        = "get patients successfully"
	GetClinicalHistorySuccessMessage = "get clinical history successfully"
	GetLaunchContextSuccessMessage   = "get launch context successfully"
	HealthCheckSuccessMessage        = "service is healthy"
)
