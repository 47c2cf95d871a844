package constvars

const (
	ResourcePatient           = "Patient"
	ResourcePractitioner      = "Practitioner"
	ResourceCondition         = "Condition"
	ResourceMedication        = "Medication"
	ResourceMedicationRequest = "MedicationRequest"
	ResourceProcedure         = "Procedure"
	ResourceObservation       = "Observation"
	ResourceOperationOutcome  = "OperationOutcome"
	ResourceBundle            = "Bundle"
)

const (
	FhirSearchParamPatient = "patient"
	FhirSearchParamName    = "name"
	FhirSearchParamCount   = "_count"
)

const (
	FhirBundleLinkRelationNext = "next"
	FhirSearchModeOutcome      = "outcome"
	FhirHumanNameUseOfficial   = "official"
	FhirContainedReferenceMark = "#"
	FhirHistorySegment         = "_history"
)

const (
	SmartWellKnownConfigurationPath = "/.well-known/smart-configuration"
	SmartParamAudience              = "aud"
	SmartParamLaunch                = "launch"
	SmartTokenPatient               = "patient"
	SmartTokenIDToken               = "id_token"
	SmartClaimFhirUser              = "fhirUser"
	SmartClaimProfile               = "profile"
)
