package fhir_dto

type OperationOutcome struct {
	ResourceType string                  `json:"resourceType"`
	Issue        []OperationOutcomeIssue `json:"issue"`
}

type OperationOutcomeIssue struct {
	Severity    string           `json:"severity"`
	Code        string           `json:"code"`
	Details     *CodeableConcept `json:"details,omitempty"`
	Diagnostics string           `json:"diagnostics,omitempty"`
}

// Message returns the first human readable issue text.
func (o *OperationOutcome) Message() string {
	for _, issue := range o.Issue {
		if issue.Diagnostics != "" {
			return issue.Diagnostics
		}
		if text := issue.Details.Describe(); text != "" {
			return text
		}
	}
	return ""
}
