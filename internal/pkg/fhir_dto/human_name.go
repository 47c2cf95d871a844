package fhir_dto

import (
	"deathcert-service/internal/pkg/constvars"
	"strings"
)

// GetFullName renders the official name, or the first one when none is
// marked official.
func GetFullName(names []HumanName) string {
	if len(names) == 0 {
		return ""
	}

	name := names[0]
	for _, candidate := range names {
		if candidate.Use == constvars.FhirHumanNameUseOfficial {
			name = candidate
			break
		}
	}

	if name.Text != "" {
		return name.Text
	}

	parts := make([]string, 0, len(name.Given)+1)
	parts = append(parts, name.Given...)
	if name.Family != "" {
		parts = append(parts, name.Family)
	}
	return strings.Join(parts, " ")
}
