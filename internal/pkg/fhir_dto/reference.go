package fhir_dto

import (
	"deathcert-service/internal/pkg/constvars"
	"strings"
)

// SplitReference extracts the resource type and id from a literal reference.
// Relative ("Medication/42"), absolute ("https://x/fhir/Medication/42") and
// versioned ("Medication/42/_history/3") forms are accepted.
func SplitReference(reference string) (resourceType, id string, ok bool) {
	reference = strings.TrimSpace(reference)
	if reference == "" || strings.HasPrefix(reference, constvars.FhirContainedReferenceMark) {
		return "", "", false
	}
	if i := strings.IndexAny(reference, "?#"); i >= 0 {
		reference = reference[:i]
	}

	segments := strings.Split(strings.Trim(reference, "/"), "/")
	if n := len(segments); n >= 4 && segments[n-2] == constvars.FhirHistorySegment {
		segments = segments[:n-2]
	}
	if len(segments) < 2 {
		return "", "", false
	}

	resourceType = segments[len(segments)-2]
	id = segments[len(segments)-1]
	if resourceType == "" || id == "" {
		return "", "", false
	}
	return resourceType, id, true
}

// ContainedID returns the local id of a contained reference ("#med1" -> "med1").
func ContainedID(reference string) (string, bool) {
	reference = strings.TrimSpace(reference)
	if !strings.HasPrefix(reference, constvars.FhirContainedReferenceMark) {
		return "", false
	}
	id := strings.TrimPrefix(reference, constvars.FhirContainedReferenceMark)
	return id, id != ""
}
